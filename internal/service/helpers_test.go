package service

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"
)

// readRequestBody decodes a JSON request body and rewinds it so the matcher
// can be evaluated more than once.
func readRequestBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	if r == nil {
		return nil
	}
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if rs, ok := r.(*bytes.Reader); ok {
		rs.Reset(b)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return m
}
