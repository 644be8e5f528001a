package convert

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readBody decodes a request body into a map.
func readBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	require.NotNil(t, r)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "", want: 0},
		{in: "30s", want: 30 * time.Second},
		{in: "1m", want: time.Minute},
		{in: "2h", want: 2 * time.Hour},
		{in: "1d", want: 24 * time.Hour},
		{in: "250ms", want: 250 * time.Millisecond},
		{in: "10micros", want: 10 * time.Microsecond},
		{in: "100nanos", want: 100 * time.Nanosecond},
		{in: "1.5s", want: 1500 * time.Millisecond},
		{in: "1500", want: 1500 * time.Millisecond},
		{in: " 5s ", want: 5 * time.Second},
		{in: "abc", wantErr: true},
		{in: "xs", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeOptions_Coercion(t *testing.T) {
	var o struct {
		Refresh string        `mapstructure:"refresh"`
		Routing []string      `mapstructure:"routing"`
		Size    *int          `mapstructure:"size"`
		Cache   *bool         `mapstructure:"cache"`
		Timeout time.Duration `mapstructure:"timeout"`
		Scroll  time.Duration `mapstructure:"scroll"`
		Fields  []string      `mapstructure:"fields"`
	}
	err := decodeOptions("test", map[string]any{
		"refresh": true,
		"routing": "a,b",
		"size":    float64(10),
		"cache":   "false",
		"timeout": "5s",
		"scroll":  float64(60000),
		"fields":  []any{"x", "y"},
	}, &o, true)
	require.NoError(t, err)

	assert.Equal(t, "true", o.Refresh)
	assert.Equal(t, []string{"a", "b"}, o.Routing)
	require.NotNil(t, o.Size)
	assert.Equal(t, 10, *o.Size)
	require.NotNil(t, o.Cache)
	assert.False(t, *o.Cache)
	assert.Equal(t, 5*time.Second, o.Timeout)
	assert.Equal(t, time.Minute, o.Scroll)
	assert.Equal(t, []string{"x", "y"}, o.Fields)
}

func TestDecodeOptions_Errors(t *testing.T) {
	type target struct {
		Size    *int          `mapstructure:"size"`
		Timeout time.Duration `mapstructure:"timeout"`
	}

	t.Run("unknown key in strict mode", func(t *testing.T) {
		var o target
		err := decodeOptions("get", map[string]any{"zeta": 1, "alpha": 2}, &o, true)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidOption))

		var oe *OptionError
		require.True(t, errors.As(err, &oe))
		assert.Equal(t, "get", oe.Op)
		assert.Equal(t, "alpha", oe.Key)
		assert.Equal(t, `get: option "alpha": unknown option`, err.Error())
	})

	t.Run("unknown key tolerated when not strict", func(t *testing.T) {
		var o target
		assert.NoError(t, decodeOptions("search", map[string]any{"query": map[string]any{}}, &o, false))
	})

	t.Run("uncoercible value", func(t *testing.T) {
		var o target
		err := decodeOptions("get", map[string]any{"size": "ten"}, &o, true)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidOption))
	})

	t.Run("bad duration", func(t *testing.T) {
		var o target
		err := decodeOptions("get", map[string]any{"timeout": "soon"}, &o, true)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidOption))
		assert.Contains(t, err.Error(), "invalid duration")
	})

	t.Run("failing key is named", func(t *testing.T) {
		var o target
		err := decodeOptions("get", map[string]any{"size": "ten", "timeout": "5s"}, &o, true)
		var oe *OptionError
		require.True(t, errors.As(err, &oe))
		assert.Equal(t, "size", oe.Key)
		assert.True(t, strings.HasPrefix(err.Error(), `get: option "size": `), err.Error())
	})

	t.Run("negative duration", func(t *testing.T) {
		for _, v := range []any{"-1", "-5s", float64(-1)} {
			var o target
			err := decodeOptions("delete_index", map[string]any{"timeout": v}, &o, true)
			var oe *OptionError
			require.True(t, errors.As(err, &oe), "%v", v)
			assert.Equal(t, "timeout", oe.Key)
			assert.Contains(t, err.Error(), "negative duration")
		}
	})

	t.Run("fractional integer", func(t *testing.T) {
		var o target
		err := decodeOptions("get", map[string]any{"size": 1.7}, &o, true)
		var oe *OptionError
		require.True(t, errors.As(err, &oe))
		assert.Equal(t, "size", oe.Key)
		assert.Contains(t, err.Error(), "not an integer")

		require.NoError(t, decodeOptions("get", map[string]any{"size": float64(3)}, &o, true))
		assert.Equal(t, 3, *o.Size)
	})

	t.Run("keys are case sensitive", func(t *testing.T) {
		var o target
		err := decodeOptions("get", map[string]any{"Timeout": "5s"}, &o, true)
		var oe *OptionError
		require.True(t, errors.As(err, &oe))
		assert.Equal(t, "Timeout", oe.Key)
		assert.Equal(t, time.Duration(0), o.Timeout)
	})

	t.Run("nil options", func(t *testing.T) {
		var o target
		require.NoError(t, decodeOptions("get", nil, &o, true))
		assert.Nil(t, o.Size)
	})
}

func TestBodyHelpers(t *testing.T) {
	r, err := jsonBody(map[string]any(nil))
	require.NoError(t, err)
	assert.Empty(t, readBody(t, r))

	r, err = optionalBody(nil)
	require.NoError(t, err)
	assert.Nil(t, r)

	r, err = optionalBody(map[string]any{"size": 1})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"size": float64(1)}, readBody(t, r))

	_, err = jsonBody(map[string]any{"bad": make(chan int)})
	assert.Error(t, err)

	merged := MergeBody(nil, map[string]any{"a": 1, "b": nil})
	assert.Equal(t, map[string]any{"a": 1}, merged)

	base := map[string]any{"size": 10, "query": "q"}
	merged = MergeBody(base, map[string]any{"size": 5, "from": 20})
	assert.Equal(t, map[string]any{"size": 5, "query": "q", "from": 20}, merged)
	assert.Equal(t, 10, base["size"], "base is left untouched")
}
