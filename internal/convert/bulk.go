package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Bulk action names.
const (
	ActionIndex  = "index"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// bulkMeta is the action line of a bulk operation.
type bulkMeta struct {
	Index           string `mapstructure:"_index" json:"_index,omitempty"`
	ID              string `mapstructure:"_id" json:"_id,omitempty"`
	Routing         string `mapstructure:"routing" json:"routing,omitempty"`
	IfSeqNo         *int   `mapstructure:"if_seq_no" json:"if_seq_no,omitempty"`
	IfPrimaryTerm   *int   `mapstructure:"if_primary_term" json:"if_primary_term,omitempty"`
	Version         *int   `mapstructure:"version" json:"version,omitempty"`
	VersionType     string `mapstructure:"version_type" json:"version_type,omitempty"`
	RetryOnConflict *int   `mapstructure:"retry_on_conflict" json:"retry_on_conflict,omitempty"`
	Pipeline        string `mapstructure:"pipeline" json:"pipeline,omitempty"`
	RequireAlias    *bool  `mapstructure:"require_alias" json:"require_alias,omitempty"`
}

// updateBodyKeys are the keys an update operation may carry next to its action.
var updateBodyKeys = map[string]bool{
	"doc":             true,
	"upsert":          true,
	"doc_as_upsert":   true,
	"script":          true,
	"scripted_upsert": true,
	"detect_noop":     true,
	"_source":         true,
}

type bulkOptions struct {
	Refresh             string        `mapstructure:"refresh"`
	Routing             string        `mapstructure:"routing"`
	Pipeline            string        `mapstructure:"pipeline"`
	Timeout             time.Duration `mapstructure:"timeout"`
	WaitForActiveShards string        `mapstructure:"wait_for_active_shards"`
	RequireAlias        *bool         `mapstructure:"require_alias"`
}

// BulkRequest converts a list of operation maps into a bulk request.
//
// Each operation has exactly one action key (index, create, update or delete)
// whose value is the action metadata ({"_index", "_id", "routing", ...}).
// index and create take the document under "doc"; update takes its body keys
// (doc, upsert, doc_as_upsert, script, ...) at the top level; delete takes
// nothing else. index is the default for operations without _index.
func BulkRequest(index string, ops []map[string]any, opts map[string]any) (*esapi.BulkRequest, error) {
	var o bulkOptions
	if err := decodeOptions("bulk", opts, &o, true); err != nil {
		return nil, err
	}
	body, err := BulkBody(ops)
	if err != nil {
		return nil, err
	}
	return &esapi.BulkRequest{
		Index:               index,
		Body:                bytes.NewReader(body),
		Pipeline:            o.Pipeline,
		Refresh:             o.Refresh,
		RequireAlias:        o.RequireAlias,
		Routing:             o.Routing,
		Timeout:             o.Timeout,
		WaitForActiveShards: o.WaitForActiveShards,
	}, nil
}

// BulkBody renders operations as the newline delimited body of a bulk call.
func BulkBody(ops []map[string]any) ([]byte, error) {
	if len(ops) == 0 {
		return nil, ErrEmptyBulk
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i, op := range ops {
		action, meta, source, err := splitOperation(op)
		if err != nil {
			return nil, fmt.Errorf("operation %d: %w", i, err)
		}
		if err := enc.Encode(map[string]bulkMeta{action: meta}); err != nil {
			return nil, fmt.Errorf("operation %d: encode action: %w", i, err)
		}
		if source == nil {
			continue
		}
		if err := enc.Encode(source); err != nil {
			return nil, fmt.Errorf("operation %d: encode source: %w", i, err)
		}
	}
	return buf.Bytes(), nil
}

func splitOperation(op map[string]any) (string, bulkMeta, map[string]any, error) {
	var (
		action  string
		rawMeta any
		rest    = map[string]any{}
	)
	for k, v := range op {
		switch k {
		case ActionIndex, ActionCreate, ActionUpdate, ActionDelete:
			if action != "" {
				return "", bulkMeta{}, nil, fmt.Errorf("%w: more than one action (%s, %s)", ErrInvalidOperation, action, k)
			}
			action, rawMeta = k, v
		default:
			rest[k] = v
		}
	}
	if action == "" {
		return "", bulkMeta{}, nil, fmt.Errorf("%w: missing action", ErrInvalidOperation)
	}

	var meta bulkMeta
	metaMap, ok := rawMeta.(map[string]any)
	if !ok && rawMeta != nil {
		return "", bulkMeta{}, nil, fmt.Errorf("%w: %s metadata must be an object", ErrInvalidOperation, action)
	}
	if err := decodeOptions("bulk."+action, metaMap, &meta, true); err != nil {
		return "", bulkMeta{}, nil, err
	}

	switch action {
	case ActionDelete:
		if len(rest) > 0 {
			return "", bulkMeta{}, nil, fmt.Errorf("%w: delete takes no body, got %s", ErrInvalidOperation, firstKey(rest))
		}
		return action, meta, nil, nil
	case ActionUpdate:
		for k := range rest {
			if !updateBodyKeys[k] {
				return "", bulkMeta{}, nil, fmt.Errorf("%w: unexpected update key %q", ErrInvalidOperation, k)
			}
		}
		return action, meta, rest, nil
	default:
		var doc map[string]any
		if raw, ok := rest["doc"]; ok && raw != nil {
			if doc, ok = raw.(map[string]any); !ok {
				return "", bulkMeta{}, nil, fmt.Errorf("%w: %s doc must be an object", ErrInvalidOperation, action)
			}
		}
		delete(rest, "doc")
		if len(rest) > 0 {
			return "", bulkMeta{}, nil, fmt.Errorf("%w: unexpected %s key %q", ErrInvalidOperation, action, firstKey(rest))
		}
		if doc == nil {
			doc = map[string]any{}
		}
		return action, meta, doc, nil
	}
}

func firstKey(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}
