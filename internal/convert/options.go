// Package convert maps generic keyed maps to the search client's typed
// request objects and typed responses back to maps.
//
// Option keys are the engine's wire names. Values are coerced the way
// JSON-decoded maps arrive: numbers may be float64, booleans may be strings,
// lists may be []any or comma separated strings, and durations may be
// engine time units ("30s", "1d") or plain milliseconds.
package convert

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

var (
	// ErrInvalidOption reports an option value that cannot be coerced or an unknown option key.
	ErrInvalidOption = errors.New("invalid option")
	// ErrInvalidOperation reports a malformed bulk or alias operation.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrEmptyBulk is returned when a bulk request carries no operations.
	ErrEmptyBulk = errors.New("bulk request has no operations")
)

// OptionError names the request kind and, when known, the key that failed to convert.
type OptionError struct {
	Op  string
	Key string
	Err error
}

func (e *OptionError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s: option %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OptionError) Unwrap() error { return e.Err }

// Is makes every OptionError match ErrInvalidOption.
func (e *OptionError) Is(target error) bool { return target == ErrInvalidOption }

var (
	durationType    = reflect.TypeOf(time.Duration(0))
	stringType      = reflect.TypeOf("")
	stringSliceType = reflect.TypeOf([]string(nil))
)

// decodeOptions decodes opts into out. When strict is set, keys that do not
// map to a field of out are rejected; otherwise out is expected to carry a
// ",remain" field collecting them.
func decodeOptions(op string, opts map[string]any, out any, strict bool) error {
	var md mapstructure.Metadata
	dec, err := newOptionDecoder(out, &md)
	if err != nil {
		return &OptionError{Op: op, Err: err}
	}
	if opts == nil {
		opts = map[string]any{}
	}
	if err := dec.Decode(opts); err != nil {
		key, keyErr := failingKey(opts, out)
		if key == "" {
			return &OptionError{Op: op, Err: err}
		}
		return &OptionError{Op: op, Key: key, Err: keyErr}
	}
	if strict && len(md.Unused) > 0 {
		sort.Strings(md.Unused)
		return &OptionError{Op: op, Key: md.Unused[0], Err: errors.New("unknown option")}
	}
	return nil
}

func newOptionDecoder(out any, md *mapstructure.Metadata) (*mapstructure.Decoder, error) {
	return mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			boolToStringHook,
			durationHook,
			integerHook,
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		MatchName:        func(key, field string) bool { return key == field },
		Metadata:         md,
		Result:           out,
	})
}

// failingKey decodes the keys of opts one at a time into a scratch value of
// out's type and returns the first, in sorted order, that does not convert.
func failingKey(opts map[string]any, out any) (string, error) {
	keys := make([]string, 0, len(opts))
	for k := range opts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	typ := reflect.TypeOf(out).Elem()
	for _, k := range keys {
		dec, err := newOptionDecoder(reflect.New(typ).Interface(), nil)
		if err != nil {
			return "", err
		}
		err = dec.Decode(map[string]any{k: opts[k]})
		if err == nil {
			continue
		}
		var me *mapstructure.Error
		if errors.As(err, &me) && len(me.Errors) == 1 {
			err = errors.New(me.Errors[0])
		}
		return k, err
	}
	return "", nil
}

// boolToStringHook keeps booleans readable for string parameters such as
// refresh, where weak typing would otherwise produce "1" and "0".
func boolToStringHook(_ reflect.Type, t reflect.Type, data any) (any, error) {
	b, ok := data.(bool)
	if !ok {
		return data, nil
	}
	switch t {
	case stringType:
		return strconv.FormatBool(b), nil
	case stringSliceType:
		return []string{strconv.FormatBool(b)}, nil
	}
	return data, nil
}

// durationHook converts engine time units and millisecond numbers. The
// engine's -1 sentinel has no time.Duration form, so negative values are
// rejected.
func durationHook(_ reflect.Type, t reflect.Type, data any) (any, error) {
	if t != durationType {
		return data, nil
	}
	var (
		d   time.Duration
		err error
	)
	switch v := data.(type) {
	case time.Duration:
		d = v
	case string:
		d, err = parseDuration(v)
	case float64:
		d = time.Duration(v * float64(time.Millisecond))
	case float32:
		d = time.Duration(float64(v) * float64(time.Millisecond))
	case int:
		d = time.Duration(v) * time.Millisecond
	case int64:
		d = time.Duration(v) * time.Millisecond
	case json.Number:
		var ms float64
		ms, err = v.Float64()
		d = time.Duration(ms * float64(time.Millisecond))
	default:
		return data, nil
	}
	if err != nil {
		return nil, err
	}
	if d < 0 {
		return nil, fmt.Errorf("negative duration %v", data)
	}
	return d, nil
}

// integerHook refuses floats with a fraction for integer fields, which weak
// typing would otherwise truncate.
func integerHook(_ reflect.Type, t reflect.Type, data any) (any, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	if t == durationType {
		return data, nil
	}
	var f float64
	switch v := data.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	default:
		return data, nil
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%v is not an integer", data)
	}
	return data, nil
}

var durationUnits = []struct {
	suffix string
	unit   time.Duration
}{
	// Longer suffixes first so "ms" is not read as "s".
	{"nanos", time.Nanosecond},
	{"micros", time.Microsecond},
	{"ms", time.Millisecond},
	{"d", 24 * time.Hour},
	{"h", time.Hour},
	{"m", time.Minute},
	{"s", time.Second},
}

// parseDuration reads the engine's time units: nanos, micros, ms, s, m, h, d.
// A bare number is milliseconds.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	for _, u := range durationUnits {
		if num, ok := strings.CutSuffix(s, u.suffix); ok {
			n, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid duration %q", s)
			}
			return time.Duration(n * float64(u.unit)), nil
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	return time.Duration(n * float64(time.Millisecond)), nil
}

// jsonBody encodes v as a request body. A nil map becomes an empty object.
func jsonBody(v any) (io.Reader, error) {
	if m, ok := v.(map[string]any); ok && m == nil {
		v = map[string]any{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	return bytes.NewReader(b), nil
}

// optionalBody encodes body only when it carries keys.
func optionalBody(body map[string]any) (io.Reader, error) {
	if len(body) == 0 {
		return nil, nil
	}
	return jsonBody(body)
}

// MergeBody returns a new map holding base overlaid with the non-nil entries
// of overrides. Neither argument is modified.
func MergeBody(base, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overrides {
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}
