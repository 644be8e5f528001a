package convert

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"searchbridge/internal/model"
)

var errorCauseType = reflect.TypeOf(model.ErrorCause{})

// Decode fills out, a pointer to one of the typed responses in model, from a
// response map such as the ones produced by the ToMap functions or decoded
// from JSON. Keys follow the json tags of the model types.
func Decode(m map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       errorCauseHook,
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// errorCauseHook accepts a bare string where an error cause is expected.
func errorCauseHook(_ reflect.Type, t reflect.Type, data any) (any, error) {
	if s, ok := data.(string); ok && t == errorCauseType {
		return map[string]any{"reason": s}, nil
	}
	return data, nil
}
