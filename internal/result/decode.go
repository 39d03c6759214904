package result

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidJSON means the payload is not a single well-formed JSON value.
	ErrInvalidJSON = errors.New("payload is not valid JSON")
	// ErrSchema means the JSON decoded but required fields are missing or malformed.
	ErrSchema = errors.New("payload does not match schema")
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	// Report wire names in validation errors.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeCleaning strictly decodes a cleaning payload.
func DecodeCleaning(raw string) (CleaningResult, error) {
	var out CleaningResult
	if err := decodeStrict([]byte(raw), &out); err != nil {
		return CleaningResult{}, err
	}
	if err := check(&out); err != nil {
		return CleaningResult{}, err
	}
	return out, nil
}

// DecodeVisualization strictly decodes a visualization payload.
func DecodeVisualization(raw string) (VisualizationSpec, error) {
	return decodeVisualization([]byte(raw))
}

// DecodeModel strictly decodes a model-recommendation payload.
func DecodeModel(raw string) (ModelRecommendation, error) {
	var out ModelRecommendation
	if err := decodeStrict([]byte(raw), &out); err != nil {
		return ModelRecommendation{}, err
	}
	if err := check(&out); err != nil {
		return ModelRecommendation{}, err
	}
	return out, nil
}

func decodeVisualization(b []byte) (VisualizationSpec, error) {
	var wire visualizationWire
	if err := decodeStrict(b, &wire); err != nil {
		return VisualizationSpec{}, err
	}
	if err := check(&wire); err != nil {
		return VisualizationSpec{}, err
	}
	chart, err := NewChart(wire.Type, *wire.Config)
	if err != nil {
		return VisualizationSpec{}, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return VisualizationSpec{Chart: chart, Wire: wire.Wire}, nil
}

// decodeStrict accepts exactly one JSON value with nothing but whitespace after it.
func decodeStrict(b []byte, v any) error {
	dec := json.NewDecoder(strings.NewReader(string(b)))
	if err := dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: field %s: expected %s, got %s", ErrSchema, typeErr.Field, typeErr.Type, typeErr.Value)
		}
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrInvalidJSON)
	}
	return nil
}

func check(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrSchema, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return nil
}
