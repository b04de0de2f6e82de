package screeps

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/buger/jsonparser"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var (
	errEmptyToken = errors.New("empty token")
	errMalformed  = errors.New("malformed JSON body")
)

func decodeFailure(path string, err error) error {
	metricDecodeErrorsTotal.Add(1)
	return &DecodeError{Path: path, Err: err}
}

func decodeRoot[T any](path string, body []byte) (*T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, decodeFailure(path, err)
	}
	return &out, nil
}

func decodeEnvelope[T any](path, key string, body []byte) (T, error) {
	var out T
	if !json.Valid(body) {
		return out, decodeFailure(path, errMalformed)
	}
	raw, err := envelope(body, key)
	if err != nil {
		return out, decodeFailure(path, err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, decodeFailure(path, err)
	}
	return out, nil
}

// envelope returns the raw JSON stored under key at the document root. body
// must already be valid JSON; jsonparser only scans as far as the key.
func envelope(body []byte, key string) ([]byte, error) {
	raw, typ, _, err := jsonparser.Get(body, key)
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return nil, fmt.Errorf("missing %q field", key)
		}
		return nil, err
	}
	switch typ {
	case jsonparser.Null, jsonparser.NotExist:
		return nil, fmt.Errorf("missing %q field", key)
	case jsonparser.String:
		// Get strips the quotes but leaves escapes intact.
		quoted := make([]byte, 0, len(raw)+2)
		quoted = append(quoted, '"')
		quoted = append(quoted, raw...)
		return append(quoted, '"'), nil
	}
	return raw, nil
}

// decodeChecked fills into from b, then decodes b a second time into
// required, a struct of pointer fields tagged validate:"required", so that a
// present zero value is told apart from a missing key.
func decodeChecked(b []byte, kind string, into, required any) error {
	if err := json.Unmarshal(b, into); err != nil {
		return err
	}
	if err := json.Unmarshal(b, required); err != nil {
		return err
	}
	return checkRequired(kind, required)
}

// checkRequired runs the validate tags of a decoding shadow struct.
func checkRequired(kind string, shadow any) error {
	if err := validate.Struct(shadow); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s: missing required field %s", kind, verrs[0].Field())
		}
		return fmt.Errorf("%s: %w", kind, err)
	}
	return nil
}
