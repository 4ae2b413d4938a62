// Package strictjson decodes calculation requests that must name every
// required input. A struct field is required unless its json tag carries
// omitempty; an absent key or an explicit null fails with InvalidInput on
// that key instead of decoding to the zero value.
package strictjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"drilling-engine/internal/calcerr"
)

// Unmarshal decodes data into dst, which must point to a struct. Unknown
// keys are rejected. Type mismatches on a named key and missing required
// keys are returned as *calcerr.InvalidInputError for that key; any other
// decode failure is returned unchanged.
func Unmarshal(data []byte, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if named := typeFieldError(err); named != nil {
			return named
		}
		return err
	}
	return RequirePresent(data, reflect.TypeOf(dst))
}

// RequirePresent checks that the JSON object in data holds a non-null value
// for every required field of t. Non-object input is left to the decoder.
func RequirePresent(data []byte, t reflect.Type) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil
	}

	for _, name := range RequiredFields(t) {
		raw, ok := keys[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return calcerr.InvalidInput(name, "required")
		}
	}
	return nil
}

// RequiredFields lists the json names of t's required fields in
// declaration order.
func RequiredFields(t reflect.Type) []string {
	var names []string
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if strings.Contains(","+opts+",", ",omitempty,") {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names = append(names, name)
	}
	return names
}

// FieldError maps a decode failure onto InvalidInput. Errors that already
// name a field keep it; everything else is attributed to fallback.
func FieldError(err error, fallback string) error {
	var invalid *calcerr.InvalidInputError
	if errors.As(err, &invalid) {
		return invalid
	}
	if named := typeFieldError(err); named != nil {
		return named
	}
	return calcerr.InvalidInput(fallback, err.Error())
}

func typeFieldError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return calcerr.InvalidInputf(typeErr.Field, "expected %s, got %s", typeErr.Type, typeErr.Value)
	}
	return nil
}
