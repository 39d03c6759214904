package result

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

// Passthrough remembers how an object appeared on the wire so re-encoding
// a decoded value yields the same document. The zero value belongs to
// values built in code: their nil fields are simply omitted.
type Passthrough struct {
	// Present holds the known keys that carried a non-null value.
	// It is non-nil for every decoded object.
	Present map[string]bool
	// Extra holds unknown keys and explicit nulls, verbatim.
	Extra map[string]json.RawMessage
}

var jsonNull = []byte("null")

// decodeObject unmarshals b into dst (a pointer to a method-free struct
// type) and records which keys were seen.
func decodeObject(b []byte, dst any) (Passthrough, error) {
	if bytes.Equal(bytes.TrimSpace(b), jsonNull) {
		return Passthrough{}, nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return Passthrough{}, err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return Passthrough{}, err
	}
	known := fieldNames(reflect.TypeOf(dst).Elem())
	wire := Passthrough{Present: make(map[string]bool, len(raw))}
	for key, val := range raw {
		name, ok := matchField(known, key)
		if ok && !bytes.Equal(bytes.TrimSpace(val), jsonNull) {
			wire.Present[name] = true
			continue
		}
		if wire.Extra == nil {
			wire.Extra = make(map[string]json.RawMessage)
		}
		wire.Extra[key] = val
	}
	return wire, nil
}

// encodeObject marshals src (a method-free struct value) and restores the
// key set recorded in wire.
func encodeObject(src any, wire Passthrough) ([]byte, error) {
	b, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for key, val := range m {
		if wire.Present != nil {
			if !wire.Present[key] {
				delete(m, key)
			}
		} else if bytes.Equal(val, jsonNull) {
			delete(m, key)
		}
	}
	for key, val := range wire.Extra {
		m[key] = val
	}
	return json.Marshal(m)
}

func fieldNames(t reflect.Type) []string {
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]
		if name != "" && name != "-" {
			names = append(names, name)
		}
	}
	return names
}

// matchField mirrors encoding/json: exact match first, then case-insensitive.
func matchField(names []string, key string) (string, bool) {
	for _, n := range names {
		if n == key {
			return n, true
		}
	}
	for _, n := range names {
		if strings.EqualFold(n, key) {
			return n, true
		}
	}
	return "", false
}
