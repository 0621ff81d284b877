// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package sanitize owns numeric sanitization for the response layer.
//
// Every payload passes through Scrub exactly once before hashing and once
// before serialization: any float that is NaN or infinite becomes nil. This
// centralizes what used to be scattered per-endpoint NaN handling and keeps
// the ETag/serialization invariant ("no non-finite float ever leaves the
// process") in a single place.
package sanitize

import (
	"math"
	"reflect"
	"time"

	"github.com/goccy/go-json"
)

// Scrub walks a structured payload and replaces non-finite floats with nil.
// Maps, slices, and arrays are traversed recursively; structs are converted
// through JSON so the result is always map/slice/scalar shaped.
func Scrub(v interface{}) interface{} {
	return scrubValue(normalize(v))
}

// ScrubInPlace sanitizes a generic map payload without re-normalizing it.
// Intended for payloads that are already map[string]interface{} shaped.
func ScrubInPlace(m map[string]interface{}) map[string]interface{} {
	out, _ := scrubValue(m).(map[string]interface{})
	return out
}

// normalize converts arbitrary Go values (including structs) into the
// generic map/slice/scalar representation a JSON round-trip produces.
func normalize(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	switch v.(type) {
	case map[string]interface{}, []interface{}, string, bool,
		float64, float32, int, int32, int64, uint, uint32, uint64:
		return v
	}

	// Structs, typed slices, typed maps: marshal with non-finite floats
	// already masked so encoding cannot fail on them.
	data, err := json.Marshal(maskNonFinite(reflect.ValueOf(v)))
	if err != nil {
		return nil
	}
	var out interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func scrubValue(v interface{}) interface{} {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case float32:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case map[string]interface{}:
		for k, item := range val {
			val[k] = scrubValue(item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = scrubValue(item)
		}
		return val
	default:
		return v
	}
}

// maskNonFinite returns a JSON-marshalable mirror of rv with non-finite
// floats replaced by nil. It never mutates the input.
func maskNonFinite(rv reflect.Value) interface{} {
	if !rv.IsValid() {
		return nil
	}
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return maskNonFinite(rv.Elem())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
		return f
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil
		}
		out := make([]interface{}, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = maskNonFinite(rv.Index(i))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return nil
		}
		out := make(map[string]interface{}, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, ok := iter.Key().Interface().(string)
			if !ok {
				continue
			}
			out[key] = maskNonFinite(iter.Value())
		}
		return out
	case reflect.Struct:
		// time.Time must stay a JSON timestamp, not a field map.
		if t, ok := rv.Interface().(time.Time); ok {
			return t
		}
		return structToMap(rv)
	default:
		if rv.CanInterface() {
			return rv.Interface()
		}
		return nil
	}
}

func structToMap(rv reflect.Value) map[string]interface{} {
	rt := rv.Type()
	out := make(map[string]interface{}, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}
		name, omitEmpty := jsonFieldName(field)
		if name == "-" {
			continue
		}
		fv := rv.Field(i)
		if omitEmpty && fv.IsZero() {
			continue
		}
		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			if embedded, ok := maskNonFinite(fv).(map[string]interface{}); ok {
				for k, v := range embedded {
					out[k] = v
				}
				continue
			}
		}
		out[name] = maskNonFinite(fv)
	}
	return out
}

func jsonFieldName(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name, false
	}
	name := tag
	omitEmpty := false
	for i, part := range splitComma(tag) {
		if i == 0 {
			name = part
			continue
		}
		if part == "omitempty" {
			omitEmpty = true
		}
	}
	if name == "" {
		name = field.Name
	}
	return name, omitEmpty
}

func splitComma(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == ',' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
