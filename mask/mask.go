// Package mask hides sensitive struct fields before they reach logs or the console.
package mask

import (
	"reflect"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	tagName = "mask"

	// Masked replaces any non-string sensitive value.
	Masked = "***masked***"

	// visibleSuffix is how many trailing characters of a long secret are kept.
	visibleSuffix = 4
	// minRevealLen is the shortest secret whose suffix is revealed.
	minRevealLen = 12
)

// StructToOrdMap flattens v into an ordered map, masking fields tagged `mask:"true"`.
// Nested structs are flattened with dotted keys. Names come from the yaml tag,
// then the json tag, then the field name; "-" skips the field.
// Non-struct input is returned under the empty key.
func StructToOrdMap(v any) *orderedmap.OrderedMap[string, any] {
	if v == nil {
		return nil
	}

	om := orderedmap.New[string, any]()
	flatten(om, reflect.ValueOf(v), "")
	return om
}

// String masks a single secret: long values keep their last characters for identification.
func String(s string) string {
	if s == "" {
		return ""
	}
	if len(s) < minRevealLen {
		return Masked
	}
	return "***" + s[len(s)-visibleSuffix:]
}

func flatten(om *orderedmap.OrderedMap[string, any], val reflect.Value, prefix string) {
	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			om.Set(prefix, nil)
			return
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		om.Set(prefix, val.Interface())
		return
	}

	typ := val.Type()
	for i := range val.NumField() {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		name, skip := fieldName(field)
		if skip {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		fv := val.Field(i)
		switch {
		case strings.EqualFold(field.Tag.Get(tagName), "true"):
			om.Set(name, maskValue(fv))
		case fv.Kind() == reflect.Pointer && fv.IsNil():
			om.Set(name, nil)
		case isStruct(fv):
			flatten(om, fv, name)
		default:
			om.Set(name, fv.Interface())
		}
	}
}

func isStruct(val reflect.Value) bool {
	if val.Kind() == reflect.Pointer {
		return !val.IsNil() && val.Elem().Kind() == reflect.Struct
	}
	return val.Kind() == reflect.Struct
}

func maskValue(val reflect.Value) any {
	switch val.Kind() { //nolint:exhaustive // remaining kinds are masked uniformly
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		if val.IsNil() {
			return nil
		}
		if val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
			return maskValue(val.Elem())
		}
	case reflect.String:
		return String(val.String())
	}

	if val.IsZero() {
		return val.Interface()
	}
	return Masked
}

func fieldName(field reflect.StructField) (string, bool) {
	for _, tag := range []string{"yaml", "json"} {
		v, ok := field.Tag.Lookup(tag)
		if !ok {
			continue
		}
		if v == "-" {
			return "", true
		}
		if idx := strings.Index(v, ","); idx != -1 {
			v = v[:idx]
		}
		if v != "" {
			return v, false
		}
	}
	return field.Name, false
}
