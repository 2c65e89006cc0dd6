package internal

import (
	"reflect"
	"strconv"
	"strings"
)

// FieldValueByTag finds the struct field of v whose tag in the given tag
// namespace names tagValue. Tag options ("name,omitempty") are ignored.
func FieldValueByTag(v any, tag, tagValue string) (reflect.Value, bool) {
	stype := reflect.TypeOf(v)
	sval := reflect.ValueOf(v)
	for i := 0; i < stype.NumField(); i++ {
		f := stype.Field(i)
		val, ok := f.Tag.Lookup(tag)
		if !ok {
			continue
		}
		if name, _, _ := strings.Cut(val, ","); name == tagValue {
			return sval.Field(i), true
		}
	}

	return reflect.Value{}, false
}

// FieldString renders the tagged field as an index value.
// Only int-family and string fields are indexable.
func FieldString(v any, tag, tagValue string) (string, bool) {
	field, ok := FieldValueByTag(v, tag, tagValue)
	if !ok {
		return "", false
	}

	switch field.Kind() {
	case reflect.String:
		return field.String(), true
	case reflect.Int, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(field.Int(), 10), true
	default:
		return "", false
	}
}
