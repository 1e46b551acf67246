package omitnilpointers

import "reflect"

// OmitNilPointers drops nil entries from a patch map and dereferences the
// pointer values that remain, so optional update fields can be declared as
// pointers and passed through as plain values.
func OmitNilPointers(fields map[string]any) map[string]any {
	omitted := make(map[string]any, len(fields))
	for key, value := range fields {
		if value == nil {
			continue
		}

		v := reflect.ValueOf(value)
		if v.Kind() == reflect.Ptr {
			if v.IsNil() {
				continue
			}
			omitted[key] = v.Elem().Interface()
		} else {
			omitted[key] = value
		}
	}

	return omitted
}
