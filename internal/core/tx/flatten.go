package tx

import (
	"reflect"
	"strings"
)

// ReflectFlatten builds a flat field map for a transaction from its json
// struct tags, merged over the common fields. Pointer fields that are nil
// and omitempty fields at their zero value are skipped.
func ReflectFlatten(txn Transaction) (map[string]any, error) {
	m := txn.GetCommon().ToMap()

	v := reflect.ValueOf(txn)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous || !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("json")
		if tag == "" || tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" {
			name = field.Name
		}

		value := v.Field(i)
		if strings.Contains(opts, "omitempty") && value.IsZero() {
			continue
		}
		if value.Kind() == reflect.Ptr {
			if value.IsNil() {
				continue
			}
			value = value.Elem()
		}
		m[name] = value.Interface()
	}

	return m, nil
}
