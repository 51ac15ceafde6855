package internal

import "reflect"

// InstanceTypeName returns the Go type name of instance for diagnostics.
func InstanceTypeName(instance any) string {
	t := reflect.TypeOf(instance)
	if t == nil {
		return "nil"
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Name()
}
