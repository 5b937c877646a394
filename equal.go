package lazysearch

import "reflect"

// deepEqual is the default equality. It compares values, never identity,
// so a freshly built value matches an equal literal.
func deepEqual[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}

// isNil reports whether v holds a nil pointer, map, slice, func, chan or
// interface. An interface holding a typed nil (a nil *int stored in an any,
// say) counts as nil too. Values of non-nilable types are never nil.
func isNil[T any](v T) bool {
	rv := reflect.ValueOf(&v).Elem()
	if rv.Kind() == reflect.Interface && !rv.IsNil() {
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
