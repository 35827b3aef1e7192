// Package assert panics on programmer errors such as a missing dependency.
package assert

import (
	"cmp"
	"fmt"
	"reflect"
)

// NotNil panics if value is nil, including a nil pointer, map, slice, func or
// chan stored in an interface.
func NotNil(value any) {
	if value == nil {
		panic("expected value to be not nil")
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			panic(fmt.Sprintf("expected %T to be not nil", value))
		}
	}
}

// InRange panics unless lo <= value < hi.
func InRange[T cmp.Ordered](value, lo, hi T) {
	if value < lo || value >= hi {
		panic(fmt.Sprintf("expected %v to be in [%v, %v)", value, lo, hi))
	}
}
