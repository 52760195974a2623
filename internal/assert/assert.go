// Package assert contains minimal test assertions built on testing.TB.
package assert

//
// assert.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//
// based on https://antonz.org/do-not-testify/
//

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

// Equal asserts that got is equal to want.
func Equal[T any](tb testing.TB, got, want T) bool {
	tb.Helper()

	if areEqual(got, want) {
		return true
	}

	tb.Errorf("got: %#v; want: %#v", got, want)

	return false
}

// NotEqual asserts that got is not equal to want.
func NotEqual[T any](tb testing.TB, got, want T) bool {
	tb.Helper()

	if !areEqual(got, want) {
		return true
	}

	tb.Errorf("got: %#v; want other value", got)

	return false
}

// Same asserts that got and want point to the same object.
func Same[T any](tb testing.TB, got, want *T) bool {
	tb.Helper()

	if got == want {
		return true
	}

	tb.Errorf("got: %p; want the same pointer: %p", got, want)

	return false
}

// Len asserts that slice has size elements.
func Len[T any](tb testing.TB, got []T, size int) bool {
	tb.Helper()

	if len(got) == size {
		return true
	}

	tb.Errorf("got: len=%d %#v; want len=%d", len(got), got, size)

	return false
}

// Contains asserts that got contains substr.
func Contains(tb testing.TB, got, substr string) bool {
	tb.Helper()

	if strings.Contains(got, substr) {
		return true
	}

	tb.Errorf("got: %q; want containing: %q", got, substr)

	return false
}

// NoErr asserts that the got error is nil.
func NoErr(tb testing.TB, got error) bool {
	tb.Helper()

	if got == nil {
		return true
	}

	tb.Errorf("got unexpected error: %#+v", got)

	return false
}

// Err asserts that the got is an error.
func Err(tb testing.TB, got error) bool {
	tb.Helper()

	if got != nil {
		return true
	}

	tb.Error("got: <nil>; want: error")

	return false
}

// ErrSpec asserts that the got error matches the want. Want may be substring
// of message (string), error in chain (error) or error type (reflect.Type).
func ErrSpec(tb testing.TB, got error, want any) bool {
	tb.Helper()

	if got == nil {
		tb.Errorf("got: <nil>; want: %v", want)

		return false
	}

	var ok bool

	switch w := want.(type) {
	case string:
		ok = strings.Contains(got.Error(), w)
	case error:
		ok = errors.Is(got, w)
	case reflect.Type:
		ok = errors.As(got, reflect.New(w).Interface())
	default:
		tb.Errorf("unsupported want type: %T", want)

		return false
	}

	if !ok {
		tb.Errorf("got: %T(%v); want: %v", got, got, want)
	}

	return ok
}

// True asserts that got is true.
func True(tb testing.TB, got bool) bool {
	tb.Helper()

	if !got {
		tb.Error("got: false; want: true")
	}

	return got
}

// False asserts that got is false.
func False(tb testing.TB, got bool) bool {
	tb.Helper()

	if got {
		tb.Error("got: true; want: false")
	}

	return !got
}

// Panics asserts that fun panics.
func Panics(tb testing.TB, fun func()) (panicked bool) {
	tb.Helper()

	defer func() {
		panicked = recover() != nil
		if !panicked {
			tb.Error("function did not panic")
		}
	}()

	fun()

	return false
}

//-------------------------------------------------------------

// equaler is implemented by types with Equal method (time.Time, netip.Addr).
type equaler[T any] interface {
	Equal(other T) bool
}

func areEqual[T any](val1, val2 T) bool {
	if isNil(val1) && isNil(val2) {
		return true
	}

	if eq, ok := any(val1).(equaler[T]); ok {
		return eq.Equal(val2)
	}

	if b1, ok := any(val1).([]byte); ok {
		b2, _ := any(val2).([]byte)

		return bytes.Equal(b1, b2)
	}

	return reflect.DeepEqual(val1, val2)
}

// isNil checks if v is nil or interface holding nil value.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map,
		reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return rv.IsNil()
	default:
		return false
	}
}
