package utils

import "github.com/aarondl/null/v8"

func SafeDeref[T any](ptr *T) T {
	if ptr == nil {
		var zero T
		return zero
	}
	return *ptr
}

func ToPtr[T any](v T) *T {
	return &v
}

// NullStringFromPtr: nil -> NULL, иначе значение как есть (пустая строка тоже валидна).
func NullStringFromPtr(s *string) null.String {
	if s == nil {
		return null.String{}
	}
	return null.StringFrom(*s)
}
