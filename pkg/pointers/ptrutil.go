/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

// Package pointers has helpers for optional values, which CDP parameters represent as pointers.
package pointers

// Ptr returns a pointer to a copy of val.
func Ptr[T any](val T) *T {
	return &val
}

// Checks if the values pointed to by two pointers are equal. If either pointer is nil, returns true if both are nil.
func EqualValue[T comparable, PT *T](p1 PT, p2 PT) bool {
	if p1 == nil || p2 == nil {
		return p1 == p2
	}
	return *p1 == *p2
}

func GetValueOrDefault[T any, PT *T](p PT, defaultValue T) T {
	if p == nil {
		return defaultValue
	}
	return *p
}

// Returns true if the boolean pointer has value and the value is true.
func TrueValue[T ~bool, PT *T](p PT) bool {
	return bool(GetValueOrDefault(p, false))
}

// Creates a new pointer to a copy of the value the given pointer points to.
// Returns nil if the input pointer is nil.
func Duplicate[T any, PT *T](p PT) PT {
	if p == nil {
		return nil
	}

	newP := new(T)
	*newP = *p
	return newP
}
