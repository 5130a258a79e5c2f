/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package pointers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqualValue(t *testing.T) {
	t.Parallel()

	var s1, s2 *string
	require.True(t, EqualValue(s1, s2))

	s1 = Ptr("Paused")
	require.False(t, EqualValue(s1, s2))
	require.False(t, EqualValue(s2, s1))

	s2 = Ptr("Paused")
	require.NotSame(t, s1, s2)
	require.True(t, EqualValue(s1, s2))

	*s2 = "Resumed"
	require.False(t, EqualValue(s1, s2))
}

func TestTrueValue(t *testing.T) {
	t.Parallel()

	var b *bool
	require.False(t, TrueValue(b))
	require.False(t, TrueValue(Ptr(false)))
	require.True(t, TrueValue(Ptr(true)))
}

func TestDuplicate(t *testing.T) {
	t.Parallel()

	var nilPtr *int
	require.Nil(t, Duplicate(nilPtr))

	original := Ptr(42)
	duplicate := Duplicate(original)
	require.NotSame(t, original, duplicate)
	require.Equal(t, 42, *duplicate)

	*original = 7
	require.Equal(t, 42, *duplicate)
	require.Equal(t, 7, GetValueOrDefault(original, 0))
	require.Equal(t, 3, GetValueOrDefault(nilPtr, 3))
}
