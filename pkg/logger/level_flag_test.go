/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package logger

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestStringToLevel(t *testing.T) {
	t.Parallel()

	type testCase struct {
		value    string
		expected zapcore.Level
		valid    bool
	}

	testCases := []testCase{
		{"debug", zapcore.DebugLevel, true},
		{"INFO", zapcore.InfoLevel, true},
		{"warn", zapcore.WarnLevel, true},
		{"error", zapcore.ErrorLevel, true},
		{"1", zapcore.Level(-1), true},
		{"4", zapcore.Level(-4), true},
		{"0", zapcore.InfoLevel, false},
		{"-3", zapcore.InfoLevel, false},
		{"loud", zapcore.InfoLevel, false},
	}

	for _, tc := range testCases {
		level, err := StringToLevel(tc.value, zapcore.InfoLevel)
		if tc.valid {
			require.NoError(t, err, tc.value)
		} else {
			require.Error(t, err, tc.value)
		}
		assert.Equal(t, tc.expected, level, tc.value)
	}
}

func TestLevelFlagAppliesLevel(t *testing.T) {
	t.Parallel()

	log := New("level-flag-test")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	log.AddLevelFlag(fs)

	require.NoError(t, fs.Parse([]string{"-v=debug"}))
	assert.Equal(t, zapcore.DebugLevel, log.atomicLevel.Level())

	require.NoError(t, fs.Parse([]string{"--verbosity", "error"}))
	assert.Equal(t, zapcore.ErrorLevel, log.atomicLevel.Level())

	require.Error(t, fs.Parse([]string{"-v=bogus"}))
}
