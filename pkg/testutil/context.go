/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"
)

// Overrides the timeout (in seconds) of every test context. Useful when stepping through tests in a debugger.
const HOSTINSPECTOR_TEST_CONTEXT_TIMEOUT = "HOSTINSPECTOR_TEST_CONTEXT_TIMEOUT"

// GetTestContext returns a context that is done when testTimeout elapses or when the test deadline is reached,
// whichever comes first. A zero testTimeout means "use the test deadline only".
func GetTestContext(t *testing.T, testTimeout time.Duration) (context.Context, context.CancelFunc) {
	if timeoutStr, found := os.LookupEnv(HOSTINSPECTOR_TEST_CONTEXT_TIMEOUT); found {
		seconds, err := strconv.ParseUint(timeoutStr, 10, 32)
		if err != nil {
			panic(fmt.Sprintf("Context timeout value '%s' is invalid: %s", timeoutStr, err.Error()))
		}
		return context.WithTimeout(context.Background(), time.Duration(seconds)*time.Second)
	}

	deadline, haveDeadline := t.Deadline()
	if testTimeout != 0 {
		testDeadline := time.Now().Add(testTimeout)
		if !haveDeadline || testDeadline.Before(deadline) {
			deadline = testDeadline
			haveDeadline = true
		}
	}

	if !haveDeadline {
		return context.WithCancel(context.Background())
	}
	return context.WithDeadline(context.Background(), deadline)
}
