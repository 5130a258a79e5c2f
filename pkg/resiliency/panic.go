/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package resiliency

import (
	"fmt"
	"runtime/debug"

	"github.com/go-logr/logr"
)

// PanicError is a recovered panic value together with the stack of the goroutine that panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (pe *PanicError) Error() string {
	return fmt.Sprintf("%v", pe.Value)
}

func (pe *PanicError) Unwrap() error {
	if err, isError := pe.Value.(error); isError {
		return err
	}
	return nil
}

// MakePanicError converts a value returned by recover() into a PanicError and logs it.
// Must be called from the deferred function that recovered, so that the stack still points at the panic site.
func MakePanicError(panicVal any, log logr.Logger, keysAndValues ...any) error {
	if panicVal == nil {
		return nil
	}

	panicErr := &PanicError{Value: panicVal, Stack: debug.Stack()}
	log.Error(panicErr, "Recovered from panic", append(keysAndValues, "Stack", string(panicErr.Stack))...)
	return panicErr
}
