/*---------------------------------------------------------------------------------------------
 *  Copyright (c) Microsoft Corporation. All rights reserved.
 *  Licensed under the MIT License. See LICENSE in the project root for license information.
 *--------------------------------------------------------------------------------------------*/

package resiliency

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Marks an error as permanent, which stops RetryGet from making further attempts.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Try calling factory function with the passed back-off policy until it succeeds,
// the policy gives up, or the context is done.
// If policy is nil, the default exponential back-off policy is used.
func RetryGet[T any](ctx context.Context, policy backoff.BackOff, factory func() (T, error)) (T, error) {
	if policy == nil {
		policy = backoff.NewExponentialBackOff()
	}

	var lastAttemptErr error

	retval, err := backoff.RetryNotifyWithData(
		factory,
		backoff.WithContext(policy, ctx),
		func(err error, _ time.Duration) {
			lastAttemptErr = err
		},
	)

	switch {
	case err != nil && errors.Is(err, context.DeadlineExceeded):
		// Inform the caller about the timeout AND the last attempt error.
		return *new(T), errors.Join(lastAttemptErr, err)
	case err != nil:
		return *new(T), err
	default:
		return retval, nil
	}
}
