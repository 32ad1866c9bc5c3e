// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package runutil implements the timed-run retry semantics preparers and
// tests are expected to build on: a retried operation
// terminates on success or on running out of attempts/wall-clock.
// RunnableResult has no way to end the retry loop early other than
// succeeding.
package runutil

import (
	"context"
	"errors"
	"math"
	"time"

	"go.chromium.org/luci/common/clock"
	"go.chromium.org/luci/common/retry"
)

// unlimitedAttempts stands in for "no attempt-count cap, only the context
// deadline governs" (math.MaxInt32 rather than a negative sentinel).
const unlimitedAttempts = math.MaxInt32

// RunnableResult is one attempt of a retried operation. Run returns true on
// success. Cancel is invoked when an attempt is still running as its
// timeout or the context's deadline expires, so long-running attempts can be
// told to stop.
type RunnableResult interface {
	Run(ctx context.Context) bool
	Cancel()
}

var errAttemptFailed = errors.New("runutil: attempt did not succeed")

// RunTimed runs r once, bounded by timeout.
func RunTimed(ctx context.Context, timeout time.Duration, r RunnableResult) bool {
	ctx, cancel := clock.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan bool, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case ok := <-done:
		return ok
	case <-ctx.Done():
		r.Cancel()
		return false
	}
}

func retryUntilSuccess(ctx context.Context, factory retry.Factory, attempt func() bool) bool {
	ok := false
	retry.Retry(ctx, factory, func() error {
		if attempt() {
			ok = true
			return nil
		}
		return errAttemptFailed
	}, nil)
	return ok
}

// RunTimedRetry retries r up to attempts times, each bounded by timeout,
// stopping as soon as one attempt succeeds.
func RunTimedRetry(ctx context.Context, attempts int, timeout time.Duration, r RunnableResult) bool {
	factory := func() retry.Iterator {
		return &retry.Limited{Retries: attempts - 1}
	}
	return retryUntilSuccess(ctx, factory, func() bool {
		return RunTimed(ctx, timeout, r)
	})
}

// RunFixedTimedRetry retries r with a fixed poll interval until it succeeds
// or the overall deadline elapses.
func RunFixedTimedRetry(ctx context.Context, deadline, pollInterval time.Duration, r RunnableResult) bool {
	ctx, cancel := clock.WithTimeout(ctx, deadline)
	defer cancel()

	factory := func() retry.Iterator {
		return &retry.Limited{Delay: pollInterval, Retries: unlimitedAttempts}
	}
	return retryUntilSuccess(ctx, factory, func() bool {
		return RunTimed(ctx, pollInterval, r)
	})
}

// RunEscalatingTimedRetry retries r with exponential back-off bounded by
// maxPollInterval, stopping at the overall deadline.
func RunEscalatingTimedRetry(ctx context.Context, deadline, initialPollInterval, maxPollInterval time.Duration, r RunnableResult) bool {
	ctx, cancel := clock.WithTimeout(ctx, deadline)
	defer cancel()

	factory := func() retry.Iterator {
		return &retry.ExponentialBackoff{
			Limited:    retry.Limited{Delay: initialPollInterval, Retries: unlimitedAttempts},
			Multiplier: 2,
			MaxDelay:   maxPollInterval,
		}
	}
	return retryUntilSuccess(ctx, factory, func() bool {
		return RunTimed(ctx, maxPollInterval, r)
	})
}
