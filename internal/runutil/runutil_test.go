// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package runutil

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type countingRunnable struct {
	succeedOnAttempt int
	attempts         int
	canceled         bool
}

func (r *countingRunnable) Run(ctx context.Context) bool {
	r.attempts++
	return r.attempts >= r.succeedOnAttempt
}

func (r *countingRunnable) Cancel() { r.canceled = true }

func TestRunTimedSucceeds(t *testing.T) {
	Convey("RunTimed reports the runnable's own result when it finishes in time", t, func() {
		r := &countingRunnable{succeedOnAttempt: 1}
		ok := RunTimed(context.Background(), time.Second, r)
		So(ok, ShouldBeTrue)
		So(r.attempts, ShouldEqual, 1)
	})
}

func TestRunTimedRetryStopsOnFirstSuccess(t *testing.T) {
	Convey("RunTimedRetry stops retrying as soon as an attempt succeeds", t, func() {
		r := &countingRunnable{succeedOnAttempt: 3}
		ok := RunTimedRetry(context.Background(), 5, time.Second, r)
		So(ok, ShouldBeTrue)
		So(r.attempts, ShouldEqual, 3)
	})

	Convey("RunTimedRetry gives up after exhausting its attempt budget", t, func() {
		r := &countingRunnable{succeedOnAttempt: 100}
		ok := RunTimedRetry(context.Background(), 3, time.Second, r)
		So(ok, ShouldBeFalse)
		So(r.attempts, ShouldEqual, 3)
	})
}

func TestRunFixedTimedRetryHonorsDeadline(t *testing.T) {
	Convey("RunFixedTimedRetry gives up once the overall deadline elapses", t, func() {
		r := &countingRunnable{succeedOnAttempt: 1 << 30}
		ok := RunFixedTimedRetry(context.Background(), 30*time.Millisecond, 5*time.Millisecond, r)
		So(ok, ShouldBeFalse)
	})
}
