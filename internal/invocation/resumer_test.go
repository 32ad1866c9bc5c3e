// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeResumable struct {
	resumable bool
}

func (f *fakeResumable) Run(ctx context.Context, listener InvocationListener) error { return nil }
func (f *fakeResumable) IsResumable() bool                                          { return f.resumable }

func TestTryResumeOnlyFirstResumableCounts(t *testing.T) {
	Convey("TryResume stops at the first resumable test even if a later one is also resumable", t, func() {
		build := NewBuildInfo("demo")
		first := &fakeResumable{resumable: true}
		second := &fakeResumable{resumable: true}
		cfg := &Configuration{
			BuildProvider: &fakeBuildProvider{build: build},
			Tests:         []RemoteTest{&fakeResumable{resumable: false}, first, second},
		}
		rescheduler := &fakeRescheduler{accept: true}
		inv := NewInvocation()

		resumed := TryResume(context.Background(), cfg, build, rescheduler, inv, 10*time.Millisecond)

		So(resumed, ShouldBeTrue)
		So(rescheduler.scheduled, ShouldHaveLength, 1)
		So(rescheduler.scheduled[0].Tests, ShouldHaveLength, 2)
		So(rescheduler.scheduled[0].Tests[0], ShouldEqual, first)
		So(inv.Resumed(), ShouldBeTrue)
	})

	Convey("TryResume reports no resume when the rescheduler refuses", t, func() {
		build := NewBuildInfo("demo")
		cfg := &Configuration{
			BuildProvider: &fakeBuildProvider{build: build},
			Tests:         []RemoteTest{&fakeResumable{resumable: true}},
		}
		rescheduler := &fakeRescheduler{accept: false}
		inv := NewInvocation()

		resumed := TryResume(context.Background(), cfg, build, rescheduler, inv, 0)

		So(resumed, ShouldBeFalse)
		So(inv.Resumed(), ShouldBeFalse)
	})

	Convey("TryResume finds no resumable test to continue from", t, func() {
		build := NewBuildInfo("demo")
		cfg := &Configuration{
			BuildProvider: &fakeBuildProvider{build: build},
			Tests:         []RemoteTest{&fakeResumable{resumable: false}},
		}
		rescheduler := &fakeRescheduler{accept: true}
		inv := NewInvocation()

		resumed := TryResume(context.Background(), cfg, build, rescheduler, inv, 0)

		So(resumed, ShouldBeFalse)
		So(rescheduler.scheduled, ShouldHaveLength, 0)
	})
}

func TestResumeForwarderSumsElapsed(t *testing.T) {
	Convey("A ResumeForwarder suppresses invocation-started and sums elapsed time", t, func() {
		listener := &recordingListener{}
		fwd := NewResumeForwarder([]InvocationListener{listener}, 100*time.Millisecond)

		fwd.InvocationStarted(NewBuildInfo("demo"))
		fwd.InvocationEnded(50 * time.Millisecond)

		So(listener.started, ShouldHaveLength, 0)
		So(listener.endedAt, ShouldHaveLength, 1)
		So(listener.endedAt[0], ShouldEqual, 150*time.Millisecond)
	})
}
