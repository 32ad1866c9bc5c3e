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

type fakeShardableTest struct {
	name       string
	splitCount int
}

func (t *fakeShardableTest) Run(ctx context.Context, listener InvocationListener) error {
	listener.TestRunStarted(t.name, 1)
	listener.TestRunEnded(5*time.Millisecond, nil)
	return nil
}

func (t *fakeShardableTest) Split() []RemoteTest {
	if t.splitCount <= 1 {
		return nil
	}
	children := make([]RemoteTest, t.splitCount)
	for i := range children {
		children[i] = &fakeShardableTest{name: t.name}
	}
	return children
}

// immediateRescheduler runs every scheduled Configuration synchronously
// through engine, simulating a rescheduler backed by local workers.
type immediateRescheduler struct {
	engine *Engine
	device Device
}

func (r *immediateRescheduler) ScheduleConfig(cfg *Configuration) bool {
	return r.engine.Invoke(context.Background(), r.device, cfg, r) == nil
}

func TestAttemptShardingSplitsAndAggregates(t *testing.T) {
	Convey("Two shardable tests splitting into 3 and 2 children", t, func() {
		build := NewBuildInfo("demo")
		provider := &fakeBuildProvider{build: build}
		listener := &recordingListener{}
		device := &fakeDevice{serial: "abc123"}
		cfg := &Configuration{
			BuildProvider: provider,
			Tests: []RemoteTest{
				&fakeShardableTest{name: "a", splitCount: 3},
				&fakeShardableTest{name: "b", splitCount: 2},
			},
			Listeners: []InvocationListener{listener},
		}

		engine := NewEngine()
		var shardedCfgs []*Configuration
		engine.AggregatorFactory = func(listeners []InvocationListener, shardCount int) InvocationListener {
			return newCountingAggregator(listeners, shardCount)
		}
		rescheduler := &immediateRescheduler{engine: engine, device: device}

		sharded, err := engine.attemptSharding(context.Background(), NewInvocation(), device, cfg, build, recordingRescheduler(rescheduler, &shardedCfgs))

		So(err, ShouldBeNil)
		So(sharded, ShouldBeTrue)
		So(shardedCfgs, ShouldHaveLength, 5)
		for _, c := range shardedCfgs {
			So(c.Tests, ShouldHaveLength, 1)
		}
		So(listener.started, ShouldHaveLength, 1)
		So(listener.endedAt, ShouldHaveLength, 1)
		So(listener.endedAt[0] >= 0, ShouldBeTrue)
		// 5 shard clones, each released through its own ExistingBuildProvider,
		// plus one explicit CleanUp of the original (unsharded) build.
		So(provider.cleanUpCalled, ShouldEqual, 6)
	})
}

func TestAttemptShardingCleansUpBuildsOnRescheduleRefusal(t *testing.T) {
	Convey("A rescheduler refusing a shard still releases that shard's build clone and the original build", t, func() {
		build := NewBuildInfo("demo")
		provider := &fakeBuildProvider{build: build}
		device := &fakeDevice{serial: "abc123"}
		cfg := &Configuration{
			BuildProvider: provider,
			Tests: []RemoteTest{
				&fakeShardableTest{name: "a", splitCount: 2},
			},
		}

		engine := NewEngine()
		engine.AggregatorFactory = func(listeners []InvocationListener, shardCount int) InvocationListener {
			return newCountingAggregator(listeners, shardCount)
		}
		rescheduler := &fakeRescheduler{accept: false}

		sharded, err := engine.attemptSharding(context.Background(), NewInvocation(), device, cfg, build, rescheduler)

		So(sharded, ShouldBeTrue)
		So(err, ShouldNotBeNil)
		So(rescheduler.scheduled, ShouldHaveLength, 1)
		// One CleanUp for the refused shard's orphaned build clone, one for
		// the original build this invocation still owns.
		So(provider.cleanUpCalled, ShouldEqual, 2)
	})
}

// recordingRescheduler wraps inner, appending every scheduled config to out
// before delegating, so the test can inspect exactly what sharding produced
// while still letting the configs actually run.
func recordingRescheduler(inner Rescheduler, out *[]*Configuration) Rescheduler {
	return &recordingReschedulerImpl{inner: inner, out: out}
}

type recordingReschedulerImpl struct {
	inner Rescheduler
	out   *[]*Configuration
}

func (r *recordingReschedulerImpl) ScheduleConfig(cfg *Configuration) bool {
	*r.out = append(*r.out, cfg)
	return r.inner.ScheduleConfig(cfg)
}

// newCountingAggregator is a minimal stand-in for the shard package's
// Aggregator, avoiding an import cycle in this package's own tests.
type countingAggregator struct {
	downstream *Forwarder
	shardCount int
	ended      int
	total      time.Duration
	started    bool
}

func newCountingAggregator(listeners []InvocationListener, shardCount int) *countingAggregator {
	return &countingAggregator{downstream: NewForwarder(listeners), shardCount: shardCount}
}

func (a *countingAggregator) InvocationStarted(build *BuildInfo) {
	if !a.started {
		a.started = true
		a.downstream.InvocationStarted(build)
	}
}
func (a *countingAggregator) InvocationFailed(cause error) { a.downstream.InvocationFailed(cause) }
func (a *countingAggregator) InvocationEnded(elapsed time.Duration) {
	a.ended++
	a.total += elapsed
	if a.ended == a.shardCount {
		a.downstream.InvocationEnded(a.total)
	}
}
func (a *countingAggregator) TestRunStarted(runName string, n int) { a.downstream.TestRunStarted(runName, n) }
func (a *countingAggregator) TestStarted(test TestDescriptor)      { a.downstream.TestStarted(test) }
func (a *countingAggregator) TestFailed(test TestDescriptor, trace string) {
	a.downstream.TestFailed(test, trace)
}
func (a *countingAggregator) TestEnded(test TestDescriptor) { a.downstream.TestEnded(test) }
func (a *countingAggregator) TestRunFailed(msg string)       { a.downstream.TestRunFailed(msg) }
func (a *countingAggregator) TestRunStopped(elapsed time.Duration) {
	a.downstream.TestRunStopped(elapsed)
}
func (a *countingAggregator) TestRunEnded(elapsed time.Duration, m map[string]string) {
	a.downstream.TestRunEnded(elapsed, m)
}
func (a *countingAggregator) TestLog(name string, dt LogDataType, data []byte) {
	a.downstream.TestLog(name, dt, data)
}

var _ InvocationListener = (*countingAggregator)(nil)
