// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package shard

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/sauce-archives/tradefed/internal/invocation"
)

type fakeListener struct {
	mu      sync.Mutex
	started int
	ended   []time.Duration
}

func (f *fakeListener) InvocationStarted(build *invocation.BuildInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
}
func (f *fakeListener) InvocationFailed(cause error) {}
func (f *fakeListener) InvocationEnded(elapsed time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, elapsed)
}
func (f *fakeListener) TestRunStarted(runName string, n int)               {}
func (f *fakeListener) TestStarted(test invocation.TestDescriptor)         {}
func (f *fakeListener) TestFailed(test invocation.TestDescriptor, s string) {}
func (f *fakeListener) TestEnded(test invocation.TestDescriptor)           {}
func (f *fakeListener) TestRunFailed(msg string)                          {}
func (f *fakeListener) TestRunStopped(elapsed time.Duration)              {}
func (f *fakeListener) TestRunEnded(elapsed time.Duration, m map[string]string) {}
func (f *fakeListener) TestLog(name string, dt invocation.LogDataType, data []byte) {}

var _ invocation.InvocationListener = (*fakeListener)(nil)

func TestAggregatorJoinsConcurrentShards(t *testing.T) {
	Convey("N shards reporting concurrently produce exactly one started/ended pair", t, func() {
		downstream := &fakeListener{}
		const shardCount = 5
		agg := NewAggregator([]invocation.InvocationListener{downstream}, shardCount)
		build := invocation.NewBuildInfo("demo")

		var wg sync.WaitGroup
		for i := 0; i < shardCount; i++ {
			wg.Add(1)
			go func(elapsed time.Duration) {
				defer wg.Done()
				agg.InvocationStarted(build)
				agg.InvocationEnded(elapsed)
			}(time.Duration(i+1) * time.Millisecond)
		}
		wg.Wait()

		So(downstream.started, ShouldEqual, 1)
		So(downstream.ended, ShouldHaveLength, 1)
		So(downstream.ended[0], ShouldEqual, 15*time.Millisecond)
	})
}
