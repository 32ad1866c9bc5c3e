// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import (
	"sync"
	"time"
)

// ShardListener is the Result Forwarder specialisation sitting between a
// shard's own Engine and the shared Shard Aggregator. It fans out to a
// single downstream (the aggregator) while holding a mutex
// across each event, so the events of its one shard are always delivered
// as an uninterrupted sequence even if something outside this package ever
// calls it from more than one goroutine.
type ShardListener struct {
	mu         sync.Mutex
	downstream InvocationListener
}

// NewShardListener returns a ShardListener forwarding to aggregator.
func NewShardListener(aggregator InvocationListener) *ShardListener {
	return &ShardListener{downstream: aggregator}
}

func (s *ShardListener) InvocationStarted(build *BuildInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downstream.InvocationStarted(build)
}

func (s *ShardListener) InvocationFailed(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downstream.InvocationFailed(cause)
}

func (s *ShardListener) InvocationEnded(elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downstream.InvocationEnded(elapsed)
}

func (s *ShardListener) TestRunStarted(runName string, testCount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downstream.TestRunStarted(runName, testCount)
}

func (s *ShardListener) TestStarted(test TestDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downstream.TestStarted(test)
}

func (s *ShardListener) TestFailed(test TestDescriptor, trace string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downstream.TestFailed(test, trace)
}

func (s *ShardListener) TestEnded(test TestDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downstream.TestEnded(test)
}

func (s *ShardListener) TestRunFailed(errorMessage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downstream.TestRunFailed(errorMessage)
}

func (s *ShardListener) TestRunStopped(elapsed time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downstream.TestRunStopped(elapsed)
}

func (s *ShardListener) TestRunEnded(elapsed time.Duration, runMetrics map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downstream.TestRunEnded(elapsed, runMetrics)
}

func (s *ShardListener) TestLog(name string, dataType LogDataType, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downstream.TestLog(name, dataType, data)
}

var _ InvocationListener = (*ShardListener)(nil)
