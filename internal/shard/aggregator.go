// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package shard implements the Shard Aggregator: it joins N sub-invocations
// into one logical invocation for downstream listeners.
package shard

import (
	"sync"
	"time"

	"github.com/sauce-archives/tradefed/internal/invocation"
)

// Aggregator joins the events of N shards into a single logical invocation.
// It is written by up to N shard goroutines concurrently and guards its
// internal counters and "started-emitted" flag with a mutex; the mutex is
// released before events are fanned out to the downstream listeners.
type Aggregator struct {
	downstream *invocation.Forwarder
	shardCount int

	mu             sync.Mutex
	startedEmitted bool
	endedCount     int
	elapsedTotal   time.Duration
}

// NewAggregator returns an Aggregator expecting shardCount shards to report
// in, fanning the joined events out to listeners.
func NewAggregator(listeners []invocation.InvocationListener, shardCount int) *Aggregator {
	return &Aggregator{
		downstream: invocation.NewForwarder(listeners),
		shardCount: shardCount,
	}
}

// InvocationStarted forwards build to the downstream listeners exactly
// once: the first shard to call this wins, subsequent calls are dropped.
func (a *Aggregator) InvocationStarted(build *invocation.BuildInfo) {
	a.mu.Lock()
	first := !a.startedEmitted
	a.startedEmitted = true
	a.mu.Unlock()

	if first {
		a.downstream.InvocationStarted(build)
	}
}

// InvocationFailed is forwarded immediately for every shard: downstream
// listeners see per-shard failures and decide the overall outcome
// themselves.
func (a *Aggregator) InvocationFailed(cause error) {
	a.downstream.InvocationFailed(cause)
}

// InvocationEnded accumulates one shard's elapsed time; once all
// shardCount shards have reported, it forwards invocation-ended(sum) to the
// downstream listeners exactly once.
func (a *Aggregator) InvocationEnded(elapsed time.Duration) {
	a.mu.Lock()
	a.endedCount++
	a.elapsedTotal += elapsed
	done := a.endedCount == a.shardCount
	total := a.elapsedTotal
	a.mu.Unlock()

	if done {
		a.downstream.InvocationEnded(total)
	}
}

func (a *Aggregator) TestRunStarted(runName string, testCount int) {
	a.downstream.TestRunStarted(runName, testCount)
}

func (a *Aggregator) TestStarted(test invocation.TestDescriptor) {
	a.downstream.TestStarted(test)
}

func (a *Aggregator) TestFailed(test invocation.TestDescriptor, trace string) {
	a.downstream.TestFailed(test, trace)
}

func (a *Aggregator) TestEnded(test invocation.TestDescriptor) {
	a.downstream.TestEnded(test)
}

func (a *Aggregator) TestRunFailed(errorMessage string) {
	a.downstream.TestRunFailed(errorMessage)
}

func (a *Aggregator) TestRunStopped(elapsed time.Duration) {
	a.downstream.TestRunStopped(elapsed)
}

func (a *Aggregator) TestRunEnded(elapsed time.Duration, runMetrics map[string]string) {
	a.downstream.TestRunEnded(elapsed, runMetrics)
}

func (a *Aggregator) TestLog(name string, dataType invocation.LogDataType, data []byte) {
	a.downstream.TestLog(name, dataType, data)
}

var _ invocation.InvocationListener = (*Aggregator)(nil)
