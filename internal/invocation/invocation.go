// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import (
	"fmt"
	"sync"
	"time"
)

// Status strings the engine transitions through, bit-exact.
const (
	StatusNotInvoked    = "(not invoked)"
	StatusFetchingBuild = "fetching build"
	StatusNoBuild       = "(no build to test)"
	StatusSharding      = "sharding"
	StatusDoneRunning   = "done running tests"
)

// Invocation is the engine's ephemeral per-call context: start time,
// elapsed time, whether this call handed its remaining work to a resumed
// continuation, and a free-form status string external monitors can poll
// via String().
//
// Status is mutated by the engine on a single thread; a mutex guards it
// only so an external monitor may safely poll String() concurrently.
type Invocation struct {
	mu      sync.Mutex
	status  string
	resumed bool

	startTime   time.Time
	elapsedTime time.Duration
}

// NewInvocation returns an Invocation in its initial, not-yet-invoked state.
func NewInvocation() *Invocation {
	return &Invocation{status: StatusNotInvoked}
}

func (inv *Invocation) setStatus(s string) {
	inv.mu.Lock()
	inv.status = s
	inv.mu.Unlock()
}

// String returns the current observable status line.
func (inv *Invocation) String() string {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.status
}

func (inv *Invocation) setRunningStatus(testTag, buildID string) {
	inv.setStatus(fmt.Sprintf("running %s on build %s", testTag, buildID))
}

// Resumed reports whether this invocation call lost its device and handed
// its remaining work to a resumed continuation that the rescheduler
// accepted.
func (inv *Invocation) Resumed() bool { return inv.resumed }

// Elapsed returns the elapsed time recorded for this invocation once
// performInvocation has run.
func (inv *Invocation) Elapsed() time.Duration { return inv.elapsedTime }
