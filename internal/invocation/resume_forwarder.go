// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import "time"

// ResumeForwarder is the Result Forwarder specialisation the Resumer wires
// onto a resumed invocation: it suppresses invocation-started entirely (the
// original attempt already delivered it to these listeners) and, on
// invocation-ended(t), forwards
// invocation-ended(elapsedBeforeResume + t) so downstream listeners still
// see exactly one invocation-started/invocation-ended pair for the whole
// logical invocation.
type ResumeForwarder struct {
	*Forwarder
	elapsedBeforeResume time.Duration
}

// NewResumeForwarder returns a ResumeForwarder fanning out to listeners,
// treating elapsedBeforeResume as the time already spent in the failed
// attempt that is being resumed.
func NewResumeForwarder(listeners []InvocationListener, elapsedBeforeResume time.Duration) *ResumeForwarder {
	return &ResumeForwarder{
		Forwarder:           NewForwarder(listeners),
		elapsedBeforeResume: elapsedBeforeResume,
	}
}

// InvocationStarted is a no-op: the original attempt already delivered this
// event to these listeners.
func (f *ResumeForwarder) InvocationStarted(build *BuildInfo) {}

// InvocationEnded forwards the accumulated elapsed time across both the
// failed attempt and the resumed one.
func (f *ResumeForwarder) InvocationEnded(elapsed time.Duration) {
	f.Forwarder.InvocationEnded(f.elapsedBeforeResume + elapsed)
}

var _ InvocationListener = (*ResumeForwarder)(nil)
