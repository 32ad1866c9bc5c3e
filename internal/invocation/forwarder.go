// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import (
	"context"
	"time"

	"go.chromium.org/luci/common/logging"
)

// Forwarder holds an ordered list of downstream listeners and, for every
// event, delivers it to each in order. A single listener's panic must not
// suppress delivery to the others or corrupt the engine; it is recovered
// and logged.
type Forwarder struct {
	downstream []InvocationListener
}

// NewForwarder returns a Forwarder fanning out to listeners, in order.
func NewForwarder(listeners []InvocationListener) *Forwarder {
	return &Forwarder{downstream: listeners}
}

func (f *Forwarder) deliver(name string, call func(InvocationListener)) {
	for _, l := range f.downstream {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logListenerFault(name, r)
				}
			}()
			call(l)
		}()
	}
}

// logListenerFault is a package-level var so tests can override it to assert
// on listener faults. A misbehaving listener must never abort delivery to
// the others; the engine itself never depends on this side channel, only on
// delivery continuing.
var logListenerFault = func(event string, r interface{}) {
	logging.Errorf(context.Background(), "listener fault delivering %s: %v", event, r)
}

func (f *Forwarder) InvocationStarted(build *BuildInfo) {
	f.deliver("InvocationStarted", func(l InvocationListener) { l.InvocationStarted(build) })
}

func (f *Forwarder) InvocationFailed(cause error) {
	f.deliver("InvocationFailed", func(l InvocationListener) { l.InvocationFailed(cause) })
}

func (f *Forwarder) InvocationEnded(elapsed time.Duration) {
	f.deliver("InvocationEnded", func(l InvocationListener) { l.InvocationEnded(elapsed) })
}

func (f *Forwarder) TestRunStarted(runName string, testCount int) {
	f.deliver("TestRunStarted", func(l InvocationListener) { l.TestRunStarted(runName, testCount) })
}

func (f *Forwarder) TestStarted(test TestDescriptor) {
	f.deliver("TestStarted", func(l InvocationListener) { l.TestStarted(test) })
}

func (f *Forwarder) TestFailed(test TestDescriptor, trace string) {
	f.deliver("TestFailed", func(l InvocationListener) { l.TestFailed(test, trace) })
}

func (f *Forwarder) TestEnded(test TestDescriptor) {
	f.deliver("TestEnded", func(l InvocationListener) { l.TestEnded(test) })
}

func (f *Forwarder) TestRunFailed(errorMessage string) {
	f.deliver("TestRunFailed", func(l InvocationListener) { l.TestRunFailed(errorMessage) })
}

func (f *Forwarder) TestRunStopped(elapsed time.Duration) {
	f.deliver("TestRunStopped", func(l InvocationListener) { l.TestRunStopped(elapsed) })
}

func (f *Forwarder) TestRunEnded(elapsed time.Duration, runMetrics map[string]string) {
	f.deliver("TestRunEnded", func(l InvocationListener) { l.TestRunEnded(elapsed, runMetrics) })
}

func (f *Forwarder) TestLog(name string, dataType LogDataType, data []byte) {
	f.deliver("TestLog", func(l InvocationListener) { l.TestLog(name, dataType, data) })
}

var _ InvocationListener = (*Forwarder)(nil)
