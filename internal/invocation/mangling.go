// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import "time"

// ManglingProxy is a listener that rewrites identifiers/build-info passing
// through it to a downstream listener, via three overridable hooks that
// default to identity. All other events pass through unchanged. The hooks
// must return new values; they must never mutate the arguments they're
// given.
type ManglingProxy struct {
	Downstream InvocationListener

	// MangleTestID rewrites a test descriptor. Defaults to identity.
	MangleTestID func(TestDescriptor) TestDescriptor
	// MangleRunName rewrites a test run name. Defaults to identity.
	MangleRunName func(string) string
	// MangleBuildInfo rewrites the build info. Defaults to identity (a
	// clone, so the proxy never hands out the original pointer).
	MangleBuildInfo func(*BuildInfo) *BuildInfo
}

// NewManglingProxy returns a ManglingProxy with identity hooks, forwarding
// to downstream.
func NewManglingProxy(downstream InvocationListener) *ManglingProxy {
	return &ManglingProxy{
		Downstream:      downstream,
		MangleTestID:    func(t TestDescriptor) TestDescriptor { return t },
		MangleRunName:   func(s string) string { return s },
		MangleBuildInfo: func(b *BuildInfo) *BuildInfo { return b.Clone() },
	}
}

func (p *ManglingProxy) InvocationStarted(build *BuildInfo) {
	p.Downstream.InvocationStarted(p.MangleBuildInfo(build))
}

func (p *ManglingProxy) InvocationFailed(cause error) {
	p.Downstream.InvocationFailed(cause)
}

func (p *ManglingProxy) InvocationEnded(elapsed time.Duration) {
	p.Downstream.InvocationEnded(elapsed)
}

func (p *ManglingProxy) TestRunStarted(runName string, testCount int) {
	p.Downstream.TestRunStarted(p.MangleRunName(runName), testCount)
}

func (p *ManglingProxy) TestStarted(test TestDescriptor) {
	p.Downstream.TestStarted(p.MangleTestID(test))
}

func (p *ManglingProxy) TestFailed(test TestDescriptor, trace string) {
	p.Downstream.TestFailed(p.MangleTestID(test), trace)
}

func (p *ManglingProxy) TestEnded(test TestDescriptor) {
	p.Downstream.TestEnded(p.MangleTestID(test))
}

func (p *ManglingProxy) TestRunFailed(errorMessage string) {
	p.Downstream.TestRunFailed(errorMessage)
}

func (p *ManglingProxy) TestRunStopped(elapsed time.Duration) {
	p.Downstream.TestRunStopped(elapsed)
}

func (p *ManglingProxy) TestRunEnded(elapsed time.Duration, runMetrics map[string]string) {
	p.Downstream.TestRunEnded(elapsed, runMetrics)
}

func (p *ManglingProxy) TestLog(name string, dataType LogDataType, data []byte) {
	p.Downstream.TestLog(name, dataType, data)
}

var _ InvocationListener = (*ManglingProxy)(nil)
