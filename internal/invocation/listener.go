// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import "time"

// LogDataType distinguishes the payload carried by a TestLog event.
type LogDataType int

// Canonical log names, bit-exact.
const (
	HostLogName             = "host_log"
	DeviceLogcatName         = "device_logcat"
	BuildErrorBugreportName = "build_error_bugreport"
)

const (
	// LogText marks a plain-text log payload.
	LogText LogDataType = iota
	// LogZip marks an archive log payload (e.g. a bugreport).
	LogZip
)

// TestDescriptor names one test method within a test run.
type TestDescriptor struct {
	ClassName string
	TestName  string
}

// InvocationListener accepts the strict event sequence below for one
// logical invocation:
//
//	invocation-started(build) ->
//	  any number of {TestRunStarted, TestStarted, TestFailed, TestEnded,
//	                 TestRunEnded, TestLog, TestRunFailed, TestRunStopped} ->
//	  at most one invocation-failed(cause) ->
//	  exactly one invocation-ended(elapsed)
//
// A single listener's own fault (panic or returned state it can't recover
// from) must never suppress delivery to other listeners in a Forwarder;
// that guarantee is enforced by the fan-out, not by this interface.
type InvocationListener interface {
	InvocationStarted(build *BuildInfo)
	InvocationFailed(cause error)
	InvocationEnded(elapsed time.Duration)

	TestRunStarted(runName string, testCount int)
	TestStarted(test TestDescriptor)
	TestFailed(test TestDescriptor, trace string)
	TestEnded(test TestDescriptor)
	TestRunFailed(errorMessage string)
	TestRunStopped(elapsed time.Duration)
	TestRunEnded(elapsed time.Duration, runMetrics map[string]string)
	TestLog(name string, dataType LogDataType, data []byte)
}
