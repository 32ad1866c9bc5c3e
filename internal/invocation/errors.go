// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import "fmt"

// BuildRetrievalError is returned by a BuildProvider when it fails to fetch
// a build. It carries whatever partial BuildInfo the provider managed to
// assemble, so the engine can still emit a synthetic
// invocation-started/invocation-failed pair naming the attempted build.
type BuildRetrievalError struct {
	BuildInfo *BuildInfo
	Cause     error
}

func (e *BuildRetrievalError) Error() string {
	return fmt.Sprintf("build retrieval failed: %s", e.Cause)
}

func (e *BuildRetrievalError) Unwrap() error { return e.Cause }

// BuildError indicates a preparer or test refused the build under test. The
// build itself was exercised, so BuildNotTested is never called for this
// kind.
type BuildError struct {
	Cause error
}

func (e *BuildError) Error() string { return fmt.Sprintf("build error: %s", e.Cause) }

func (e *BuildError) Unwrap() error { return e.Cause }

// TargetSetupError indicates the environment could not be prepared for the
// build under test. BuildNotTested is called for this kind.
type TargetSetupError struct {
	Cause error
}

func (e *TargetSetupError) Error() string {
	return fmt.Sprintf("target setup error: %s", e.Cause)
}

func (e *TargetSetupError) Unwrap() error { return e.Cause }

// DeviceNotAvailable indicates the device was lost mid-invocation. The
// engine attempts a resume before reporting this failure; if a resume is
// scheduled the error is still rethrown to the caller but no
// invocation-failed/invocation-ended pair is emitted for the failed
// attempt.
type DeviceNotAvailable struct {
	Cause error
}

func (e *DeviceNotAvailable) Error() string {
	return fmt.Sprintf("device not available: %s", e.Cause)
}

func (e *DeviceNotAvailable) Unwrap() error { return e.Cause }
