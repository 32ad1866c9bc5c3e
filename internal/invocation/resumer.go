// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import (
	"context"
	"time"
)

// TryResume implements the Resumer: after a DeviceNotAvailable
// fault, it scans cfg's test list for the first test that is both Resumable
// and reports IsResumable() true, and, if found, schedules a fresh
// Configuration to continue the invocation from there.
//
// Only the first such test is ever considered, even if a later test in the
// list is also resumable — this mirrors a known historical quirk the
// original invocation engine preserved deliberately: an invocation resumes
// at most once per failed attempt, and always at the first resumable point.
//
// TryResume returns true if a resume was scheduled (the caller must not
// itself emit invocation-ended or call BuildNotTested; the scheduled
// continuation owns both now), false otherwise.
func TryResume(ctx context.Context, cfg *Configuration, build *BuildInfo, rescheduler Rescheduler, inv *Invocation, elapsedSoFar time.Duration) bool {
	idx := -1
	for i, t := range cfg.Tests {
		if r, ok := AsResumable(t); ok && r.IsResumable() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	resumedBuild := build.Clone()

	next := cfg.Clone()
	next.Tests = append([]RemoteTest{}, cfg.Tests[idx:]...)
	next.BuildProvider = NewExistingBuildProvider(resumedBuild, cfg.BuildProvider)
	next.Listeners = []InvocationListener{NewResumeForwarder(cfg.Listeners, elapsedSoFar)}

	if !rescheduler.ScheduleConfig(next) {
		cfg.BuildProvider.CleanUp(ctx, resumedBuild)
		return false
	}

	inv.resumed = true
	return true
}
