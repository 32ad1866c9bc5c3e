// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

// Rescheduler places a Configuration onto a worker for execution. It is the
// external collaborator that turns parsed command lines into invocations,
// generalized to also accept programmatically-cloned configurations
// produced by sharding and resuming.
type Rescheduler interface {
	// ScheduleConfig submits cfg for execution. It returns false if the
	// rescheduler refuses (e.g. shutdown); the caller must then clean up any
	// build it had already handed off to cfg.
	ScheduleConfig(cfg *Configuration) bool
}
