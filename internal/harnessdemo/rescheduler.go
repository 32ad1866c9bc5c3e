// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package harnessdemo

import (
	"context"

	"github.com/sauce-archives/tradefed/internal/invocation"
)

// InlineRescheduler runs a rescheduled Configuration immediately, on the
// calling goroutine, against the same Engine and Device that produced it.
// A production rescheduler hands a Configuration to a worker pool or a
// remote queue, entirely out of scope here; this is the demo CLI's minimal
// stand-in, adequate for the shallow recursion a single local run produces
// (at most one resume, a handful of shards).
type InlineRescheduler struct {
	Engine *invocation.Engine
	Device invocation.Device
}

// ScheduleConfig implements invocation.Rescheduler.
func (r *InlineRescheduler) ScheduleConfig(cfg *invocation.Configuration) bool {
	err := r.Engine.Invoke(context.Background(), r.Device, cfg, r)
	return err == nil
}

var _ invocation.Rescheduler = (*InlineRescheduler)(nil)
