// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package harnessdemo

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"go.chromium.org/luci/common/clock"

	"github.com/sauce-archives/tradefed/internal/invocation"
	"github.com/sauce-archives/tradefed/internal/runutil"
)

// ShellTest runs a single external command as a one-method test run, timed
// through runutil.RunTimedRetry with a single attempt (no retries). It implements every optional RemoteTest
// capability so the CLI can exercise build injection, device injection,
// sharding, and resuming from demo command lines alone.
type ShellTest struct {
	RunName string
	Command []string
	Timeout time.Duration

	// Resumable, if true, makes IsResumable report true: the test is safe to
	// continue after a device loss.
	Resumable bool
	// ShardInto, if > 1, makes Split() break this test into that many
	// single-command children sharing the same Command.
	ShardInto int
	// SimulateDeviceLoss, if true, makes the first failing run of the command
	// surface as a DeviceNotAvailable instead of an ordinary test failure, so
	// the CLI can exercise the resume path without a real lab. Later failing
	// runs are reported as ordinary test failures.
	SimulateDeviceLoss bool

	build  *invocation.BuildInfo
	device invocation.Device
}

// SetBuild implements invocation.BuildReceiver.
func (t *ShellTest) SetBuild(build *invocation.BuildInfo) { t.build = build }

// SetDevice implements invocation.DeviceTest.
func (t *ShellTest) SetDevice(device invocation.Device) { t.device = device }

// IsResumable implements invocation.Resumable.
func (t *ShellTest) IsResumable() bool { return t.Resumable }

// Split implements invocation.Shardable.
func (t *ShellTest) Split() []invocation.RemoteTest {
	if t.ShardInto <= 1 {
		return nil
	}
	children := make([]invocation.RemoteTest, t.ShardInto)
	for i := range children {
		child := *t
		child.RunName = fmt.Sprintf("%s.shard%d", t.RunName, i)
		child.ShardInto = 0
		children[i] = &child
	}
	return children
}

// Run implements invocation.RemoteTest.
func (t *ShellTest) Run(ctx context.Context, listener invocation.InvocationListener) error {
	desc := invocation.TestDescriptor{ClassName: t.RunName, TestName: "run"}
	listener.TestRunStarted(t.RunName, 1)
	listener.TestStarted(desc)

	started := clock.Now(ctx)
	ok := runutil.RunTimedRetry(ctx, 1, t.timeout(), &shellRunnable{command: t.Command})
	elapsed := clock.Now(ctx).Sub(started)

	if !ok {
		if t.SimulateDeviceLoss {
			t.SimulateDeviceLoss = false
			return &invocation.DeviceNotAvailable{Cause: fmt.Errorf("device %s stopped responding running %v", t.deviceSerial(), t.Command)}
		}
		trace := fmt.Sprintf("command %v did not succeed within %s", t.Command, t.timeout())
		listener.TestFailed(desc, trace)
		listener.TestEnded(desc)
		listener.TestRunFailed(trace)
		return nil
	}

	listener.TestEnded(desc)
	listener.TestRunEnded(elapsed, map[string]string{"device": t.deviceSerial()})
	return nil
}

func (t *ShellTest) timeout() time.Duration {
	if t.Timeout <= 0 {
		return 30 * time.Second
	}
	return t.Timeout
}

func (t *ShellTest) deviceSerial() string {
	if t.device == nil {
		return "(no device)"
	}
	return t.device.Serial()
}

var (
	_ invocation.RemoteTest    = (*ShellTest)(nil)
	_ invocation.BuildReceiver = (*ShellTest)(nil)
	_ invocation.DeviceTest    = (*ShellTest)(nil)
	_ invocation.Resumable     = (*ShellTest)(nil)
	_ invocation.Shardable     = (*ShellTest)(nil)
)

// shellRunnable adapts an external command to runutil.RunnableResult.
type shellRunnable struct {
	command []string
	cmd     *exec.Cmd
}

func (r *shellRunnable) Run(ctx context.Context) bool {
	if len(r.command) == 0 {
		return true
	}
	r.cmd = exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	return r.cmd.Run() == nil
}

func (r *shellRunnable) Cancel() {
	if r.cmd != nil && r.cmd.Process != nil {
		r.cmd.Process.Kill()
	}
}
