// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"os"

	"github.com/google/shlex"
	"github.com/google/uuid"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/errors"

	"github.com/sauce-archives/tradefed/internal/harnessdemo"
	"github.com/sauce-archives/tradefed/internal/invocation"
	"github.com/sauce-archives/tradefed/internal/shard"
)

var cmdInvoke = &subcommands.Command{
	UsageLine: "invoke -command \"...\" [flags]",
	ShortDesc: "runs a single invocation against the demo device",
	LongDesc: `Runs a single invocation of the command given by -command against an
in-process demo device, printing every listener event to stdout.

Useful for exercising sharding (-shard-into) and device-loss resume
(-simulate-device-loss) without a real lab.`,

	CommandRun: func() subcommands.CommandRun {
		c := &cmdInvokeRun{}
		c.init(c.exec)
		c.Flags.StringVar(&c.testTag, "tag", "demo", "Test tag recorded on the build under test.")
		c.Flags.StringVar(&c.buildID, "build-id", "", "Build identifier; a random one is generated if omitted.")
		c.Flags.StringVar(&c.command, "command", "true", "Shell command line to run as the test, shlex-split.")
		c.Flags.IntVar(&c.shardInto, "shard-into", 0, "If > 1, split the test into this many shards.")
		c.Flags.BoolVar(&c.resumable, "resumable", false, "Whether the test reports itself as resumable.")
		c.Flags.BoolVar(&c.simulateDeviceLoss, "simulate-device-loss", false,
			"Report the first failure of the command as a DeviceNotAvailable instead of a test failure, exercising the resume path.")
		return c
	},
}

type cmdInvokeRun struct {
	commandBase

	testTag            string
	buildID            string
	command            string
	shardInto          int
	resumable          bool
	simulateDeviceLoss bool
}

func (c *cmdInvokeRun) exec(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return errors.Reason("invoke takes no positional arguments, got %q", args).Err()
	}

	argv, err := shlex.Split(c.command)
	if err != nil {
		return errors.Annotate(err, "parsing -command").Err()
	}

	buildID := c.buildID
	if buildID == "" {
		buildID = uuid.New().String()
	}
	build := invocation.NewBuildInfo(c.testTag)
	build.BuildID = buildID

	device := harnessdemo.NewLocalDevice(c.deviceSerial)
	recovery := invocation.DeviceRecovery(harnessdemo.AlwaysRecover{})
	if c.simulateDeviceLoss {
		recovery = harnessdemo.UnrecoverableDevice{}
	}

	cfg := &invocation.Configuration{
		BuildProvider:  &harnessdemo.StaticBuildProvider{Build: build},
		Tests: []invocation.RemoteTest{&harnessdemo.ShellTest{
			RunName:            c.testTag,
			Command:            argv,
			Resumable:          c.resumable,
			ShardInto:          c.shardInto,
			SimulateDeviceLoss: c.simulateDeviceLoss,
		}},
		Listeners:      []invocation.InvocationListener{harnessdemo.NewConsoleListener(os.Stdout)},
		DeviceRecovery: recovery,
	}

	engine := invocation.NewEngine()
	engine.AggregatorFactory = func(listeners []invocation.InvocationListener, shardCount int) invocation.InvocationListener {
		return shard.NewAggregator(listeners, shardCount)
	}
	rescheduler := &harnessdemo.InlineRescheduler{Engine: engine, Device: device}

	return engine.Invoke(ctx, device, cfg, rescheduler)
}
