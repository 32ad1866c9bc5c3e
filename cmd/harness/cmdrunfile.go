// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"

	"github.com/sauce-archives/tradefed/internal/commandfile"
	"github.com/sauce-archives/tradefed/internal/harnessdemo"
	"github.com/sauce-archives/tradefed/internal/invocation"
	"github.com/sauce-archives/tradefed/internal/shard"
)

var cmdRunFile = &subcommands.Command{
	UsageLine: "run-file <path>",
	ShortDesc: "runs every command in a command file as its own invocation",
	LongDesc: `Parses <path> as a command file (comments, quoting, MACRO/LONG MACRO,
INCLUDE all supported) and runs each resulting command line as a single-test
invocation against the in-process demo device, in document order.`,

	CommandRun: func() subcommands.CommandRun {
		c := &cmdRunFileRun{}
		c.init(c.exec)
		return c
	},
}

type cmdRunFileRun struct {
	commandBase
}

// fileScheduler adapts the commandfile.Scheduler sink to running each
// parsed command line as its own invocation.
type fileScheduler struct {
	ctx      context.Context
	engine   *invocation.Engine
	device   invocation.Device
	listener invocation.InvocationListener
}

func (s *fileScheduler) AddCommand(argv []string) {
	if len(argv) == 0 {
		return
	}
	build := invocation.NewBuildInfo(argv[0])
	build.BuildID = uuid.New().String()

	cfg := &invocation.Configuration{
		BuildProvider:  &harnessdemo.StaticBuildProvider{Build: build},
		Tests:          []invocation.RemoteTest{&harnessdemo.ShellTest{RunName: argv[0], Command: argv}},
		Listeners:      []invocation.InvocationListener{s.listener},
		DeviceRecovery: harnessdemo.AlwaysRecover{},
	}
	rescheduler := &harnessdemo.InlineRescheduler{Engine: s.engine, Device: s.device}
	if err := s.engine.Invoke(s.ctx, s.device, cfg, rescheduler); err != nil {
		logging.Errorf(s.ctx, "invocation for %q failed: %s", argv, err)
	}
}

func (c *cmdRunFileRun) exec(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.Reason("run-file takes exactly one positional argument, got %q", args).Err()
	}

	device := harnessdemo.NewLocalDevice(c.deviceSerial)
	engine := invocation.NewEngine()
	engine.AggregatorFactory = func(listeners []invocation.InvocationListener, shardCount int) invocation.InvocationListener {
		return shard.NewAggregator(listeners, shardCount)
	}

	sink := &fileScheduler{
		ctx:      ctx,
		engine:   engine,
		device:   device,
		listener: harnessdemo.NewConsoleListener(os.Stdout),
	}

	parser := &commandfile.Parser{}
	return parser.ParseFile(ctx, args[0], sink)
}
