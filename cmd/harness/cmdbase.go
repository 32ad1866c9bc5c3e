// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"
)

// execCb is the signature of a function that executes a subcommand once its
// flags have been parsed and validated.
type execCb func(ctx context.Context, args []string) error

// commandBase holds the flags and plumbing shared by every harness
// subcommand: device identity and logging configuration.
type commandBase struct {
	subcommands.CommandRunBase

	exec execCb

	logConfig    logging.Config
	deviceSerial string
}

func (c *commandBase) init(exec execCb) {
	c.exec = exec
	c.logConfig.Level = logging.Info
	c.logConfig.AddFlags(&c.Flags)
	c.Flags.StringVar(&c.deviceSerial, "device-serial", "local-demo-device",
		"Serial identifying the device under test.")
}

// ModifyContext implements cli.ContextModificator.
func (c *commandBase) ModifyContext(ctx context.Context) context.Context {
	return c.logConfig.Set(ctx)
}

// Run implements subcommands.CommandRun.
func (c *commandBase) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	if err := c.exec(ctx, args); err != nil {
		logging.Errorf(ctx, "%s", err)
		errors.Log(ctx, err)
		fmt.Fprintf(os.Stderr, "harness: %s\n", err)
		return 1
	}
	return 0
}
