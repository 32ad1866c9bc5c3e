// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Binary harness drives invocations of the tradefed-style invocation engine
// against commands or command files, using the in-process demo collaborators
// in internal/harnessdemo.
package main

import (
	"context"
	"os"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/client/versioncli"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/flag/fixflagpos"
	"go.chromium.org/luci/common/logging/gologger"
)

// Version is the version of the harness tool.
const Version = "1.0.0"

func getApplication() *cli.Application {
	return &cli.Application{
		Name:  "harness",
		Title: "Runs invocations of the device test harness engine",

		Context: func(ctx context.Context) context.Context {
			return gologger.StdConfig.Use(ctx)
		},

		Commands: []*subcommands.Command{
			subcommands.CmdHelp,
			versioncli.CmdVersion("harness v" + Version),
			cmdInvoke,
			cmdRunFile,
		},
	}
}

func main() {
	os.Exit(subcommands.Run(getApplication(), fixflagpos.FixSubcommands(os.Args[1:])))
}
