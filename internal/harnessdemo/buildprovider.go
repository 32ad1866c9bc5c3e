// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package harnessdemo provides minimal, in-process collaborators (a build
// provider, a device, a device recovery strategy, and a console listener)
// that let the harness CLI drive a real invocation end to end without any
// external lab infrastructure. Concrete collaborators of this kind are
// pluggable and out of scope for the invocation engine itself; this package
// is the demo/standalone wiring, not a production backend.
package harnessdemo

import (
	"context"

	"go.chromium.org/luci/common/logging"

	"github.com/sauce-archives/tradefed/internal/invocation"
)

// StaticBuildProvider always serves the same build, as if it had already
// been fetched. It is meant for local runs against a build you already have
// in hand (e.g. a path on disk named by TestTag).
type StaticBuildProvider struct {
	Build *invocation.BuildInfo

	// FailWith, if set, makes GetBuild return a BuildRetrievalError wrapping
	// this cause instead of serving Build. Useful for exercising the
	// BuildRetrievalError path from the CLI.
	FailWith error
}

// GetBuild implements invocation.BuildProvider.
func (p *StaticBuildProvider) GetBuild(ctx context.Context) (*invocation.BuildInfo, error) {
	if p.FailWith != nil {
		return nil, &invocation.BuildRetrievalError{BuildInfo: p.Build, Cause: p.FailWith}
	}
	return p.Build, nil
}

// BuildNotTested implements invocation.BuildProvider.
func (p *StaticBuildProvider) BuildNotTested(ctx context.Context, build *invocation.BuildInfo) {
	logging.Warningf(ctx, "build %s was not meaningfully tested", build.BuildID)
}

// CleanUp implements invocation.BuildProvider.
func (p *StaticBuildProvider) CleanUp(ctx context.Context, build *invocation.BuildInfo) {
	logging.Debugf(ctx, "releasing build %s", build.BuildID)
}
