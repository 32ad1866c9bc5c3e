// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import "context"

// BuildProvider is the abstract source of the build under test. Concrete
// providers (pulling from a build server, a local path, a CI artifact
// store, ...) are pluggable and out of scope here; the engine only calls
// this contract.
type BuildProvider interface {
	// GetBuild returns the build to test, or nil if there is none to test
	// (the engine reports this as "(no build to test)" and returns without
	// emitting any listener events). A BuildRetrievalError indicates the
	// fetch itself failed.
	GetBuild(ctx context.Context) (*BuildInfo, error)
	// BuildNotTested is called when the invocation ends without having
	// meaningfully exercised the build. It is never called for a
	// BuildError, and never called when a resume was scheduled for the
	// same build.
	BuildNotTested(ctx context.Context, build *BuildInfo)
	// CleanUp releases any resources the provider holds for build.
	CleanUp(ctx context.Context, build *BuildInfo)
}

// ExistingBuildProvider is a pass-through BuildProvider that serves a
// preconstructed build and delegates CleanUp/BuildNotTested to a wrapped
// provider. The sharding and resume paths use this so a
// shard child or a resumed continuation owns its own clone of the build
// while cleanup responsibility stays with whichever provider originally
// fetched it.
type ExistingBuildProvider struct {
	Build    *BuildInfo
	Delegate BuildProvider
}

// NewExistingBuildProvider returns a BuildProvider that always serves build
// and forwards cleanup/not-tested calls to delegate.
func NewExistingBuildProvider(build *BuildInfo, delegate BuildProvider) *ExistingBuildProvider {
	return &ExistingBuildProvider{Build: build, Delegate: delegate}
}

// GetBuild always returns the wrapped build.
func (p *ExistingBuildProvider) GetBuild(ctx context.Context) (*BuildInfo, error) {
	return p.Build, nil
}

// BuildNotTested forwards to the delegate.
func (p *ExistingBuildProvider) BuildNotTested(ctx context.Context, build *BuildInfo) {
	if p.Delegate != nil {
		p.Delegate.BuildNotTested(ctx, build)
	}
}

// CleanUp forwards to the delegate.
func (p *ExistingBuildProvider) CleanUp(ctx context.Context, build *BuildInfo) {
	if p.Delegate != nil {
		p.Delegate.CleanUp(ctx, build)
	}
}
