// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import (
	"context"
	"fmt"

	"go.chromium.org/luci/common/errors"
)

// attemptSharding walks cfg's test list,
// asking every Shardable test to split; if any split returns children, the
// whole invocation is sharded: each resulting test (split child or
// unsplit original) becomes its own single-test Configuration submitted to
// rescheduler, fanning events through a shared Shard Aggregator.
//
// It returns (true, nil) if the invocation was sharded (the caller must
// stop; reschedulers now own the work), (false, nil) if no test split,
// (false, err) if sharding was attempted but something went wrong setting
// it up (the caller logs and falls back to running the invocation directly
// in this process, since nothing has been handed off yet), and (true, err)
// if the rescheduler refused a shard: shards scheduled before it stay
// scheduled, and the refused shard's build clone and the original build
// have already been released.
func (e *Engine) attemptSharding(ctx context.Context, inv *Invocation, device Device, cfg *Configuration, build *BuildInfo, rescheduler Rescheduler) (bool, error) {
	var shardTests []RemoteTest
	sharded := false
	for _, t := range cfg.Tests {
		if s, ok := AsShardable(t); ok {
			if children := s.Split(); len(children) > 0 {
				shardTests = append(shardTests, children...)
				sharded = true
				continue
			}
		}
		shardTests = append(shardTests, t)
	}
	if !sharded {
		return false, nil
	}
	if e.AggregatorFactory == nil {
		return false, errors.Reason("invocation has shardable tests but no ShardAggregatorFactory is configured").Err()
	}

	inv.setStatus(StatusSharding)

	aggregator := e.AggregatorFactory(cfg.Listeners, len(shardTests))
	aggregator.InvocationStarted(build)

	// Each shard child gets its own ExistingBuildProvider wrapping a clone of
	// build, delegating CleanUp/BuildNotTested to the original provider. That
	// makes every child responsible for releasing its share of the build.
	for i, t := range shardTests {
		childBuild := build.Clone()

		child := cfg.Clone()
		child.Tests = []RemoteTest{t}
		child.BuildProvider = NewExistingBuildProvider(childBuild, cfg.BuildProvider)
		child.Listeners = []InvocationListener{NewShardListener(aggregator)}

		if !rescheduler.ScheduleConfig(child) {
			// The refused shard's build clone was never handed off to anything
			// that will release it, so this invocation must clean it up itself
			// (mirroring TryResume's handling of a refused resume in
			// resumer.go). The original build, and any shard clones for tests
			// this loop never reached, are likewise this invocation's own to
			// release now that sharding has failed outright.
			cfg.BuildProvider.CleanUp(ctx, childBuild)
			cfg.BuildProvider.CleanUp(ctx, build)
			return true, fmt.Errorf("rescheduler refused shard %d of %d", i, len(shardTests))
		}
	}

	// Each shard child owns a clone of build and releases it through its own
	// ExistingBuildProvider (delegating back to cfg.BuildProvider above); the
	// original build object is this invocation's own to release.
	cfg.BuildProvider.CleanUp(ctx, build)

	return true, nil
}
