// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

// UnknownBuildID marks a BuildInfo that was fetched without a named build
// identifier, as distinct from a BuildInfo that simply hasn't been stamped
// yet.
const UnknownBuildID = "UNKNOWN_BUILD_ID"

// BuildInfo is an opaque build identity plus the attributes an invocation
// carries around it.
//
// BuildInfo is mutated only during a narrow window: the engine stamps
// DeviceSerial before starting an invocation. After that point it is
// read-only to listeners and tests.
type BuildInfo struct {
	// BuildID names the build under test. UnknownBuildID if the provider
	// fetched a build without an id.
	BuildID string
	// TestTag identifies the logical test run for reporting purposes.
	TestTag string
	// DeviceSerial is stamped by the engine in performInvocation, immediately
	// before that call emits invocation-started. The invocation-started a
	// sharded invocation emits through its aggregator carries the build
	// before any stamping.
	DeviceSerial string
	// Attributes holds arbitrary build metadata key/value pairs.
	Attributes map[string]string
}

// NewBuildInfo returns a BuildInfo with UnknownBuildID and an initialized
// attribute map.
func NewBuildInfo(testTag string) *BuildInfo {
	return &BuildInfo{
		BuildID:    UnknownBuildID,
		TestTag:    testTag,
		Attributes: map[string]string{},
	}
}

// Clone returns a value-copy of b safe to own from a different invocation
// (a shard child or a resumed continuation).
func (b *BuildInfo) Clone() *BuildInfo {
	if b == nil {
		return nil
	}
	attrs := make(map[string]string, len(b.Attributes))
	for k, v := range b.Attributes {
		attrs[k] = v
	}
	return &BuildInfo{
		BuildID:      b.BuildID,
		TestTag:      b.TestTag,
		DeviceSerial: b.DeviceSerial,
		Attributes:   attrs,
	}
}
