// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import "context"

// RemoteTest is the minimal contract every test in a Configuration's test
// list implements. Tests are polymorphic over additional capability
// interfaces below; a test asserts a capability by also implementing
// BuildReceiver, DeviceTest, Shardable, and/or Resumable, probed with a type
// assertion rather than modeled as a class hierarchy.
type RemoteTest interface {
	// Run executes the test, delivering its result events to listener.
	Run(ctx context.Context, listener InvocationListener) error
}

// BuildReceiver is implemented by a RemoteTest that accepts the build under
// test before it runs.
type BuildReceiver interface {
	SetBuild(build *BuildInfo)
}

// DeviceTest is implemented by a RemoteTest that needs the device handle.
type DeviceTest interface {
	SetDevice(device Device)
}

// Shardable is implemented by a RemoteTest that may split into independent
// children. Split returns nil or an empty slice if the test declines to
// split.
type Shardable interface {
	Split() []RemoteTest
}

// Resumable is implemented by a RemoteTest that can report whether it is
// safe to resume after a device loss.
type Resumable interface {
	IsResumable() bool
}

// AsBuildReceiver probes t for the BuildReceiver capability.
func AsBuildReceiver(t RemoteTest) (BuildReceiver, bool) {
	r, ok := t.(BuildReceiver)
	return r, ok
}

// AsDeviceTest probes t for the DeviceTest capability.
func AsDeviceTest(t RemoteTest) (DeviceTest, bool) {
	r, ok := t.(DeviceTest)
	return r, ok
}

// AsShardable probes t for the Shardable capability.
func AsShardable(t RemoteTest) (Shardable, bool) {
	r, ok := t.(Shardable)
	return r, ok
}

// AsResumable probes t for the Resumable capability.
func AsResumable(t RemoteTest) (Resumable, bool) {
	r, ok := t.(Resumable)
	return r, ok
}

// TargetPreparer prepares a device to receive a build before tests run.
type TargetPreparer interface {
	SetUp(ctx context.Context, device Device, build *BuildInfo) error
}
