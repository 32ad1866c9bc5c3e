// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import "context"

// DeviceOptions is the option bag a Configuration carries for the device
// under test. The engine hands it to Device.SetOptions verbatim; its key
// space is owned by concrete Device implementations, which are out of
// scope here.
type DeviceOptions map[string]string

// Clone returns a value-copy of the option bag.
func (o DeviceOptions) Clone() DeviceOptions {
	c := make(DeviceOptions, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// CommandOptions is the option bag a Configuration carries for the command
// as a whole (shard count hints, resume limits, and the like). As with
// DeviceOptions its key space belongs to callers of this package.
type CommandOptions map[string]string

// Clone returns a value-copy of the option bag.
func (o CommandOptions) Clone() CommandOptions {
	c := make(CommandOptions, len(o))
	for k, v := range o {
		c[k] = v
	}
	return c
}

// Device is the abstract handle the engine drives. Acquisition and recovery
// are external collaborators; the engine only calls this contract.
type Device interface {
	// SetOptions applies the configuration's device option bag.
	SetOptions(opts DeviceOptions) error
	// SetRecovery installs the recovery strategy to use if the device is
	// lost mid-invocation.
	SetRecovery(recovery DeviceRecovery)
	// Serial returns the device's stable identifier, stamped onto BuildInfo
	// before the invocation starts.
	Serial() string
}

// DeviceLogSource is an optional Device capability: devices that can
// produce a logcat capture implement it so the engine can attach it to the
// invocation's log stream under the canonical device_logcat name.
type DeviceLogSource interface {
	Logcat() []byte
}

// DeviceRecovery is the abstract recovery strategy a Configuration carries.
// Concrete recovery logic is out of scope here; the engine only wires it
// onto the device before performInvocation.
type DeviceRecovery interface {
	// Recover attempts to bring the device back to a usable state. The
	// engine never calls it; it only installs the strategy on the device
	// via SetRecovery before performInvocation.
	Recover(ctx context.Context, device Device) error
}
