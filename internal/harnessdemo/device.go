// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package harnessdemo

import (
	"context"
	"fmt"
	"sync"

	"github.com/sauce-archives/tradefed/internal/invocation"
)

// LocalDevice is a stand-in Device backed by nothing more than a serial
// string and an in-memory logcat buffer. It never loses the device itself;
// the demo simulates device loss through ShellTest.SimulateDeviceLoss.
type LocalDevice struct {
	serial string

	mu       sync.Mutex
	options  invocation.DeviceOptions
	recovery invocation.DeviceRecovery
	logcat   []byte
}

// NewLocalDevice returns a LocalDevice identifying itself as serial.
func NewLocalDevice(serial string) *LocalDevice {
	return &LocalDevice{serial: serial}
}

// SetOptions implements invocation.Device.
func (d *LocalDevice) SetOptions(opts invocation.DeviceOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.options = opts
	return nil
}

// SetRecovery implements invocation.Device.
func (d *LocalDevice) SetRecovery(recovery invocation.DeviceRecovery) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.recovery = recovery
}

// Serial implements invocation.Device.
func (d *LocalDevice) Serial() string { return d.serial }

// Logcat implements invocation.DeviceLogSource.
func (d *LocalDevice) Logcat() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.logcat...)
}

// AppendLog adds a line to the device's in-memory logcat, as a real device
// backend would as it ran commands.
func (d *LocalDevice) AppendLog(line string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logcat = append(d.logcat, []byte(line+"\n")...)
}

var _ invocation.Device = (*LocalDevice)(nil)
var _ invocation.DeviceLogSource = (*LocalDevice)(nil)

// AlwaysRecover is a DeviceRecovery that always succeeds. The engine only
// installs a DeviceRecovery on the device and never calls Recover, so
// neither this nor UnrecoverableDevice produces a DeviceNotAvailable.
type AlwaysRecover struct{}

// Recover implements invocation.DeviceRecovery.
func (AlwaysRecover) Recover(ctx context.Context, device invocation.Device) error {
	return nil
}

// UnrecoverableDevice is a DeviceRecovery that always fails, as a device
// that has genuinely been lost would.
type UnrecoverableDevice struct{}

// Recover implements invocation.DeviceRecovery.
func (UnrecoverableDevice) Recover(ctx context.Context, device invocation.Device) error {
	return fmt.Errorf("device %s did not come back", device.Serial())
}
