// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package invocation

import "io"

// LogOutput is the per-invocation log sink. It is an independent resource:
// a cloned Configuration's LogOutput must be released by whichever
// invocation ends up owning the clone.
type LogOutput interface {
	io.Writer
	io.Closer
	// Name identifies this log output in the process-wide log registry.
	Name() string
	// Clone returns a new, independent LogOutput backed by its own
	// resource. Sharding and resuming both need a log output the clone can
	// close without affecting the original invocation's.
	Clone() LogOutput
}

// Configuration is the structured aggregate the engine drives: a build
// provider, an ordered list of target preparers, an ordered list of remote
// tests, a list of invocation listeners (one of which is the canonical
// "output" listener), a log output, a device recovery strategy, and the
// device/command option bags.
type Configuration struct {
	BuildProvider  BuildProvider
	Preparers      []TargetPreparer
	Tests          []RemoteTest
	Listeners      []InvocationListener
	LogOutput      LogOutput
	DeviceRecovery DeviceRecovery
	DeviceOptions  DeviceOptions
	CommandOptions CommandOptions
}

// Clone returns an independently ownable copy of cfg. The listener list is
// copied, and the listeners in it are shared by reference (listeners are
// reentrant fan-outs);
// the log output and option bags are value-copied so sharded/resumed
// invocations do not interfere with one another or with the original.
//
// Callers that need a different test list, build provider, or listener set
// for the clone (sharding, resuming) overwrite those fields on the
// returned value; Clone itself never mutates cfg.
func (cfg *Configuration) Clone() *Configuration {
	listeners := make([]InvocationListener, len(cfg.Listeners))
	copy(listeners, cfg.Listeners)

	preparers := make([]TargetPreparer, len(cfg.Preparers))
	copy(preparers, cfg.Preparers)

	tests := make([]RemoteTest, len(cfg.Tests))
	copy(tests, cfg.Tests)

	var logOutput LogOutput
	if cfg.LogOutput != nil {
		logOutput = cfg.LogOutput.Clone()
	}

	return &Configuration{
		BuildProvider:  cfg.BuildProvider,
		Preparers:      preparers,
		Tests:          tests,
		Listeners:      listeners,
		LogOutput:      logOutput,
		DeviceRecovery: cfg.DeviceRecovery,
		DeviceOptions:  cfg.DeviceOptions.Clone(),
		CommandOptions: cfg.CommandOptions.Clone(),
	}
}
