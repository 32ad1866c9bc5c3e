// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package invocation implements the invocation engine: the state machine
// that drives one end-to-end test run against a target device, including
// sharding a run into parallel sub-runs and resuming a run that lost its
// device mid-flight.
package invocation

import (
	"context"
	"fmt"

	"go.chromium.org/luci/common/clock"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"

	"github.com/sauce-archives/tradefed/internal/logregistry"
)

// ShardAggregatorFactory constructs the listener a sharded invocation's
// children report back through. The concrete Shard
// Aggregator lives in package shard, which itself depends on this package
// for the InvocationListener contract; injecting the factory here instead
// of importing shard directly keeps that dependency one-directional.
type ShardAggregatorFactory func(listeners []InvocationListener, shardCount int) InvocationListener

// Engine drives a single invocation's lifecycle.
type Engine struct {
	// Registry is the process-wide log registry the engine registers its
	// logger with. Defaults to logregistry.Global.
	Registry *logregistry.Registry

	// AggregatorFactory builds the Shard Aggregator for a sharded
	// invocation. Required only if any Configuration passed to Invoke has
	// tests implementing Shardable.
	AggregatorFactory ShardAggregatorFactory
}

// NewEngine returns an Engine backed by the process-wide log registry.
func NewEngine() *Engine {
	return &Engine{Registry: logregistry.Global}
}

// Invoke runs one invocation of cfg against device.
//
// Invoke may delegate the actual test execution to shard children it
// submits to rescheduler, in which case it returns as soon as all
// children are scheduled; it never returns an error for that path, since
// sharding success is reported to listeners via the shard aggregator.
func (e *Engine) Invoke(ctx context.Context, device Device, cfg *Configuration, rescheduler Rescheduler) error {
	inv := NewInvocation()
	inv.setStatus(StatusFetchingBuild)

	if cfg.LogOutput != nil {
		e.Registry.Register(cfg.LogOutput.Name())
	}

	build, err := cfg.BuildProvider.GetBuild(ctx)
	if err != nil {
		var bre *BuildRetrievalError
		if errors.As(err, &bre) {
			e.reportBuildRetrievalError(ctx, cfg, bre)
			e.finishLogging(ctx, cfg, inv)
			return nil
		}
		// An unexpected error fetching the logger or build: swallow, dump
		// whatever we have to the global log, unregister, and return.
		logging.Errorf(ctx, "unexpected error fetching build: %s", err)
		e.finishLogging(ctx, cfg, inv)
		return nil
	}
	if build == nil {
		inv.setStatus(StatusNoBuild)
		e.finishLogging(ctx, cfg, inv)
		return nil
	}

	for _, t := range cfg.Tests {
		if br, ok := AsBuildReceiver(t); ok {
			br.SetBuild(build)
		}
	}

	sharded, err := e.attemptSharding(ctx, inv, device, cfg, build, rescheduler)
	if err != nil {
		logging.Errorf(ctx, "sharding failed: %s", err)
	}
	if sharded {
		return nil
	}

	device.SetRecovery(cfg.DeviceRecovery)
	err = e.performInvocation(ctx, inv, device, cfg, build, rescheduler)

	e.finishLogging(ctx, cfg, inv)
	return err
}

// finishLogging implements the unconditional "dump logs to global,
// unregister the logger, close the log output" tail of Invoke.
func (e *Engine) finishLogging(ctx context.Context, cfg *Configuration, inv *Invocation) {
	if cfg.LogOutput == nil {
		return
	}
	if e.Registry.IsRegistered(cfg.LogOutput.Name()) {
		logregistry.DumpToGlobal(ctx, cfg.LogOutput.Name(), nil)
	}
	e.Registry.Unregister(cfg.LogOutput.Name())
	if err := cfg.LogOutput.Close(); err != nil {
		logging.Warningf(ctx, "closing log output %s: %s", cfg.LogOutput.Name(), err)
	}
}

func (e *Engine) reportBuildRetrievalError(ctx context.Context, cfg *Configuration, bre *BuildRetrievalError) {
	fwd := NewForwarder(cfg.Listeners)
	fwd.InvocationStarted(bre.BuildInfo)
	fwd.InvocationFailed(bre)
	e.reportLogs(ctx, cfg, nil, fwd)
	fwd.InvocationEnded(0)
}

// performInvocation runs the prepare/run/report lifecycle.
func (e *Engine) performInvocation(ctx context.Context, inv *Invocation, device Device, cfg *Configuration, build *BuildInfo, rescheduler Rescheduler) (reportErr error) {
	inv.startTime = clock.Now(ctx)
	build.DeviceSerial = device.Serial()

	fwd := NewForwarder(cfg.Listeners)
	e.startInvocation(ctx, inv, fwd, build)

	resumedScheduled := false

	defer func() {
		inv.setStatus(StatusDoneRunning)
		e.reportLogs(ctx, cfg, device, fwd)
		inv.elapsedTime = clock.Now(ctx).Sub(inv.startTime)
		if !resumedScheduled {
			fwd.InvocationEnded(inv.elapsedTime)
		}
		cfg.BuildProvider.CleanUp(ctx, build)
	}()

	inv.setRunningStatus(build.TestTag, build.BuildID)

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("unexpected fault in invocation: %v", r)
			}
		}()
		if setErr := device.SetOptions(cfg.DeviceOptions); setErr != nil {
			return &TargetSetupError{Cause: setErr}
		}
		for _, p := range cfg.Preparers {
			if setUpErr := p.SetUp(ctx, device, build); setUpErr != nil {
				return setUpErr
			}
		}
		return e.runTests(ctx, device, build, cfg)
	}()

	if err == nil {
		return nil
	}

	var buildErr *BuildError
	var setupErr *TargetSetupError
	var deviceErr *DeviceNotAvailable
	switch {
	case errors.As(err, &buildErr):
		fwd.TestLog(BuildErrorBugreportName, LogText, captureBugreport(ctx, device))
		e.reportFailure(ctx, fwd, cfg, build, buildErr, false)
		return nil
	case errors.As(err, &setupErr):
		e.reportFailure(ctx, fwd, cfg, build, setupErr, true)
		return nil
	case errors.As(err, &deviceErr):
		resumedScheduled = TryResume(ctx, cfg, build, rescheduler, inv, clock.Now(ctx).Sub(inv.startTime))
		if !resumedScheduled {
			e.reportFailure(ctx, fwd, cfg, build, deviceErr, true)
		}
		return deviceErr
	default:
		e.reportFailure(ctx, fwd, cfg, build, err, true)
		return err
	}
}

// reportFailure emits invocation-failed to every listener and, unless cause
// is a BuildError, tells the build provider the build was not meaningfully
// tested. The caller resolves the BuildError special case (and
// the "was a resume scheduled" special case for DeviceNotAvailable) before
// calling this; notifyBuildProvider is the single source of truth here for
// whether BuildNotTested fires.
func (e *Engine) reportFailure(ctx context.Context, fwd *Forwarder, cfg *Configuration, build *BuildInfo, cause error, notifyBuildProvider bool) {
	fwd.InvocationFailed(cause)
	if notifyBuildProvider {
		cfg.BuildProvider.BuildNotTested(ctx, build)
	}
}

// startInvocation emits a human-readable status line, then forwards
// invocation-started to every listener, catching any runtime fault from a
// single listener so it cannot block delivery to the others.
func (e *Engine) startInvocation(ctx context.Context, inv *Invocation, fwd *Forwarder, build *BuildInfo) {
	logging.Infof(ctx, "starting invocation for build %s", build.BuildID)
	fwd.InvocationStarted(build)
}

// reportLogs delivers the host log (and, if the device exposes one, the
// device logcat) to every listener under the canonical log names,
// then unregisters the log output from the process-wide registry. Concrete
// log capture is out of scope here; device is only probed for the
// optional DeviceLogSource capability.
func (e *Engine) reportLogs(ctx context.Context, cfg *Configuration, device Device, fwd *Forwarder) {
	if device != nil {
		if src, ok := device.(DeviceLogSource); ok {
			fwd.TestLog(DeviceLogcatName, LogText, src.Logcat())
		}
	}
	if cfg.LogOutput == nil {
		return
	}
	fwd.TestLog(HostLogName, LogText, nil)
	e.Registry.Unregister(cfg.LogOutput.Name())
}

func captureBugreport(ctx context.Context, device Device) []byte {
	// Concrete bugreport capture is out of scope here; the engine
	// only guarantees the log is attached under the canonical name.
	return []byte(fmt.Sprintf("bugreport unavailable for device %s", device.Serial()))
}

// runTests runs each test in order: inject the device if
// it accepts one, then run it against a fresh Result Forwarder over the
// configuration's listener list.
func (e *Engine) runTests(ctx context.Context, device Device, build *BuildInfo, cfg *Configuration) error {
	for _, t := range cfg.Tests {
		if dt, ok := AsDeviceTest(t); ok {
			dt.SetDevice(device)
		}
		fwd := NewForwarder(cfg.Listeners)
		if err := t.Run(ctx, fwd); err != nil {
			return err
		}
	}
	return nil
}
