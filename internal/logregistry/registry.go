// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package logregistry implements the process-wide log registry the
// invocation engine registers its per-invocation logger with on every entry
// and is responsible for unregistering on every exit path.
package logregistry

import (
	"context"
	"sync"

	"go.chromium.org/luci/common/logging"
)

// Registry tracks the currently-live per-invocation log outputs by name.
// Double-unregister is safe: the happy path unregisters inside reportLogs
// and the engine's deferred cleanup also guards the same call.
type Registry struct {
	mu   sync.Mutex
	live map[string]bool
}

// Global is the process-wide registry instance.
var Global = New()

// New returns an empty Registry. Exposed for tests that want isolation from
// the process-wide Global instance.
func New() *Registry {
	return &Registry{live: map[string]bool{}}
}

// Register records name as having a live logger registered.
func (r *Registry) Register(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.live[name] = true
}

// Unregister removes name from the registry. It is idempotent: unregistering
// a name that was never registered, or was already unregistered, is a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.live, name)
}

// IsRegistered reports whether name currently has a live logger.
func (r *Registry) IsRegistered(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.live[name]
}

// DumpToGlobal writes a line naming name and the size of data to the
// process-wide log; the contents of data are not written. The engine calls
// it for a log output that is still registered when an invocation finishes
// (for example after an unexpected error fetching the build, or when there
// was no build to test).
func DumpToGlobal(ctx context.Context, name string, data []byte) {
	logging.Infof(ctx, "dumping unregistered log %s (%d bytes) to global log", name, len(data))
}
