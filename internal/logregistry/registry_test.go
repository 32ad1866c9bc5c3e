// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package logregistry

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistryDoubleUnregisterIsSafe(t *testing.T) {
	Convey("Unregistering twice, or a name never registered, is a no-op", t, func() {
		r := New()
		r.Register("host_log")

		So(r.IsRegistered("host_log"), ShouldBeTrue)

		r.Unregister("host_log")
		So(r.IsRegistered("host_log"), ShouldBeFalse)

		r.Unregister("host_log")
		So(r.IsRegistered("host_log"), ShouldBeFalse)

		r.Unregister("never_registered")
		So(r.IsRegistered("never_registered"), ShouldBeFalse)
	})
}

func TestRegistryIsolatedFromGlobal(t *testing.T) {
	Convey("New() returns a registry independent of Global", t, func() {
		r := New()
		r.Register("a")

		So(Global.IsRegistered("a"), ShouldBeFalse)
	})
}
