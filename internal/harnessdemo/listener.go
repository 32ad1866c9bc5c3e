// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package harnessdemo

import (
	"fmt"
	"io"
	"time"

	"github.com/kr/pretty"

	"github.com/sauce-archives/tradefed/internal/invocation"
)

// ConsoleListener renders every invocation event as a human-readable line
// to Out. It is the demo CLI's stand-in for a real results backend; concrete
// listeners are pluggable and otherwise out of scope for this package.
type ConsoleListener struct {
	Out io.Writer
}

// NewConsoleListener returns a ConsoleListener writing to out.
func NewConsoleListener(out io.Writer) *ConsoleListener {
	return &ConsoleListener{Out: out}
}

func (c *ConsoleListener) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format+"\n", args...)
}

func (c *ConsoleListener) InvocationStarted(build *invocation.BuildInfo) {
	c.printf("invocation-started build=%s", pretty.Sprint(build))
}

func (c *ConsoleListener) InvocationFailed(cause error) {
	c.printf("invocation-failed: %s", cause)
}

func (c *ConsoleListener) InvocationEnded(elapsed time.Duration) {
	c.printf("invocation-ended elapsed=%s", elapsed)
}

func (c *ConsoleListener) TestRunStarted(runName string, testCount int) {
	c.printf("test-run-started %s (%d tests)", runName, testCount)
}

func (c *ConsoleListener) TestStarted(test invocation.TestDescriptor) {
	c.printf("  test-started %s#%s", test.ClassName, test.TestName)
}

func (c *ConsoleListener) TestFailed(test invocation.TestDescriptor, trace string) {
	c.printf("  test-failed %s#%s\n%s", test.ClassName, test.TestName, trace)
}

func (c *ConsoleListener) TestEnded(test invocation.TestDescriptor) {
	c.printf("  test-ended %s#%s", test.ClassName, test.TestName)
}

func (c *ConsoleListener) TestRunFailed(errorMessage string) {
	c.printf("test-run-failed: %s", errorMessage)
}

func (c *ConsoleListener) TestRunStopped(elapsed time.Duration) {
	c.printf("test-run-stopped elapsed=%s", elapsed)
}

func (c *ConsoleListener) TestRunEnded(elapsed time.Duration, runMetrics map[string]string) {
	c.printf("test-run-ended elapsed=%s metrics=%s", elapsed, pretty.Sprint(runMetrics))
}

func (c *ConsoleListener) TestLog(name string, dataType invocation.LogDataType, data []byte) {
	c.printf("test-log %s (%d bytes, type=%d)", name, len(data), dataType)
}

var _ invocation.InvocationListener = (*ConsoleListener)(nil)
