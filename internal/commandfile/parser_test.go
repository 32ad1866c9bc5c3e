// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package commandfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type recordingScheduler struct {
	commands [][]string
}

func (s *recordingScheduler) AddCommand(argv []string) {
	s.commands = append(s.commands, argv)
}

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("writing fixture %s: %s", path, err)
	}
	return path
}

func TestParserShortMacroInsideLongMacro(t *testing.T) {
	Convey("A short macro call inside a long macro body expands in place", t, func() {
		dir := t.TempDir()
		path := writeFile(t, dir, "cmds.txt", `MACRO hbar = quux
LONG MACRO bar
hbar() z
END MACRO
LONG MACRO test
one bar() x
END MACRO
test()
hbar()
`)
		sink := &recordingScheduler{}
		p := &Parser{}

		err := p.ParseFile(context.Background(), path, sink)

		So(err, ShouldBeNil)
		So(sink.commands, ShouldHaveLength, 2)
		So(sink.commands[0], ShouldResemble, []string{"one", "quux", "z", "x"})
		So(sink.commands[1], ShouldResemble, []string{"quux"})
	})
}

func TestParserIncludeRelativeToParent(t *testing.T) {
	Convey("INCLUDE resolves relative to the including file's directory and dedupes", t, func() {
		dir := t.TempDir()
		subdir := filepath.Join(dir, "a")
		if err := os.Mkdir(subdir, 0700); err != nil {
			t.Fatal(err)
		}
		writeFile(t, subdir, "sub.txt", "--foo bar\n")
		orig := writeFile(t, subdir, "orig.txt", "INCLUDE sub.txt\nINCLUDE sub.txt\n")

		sink := &recordingScheduler{}
		p := &Parser{}

		err := p.ParseFile(context.Background(), orig, sink)

		So(err, ShouldBeNil)
		So(sink.commands, ShouldHaveLength, 1)
		So(sink.commands[0], ShouldResemble, []string{"--foo", "bar"})
	})
}

func TestParserExtraArgsAppended(t *testing.T) {
	Convey("ExtraArgs are appended to every emitted command", t, func() {
		dir := t.TempDir()
		path := writeFile(t, dir, "cmds.txt", "--foo bar\n")
		sink := &recordingScheduler{}
		p := &Parser{ExtraArgs: []string{"--global"}}

		err := p.ParseFile(context.Background(), path, sink)

		So(err, ShouldBeNil)
		So(sink.commands[0], ShouldResemble, []string{"--foo", "bar", "--global"})
	})
}

func TestParserCommentsAndQuoting(t *testing.T) {
	Convey("Comments are stripped and quoted whitespace is preserved", t, func() {
		dir := t.TempDir()
		path := writeFile(t, dir, "cmds.txt", "# a comment\n--name \"hello world\" # trailing\n\n--bare\n")
		sink := &recordingScheduler{}
		p := &Parser{}

		err := p.ParseFile(context.Background(), path, sink)

		So(err, ShouldBeNil)
		So(sink.commands, ShouldHaveLength, 2)
		So(sink.commands[0], ShouldResemble, []string{"--name", "hello world"})
		So(sink.commands[1], ShouldResemble, []string{"--bare"})
	})
}

func TestParserUnknownMacroIsConfigurationError(t *testing.T) {
	Convey("Calling an undefined macro is a configuration error", t, func() {
		dir := t.TempDir()
		path := writeFile(t, dir, "cmds.txt", "nope()\n")
		sink := &recordingScheduler{}
		p := &Parser{}

		err := p.ParseFile(context.Background(), path, sink)

		So(err, ShouldNotBeNil)
		var cfgErr *ConfigurationError
		So(err, ShouldHaveSameTypeAs, cfgErr)
	})
}

func TestParserUnterminatedQuoteIsConfigurationError(t *testing.T) {
	Convey("An unterminated quoted string is a configuration error", t, func() {
		dir := t.TempDir()
		path := writeFile(t, dir, "cmds.txt", `--name "unterminated`+"\n")
		sink := &recordingScheduler{}
		p := &Parser{}

		err := p.ParseFile(context.Background(), path, sink)

		So(err, ShouldNotBeNil)
	})
}
