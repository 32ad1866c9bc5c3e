// Copyright 2019 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package commandfile implements a command file parser: it reads a
// line-oriented command file, expands MACRO/LONG MACRO definitions and
// INCLUDE directives, and yields one argument vector per resulting command
// line to a scheduler sink.
package commandfile

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/logging"
)

// ConfigurationError is returned by ParseFile for any malformed command
// file: unterminated quotes/escapes, an unclosed LONG MACRO, an unknown
// macro call, or an empty MACRO right-hand side.
type ConfigurationError struct {
	Path string
	Msg  string
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Scheduler is the sink a parsed command file feeds: one AddCommand call
// per fully expanded command line, in document order.
type Scheduler interface {
	AddCommand(argv []string)
}

var macroNamePattern = regexp.MustCompile(`^[A-Za-z_][\w\-]*$`)
var macroCallPattern = regexp.MustCompile(`^([A-Za-z_][\w\-]*)\(\)$`)

// Parser reads command files into Scheduler calls. ExtraArgs, if set, is
// appended to every emitted argument vector.
type Parser struct {
	ExtraArgs []string
}

// ParseFile parses the command file at path and feeds every resulting
// command line to sink, in order. It is the sole entry point for a
// top-level parse: the set of seen INCLUDE targets and the macro tables are
// scoped to this one call and shared across every file it transitively
// includes.
func (p *Parser) ParseFile(ctx context.Context, path string, sink Scheduler) error {
	state := &parseState{
		seenIncludes: stringset.New(0),
		shortMacros:  map[string][]string{},
		longMacros:   map[string][][]string{},
	}

	lines, err := state.readFile(ctx, path)
	if err != nil {
		return err
	}

	expanded, err := expandMacros(state.shortMacros, state.longMacros, lines)
	if err != nil {
		return err
	}
	for _, line := range expanded {
		argv := append(append([]string{}, line...), p.ExtraArgs...)
		sink.AddCommand(argv)
	}
	return nil
}

// parseState is the mutable context shared across one top-level parse and
// every file it transitively includes.
type parseState struct {
	seenIncludes stringset.Set
	shortMacros  map[string][]string
	longMacros   map[string][][]string
}

// readFile scans path line by line, recording MACRO/LONG MACRO definitions
// into the shared macro tables and inlining INCLUDE targets, and returns the
// ordered list of command lines (as raw, not-yet-macro-call-expanded token
// vectors) this file and everything it includes contributed.
func (s *parseState) readFile(ctx context.Context, path string) ([]tokenLine, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Msg: err.Error()}
	}
	defer f.Close()

	var out []tokenLine
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tokens, err := tokenize(scanner.Text())
		if err != nil {
			return nil, &ConfigurationError{Path: path, Msg: err.Error()}
		}
		if len(tokens) == 0 {
			continue
		}

		switch {
		case len(tokens) >= 2 && tokens[0] == "LONG" && tokens[1] == "MACRO":
			name := ""
			if len(tokens) >= 3 {
				name = tokens[2]
			}
			if !macroNamePattern.MatchString(name) {
				return nil, &ConfigurationError{Path: path, Msg: fmt.Sprintf("invalid LONG MACRO name %q", name)}
			}
			body, err := s.readLongMacroBody(path, scanner)
			if err != nil {
				return nil, err
			}
			if _, exists := s.longMacros[name]; exists {
				logging.Warningf(ctx, "commandfile: redefining long macro %q", name)
			}
			s.longMacros[name] = body

		case tokens[0] == "MACRO":
			if len(tokens) < 3 || tokens[2] != "=" {
				return nil, &ConfigurationError{Path: path, Msg: "MACRO requires the form MACRO name = tok ..."}
			}
			name := tokens[1]
			if !macroNamePattern.MatchString(name) {
				return nil, &ConfigurationError{Path: path, Msg: fmt.Sprintf("invalid MACRO name %q", name)}
			}
			rhs := tokens[3:]
			if len(rhs) == 0 {
				return nil, &ConfigurationError{Path: path, Msg: fmt.Sprintf("MACRO %q has an empty right-hand side", name)}
			}
			if _, exists := s.shortMacros[name]; exists {
				logging.Warningf(ctx, "commandfile: redefining macro %q", name)
			}
			s.shortMacros[name] = rhs

		case tokens[0] == "INCLUDE":
			if len(tokens) != 2 {
				return nil, &ConfigurationError{Path: path, Msg: "INCLUDE requires exactly one path argument"}
			}
			resolved := resolveInclude(path, tokens[1])
			if s.seenIncludes.Has(resolved) {
				continue
			}
			s.seenIncludes.Add(resolved)
			included, err := s.readFile(ctx, resolved)
			if err != nil {
				return nil, err
			}
			out = append(out, included...)

		default:
			out = append(out, tokenLine(tokens))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &ConfigurationError{Path: path, Msg: err.Error()}
	}
	return out, nil
}

// readLongMacroBody consumes lines from scanner up to and including the
// closing END MACRO, returning each intervening line's tokens as one body
// entry. Reaching EOF first is a configuration error.
func (s *parseState) readLongMacroBody(path string, scanner *bufio.Scanner) ([][]string, error) {
	var body [][]string
	for scanner.Scan() {
		tokens, err := tokenize(scanner.Text())
		if err != nil {
			return nil, &ConfigurationError{Path: path, Msg: err.Error()}
		}
		if len(tokens) >= 2 && tokens[0] == "END" && tokens[1] == "MACRO" {
			return body, nil
		}
		if len(tokens) == 0 {
			continue
		}
		body = append(body, tokens)
	}
	return nil, &ConfigurationError{Path: path, Msg: "EOF reached before END MACRO"}
}

// resolveInclude resolves target as seen from an INCLUDE directive in
// fromFile: relative to fromFile's directory if fromFile has one, else
// relative to the process's current working directory. Absolute paths are
// used as-is.
func resolveInclude(fromFile, target string) string {
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	dir := filepath.Dir(fromFile)
	return filepath.Clean(filepath.Join(dir, target))
}

// tokenLine is one logical command line, already comment-stripped and
// tokenized but possibly still containing unresolved macro calls.
type tokenLine []string

// tokenize splits line into whitespace-separated tokens honoring double
// quotes (which preserve internal whitespace until the matching quote) and
// backslash escapes (which take the following rune literally). A '#'
// outside a quoted run starts a comment running to end of line.
func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	started := false
	inQuotes := false

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '\\':
			if i+1 >= len(runes) {
				return nil, fmt.Errorf("trailing unescaped backslash")
			}
			cur.WriteRune(runes[i+1])
			started = true
			i++
		case c == '"':
			inQuotes = !inQuotes
			started = true
		case !inQuotes && c == '#':
			i = len(runes)
		case !inQuotes && (c == ' ' || c == '\t'):
			if started {
				tokens = append(tokens, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(c)
			started = true
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quoted string")
	}
	if started {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// expandMacros expands every macro call in lines to a fixpoint and returns
// the fully resolved command lines.
//
// Rather than maintaining a separate "lines pending expansion" bitmap
// alongside a running count of set bits — the documented source of a known
// historical bug when a long-macro call splices a single line into several
// — this derives "which lines still need work" directly from the line
// contents on every pass. There is exactly one source of truth: the lines
// themselves.
func expandMacros(short map[string][]string, long map[string][][]string, lines []tokenLine) ([][]string, error) {
	work := make([]tokenLine, len(lines))
	copy(work, lines)

	for {
		idx, callIdx, name := findFirstCall(work)
		if idx < 0 {
			break
		}

		if rhs, ok := short[name]; ok {
			work[idx] = spliceTokens(work[idx], callIdx, rhs)
			continue
		}
		if body, ok := long[name]; ok {
			replacement := make([]tokenLine, len(body))
			for i, bodyLine := range body {
				replacement[i] = spliceTokens(work[idx], callIdx, bodyLine)
			}
			work = spliceLines(work, idx, replacement)
			continue
		}
		return nil, &ConfigurationError{Msg: fmt.Sprintf("call to undefined macro %q()", name)}
	}

	out := make([][]string, len(work))
	for i, l := range work {
		out[i] = []string(l)
	}
	return out, nil
}

// findFirstCall returns the line index and token index of the first
// unresolved macro call in lines (left-to-right, first line first), along
// with the called macro's name. It returns idx -1 if no line contains a
// call.
func findFirstCall(lines []tokenLine) (lineIdx, tokenIdx int, name string) {
	for i, l := range lines {
		for j, tok := range l {
			if m := macroCallPattern.FindStringSubmatch(tok); m != nil {
				return i, j, m[1]
			}
		}
	}
	return -1, -1, ""
}

// spliceTokens returns a new token line with the token at callIdx replaced
// by replacement, preserving every token before and after it.
func spliceTokens(line tokenLine, callIdx int, replacement []string) tokenLine {
	out := make(tokenLine, 0, len(line)-1+len(replacement))
	out = append(out, line[:callIdx]...)
	out = append(out, replacement...)
	out = append(out, line[callIdx+1:]...)
	return out
}

// spliceLines returns lines with the entry at idx replaced by replacement,
// which may contribute zero, one, or many lines in its place.
func spliceLines(lines []tokenLine, idx int, replacement []tokenLine) []tokenLine {
	out := make([]tokenLine, 0, len(lines)-1+len(replacement))
	out = append(out, lines[:idx]...)
	out = append(out, replacement...)
	out = append(out, lines[idx+1:]...)
	return out
}
