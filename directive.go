// Copyright 2025 The Zarza Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package markdown

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DirectiveHandler describes a registered block directive.
// The parser only asks whether the directive wants its body kept raw;
// everything else about a handler belongs to the embedding tool.
type DirectiveHandler interface {
	// Raw reports whether the directive body should be stored unparsed
	// in Directive.RawContent instead of being parsed as blocks.
	Raw() bool
}

// DirectiveRegistry is an opaque, immutable lookup table of directive
// handlers keyed by name. The parser never depends on its internals.
type DirectiveRegistry interface {
	Lookup(name string) (DirectiveHandler, bool)
}

// DirectiveMap is a map-backed DirectiveRegistry.
// Do not modify the map after handing it to a Config.
type DirectiveMap map[string]DirectiveHandler

func (m DirectiveMap) Lookup(name string) (DirectiveHandler, bool) {
	h, ok := m[name]
	return h, ok
}

// RawDirective is a DirectiveHandler whose body stays unparsed.
type RawDirective struct{}

func (RawDirective) Raw() bool { return true }

// BlockDirective is a DirectiveHandler whose body is parsed as blocks.
type BlockDirective struct{}

func (BlockDirective) Raw() bool { return false }

// RoleHandler describes a registered inline role.
type RoleHandler interface{}

// RoleRegistry is an opaque, immutable lookup table of role handlers
// keyed by name.
type RoleRegistry interface {
	Lookup(name string) (RoleHandler, bool)
}

// RoleMap is a map-backed RoleRegistry.
// Do not modify the map after handing it to a Config.
type RoleMap map[string]RoleHandler

func (m RoleMap) Lookup(name string) (RoleHandler, bool) {
	h, ok := m[name]
	return h, ok
}

// parseDirectiveOpening parses `:::{name} title` after the fence run.
// It returns ok=false if the line is not a well-formed opening.
func parseDirectiveOpening(rest string) (name, title string, ok bool) {
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "{") {
		return "", "", false
	}
	end := strings.IndexByte(rest, '}')
	if end < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(rest[1:end])
	if name == "" {
		return "", "", false
	}
	for _, c := range name {
		if !(c == '-' || c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			return "", "", false
		}
	}
	title = strings.TrimSpace(rest[end+1:])
	return name, title, true
}

// parseDirectiveOptions parses leading `:key: value` lines from a
// directive body as a YAML mapping. It returns the options and the
// number of body lines consumed. A malformed option block degrades to
// no options rather than an error, per the no-invalid-input rule.
func parseDirectiveOptions(lines []string) (map[string]string, int) {
	n := 0
	var b strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, ":") || len(trimmed) < 2 {
			break
		}
		rest := trimmed[1:]
		colon := strings.IndexByte(rest, ':')
		if colon <= 0 {
			break
		}
		b.WriteString(rest[:colon])
		b.WriteString(":")
		b.WriteString(rest[colon+1:])
		b.WriteByte('\n')
		n++
	}
	if n == 0 {
		return nil, 0
	}
	var raw map[string]any
	if err := yaml.Unmarshal([]byte(b.String()), &raw); err != nil {
		return nil, 0
	}
	opts := make(map[string]string, len(raw))
	for k, v := range raw {
		if v == nil {
			opts[k] = ""
		} else {
			opts[k] = fmt.Sprint(v)
		}
	}
	return opts, n
}
