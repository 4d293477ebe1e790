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
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("markdown: invalid config")

// defaultMaxNesting bounds container recursion depth.
// Input deeper than this degrades to literal text instead of recursing.
const defaultMaxNesting = 64

// Config selects the extensions and collaborators active for a parse.
//
// The zero value is strict CommonMark with every extension off. A
// Config is immutable once handed to NewParser; it is passed by value
// to every recursive sub-parse (list items, block quotes, directive
// content), so concurrent parses on different goroutines can never
// observe each other's configuration.
type Config struct {
	// Extension flags. Each is a bounded addition to block or inline
	// classification; all default off.
	Strikethrough bool
	Tables        bool
	TaskLists     bool
	Footnotes     bool
	Math          bool

	// Directives resolves :::{name} container blocks.
	// Nil disables directive parsing entirely.
	Directives DirectiveRegistry
	// Roles resolves {name}`content` spans.
	// Nil disables role parsing entirely.
	Roles RoleRegistry

	// Strict makes directive lookups for unregistered names an error
	// surfaced through the Directive node's RawContent fallback being
	// skipped. It never affects plain CommonMark input.
	Strict bool

	// MaxNesting overrides the container recursion bound.
	// Zero means the default; negative values are invalid.
	MaxNesting int

	// Logger, when non-nil, receives debug-level traces from the
	// incremental re-parser (fast path vs. fallback decisions) and the
	// block parser. Nil keeps the engine silent.
	Logger *log.Logger
}

// Validate reports whether the configuration is usable.
func (c Config) Validate() error {
	if c.MaxNesting < 0 {
		return fmt.Errorf("%w: MaxNesting %d is negative", ErrInvalidConfig, c.MaxNesting)
	}
	if c.Strict && c.Directives == nil && c.Roles == nil {
		return fmt.Errorf("%w: Strict set without a directive or role registry", ErrInvalidConfig)
	}
	return nil
}

func (c Config) maxNesting() int {
	if c.MaxNesting > 0 {
		return c.MaxNesting
	}
	return defaultMaxNesting
}

func (c Config) debugf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Debugf(format, args...)
	}
}

// A Parser converts Markdown source into Documents.
// A Parser is immutable and safe for concurrent use; each Parse call
// works on its own state.
type Parser struct {
	config Config
}

// NewParser validates the configuration and returns a Parser.
func NewParser(config Config) (*Parser, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Parser{config: config}, nil
}

// Config returns the parser's configuration.
func (p *Parser) Config() Config {
	return p.config
}

// Parse converts source into a Document.
//
// Markdown has no invalid input: every byte sequence yields some tree,
// with malformed constructs degrading to literal text. Parse therefore
// never fails.
func (p *Parser) Parse(source []byte) *Document {
	return p.ParseNamed(source, "")
}

// ParseNamed is Parse with a source file identifier that is recorded in
// every node location.
func (p *Parser) ParseNamed(source []byte, file string) *Document {
	src := NewSourceBuffer(source, file)
	return parseDocument(src, p.config)
}

// Parse converts source into a Document using the default
// configuration (strict CommonMark, no extensions).
func Parse(source []byte) *Document {
	return defaultParser.Parse(source)
}

var defaultParser = &Parser{}
