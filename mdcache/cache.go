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

// Package mdcache provides content-addressed caching of parsed
// Markdown documents.
//
// Cache keys are derived from the source text and the parser
// configuration, so the same text parsed under different extension
// sets never collides. An in-memory cache serves repeated parses
// within a process; the bbolt-backed cache persists serialized trees
// across processes.
package mdcache

import (
	"crypto/sha256"
	"fmt"

	"zarza.dev/go/markdown"
)

// A Key addresses one parse result: the hash of the source text
// combined with the parser configuration fingerprint.
type Key [sha256.Size]byte

func (k Key) String() string {
	return fmt.Sprintf("%x", k[:8])
}

// KeyFor computes the cache key for parsing source under config.
func KeyFor(source []byte, config markdown.Config) Key {
	h := sha256.New()
	h.Write(configFingerprint(config))
	h.Write(source)
	var k Key
	h.Sum(k[:0])
	return k
}

// configFingerprint captures every configuration field that changes
// parse output. Registries contribute only their presence: handler
// identity is not hashable, so callers using distinct registries
// should use distinct caches.
func configFingerprint(c markdown.Config) []byte {
	flag := func(b bool) byte {
		if b {
			return 1
		}
		return 0
	}
	return []byte{
		'v', '1',
		flag(c.Strikethrough),
		flag(c.Tables),
		flag(c.TaskLists),
		flag(c.Footnotes),
		flag(c.Math),
		flag(c.Directives != nil),
		flag(c.Roles != nil),
		flag(c.Strict),
		byte(c.MaxNesting), byte(c.MaxNesting >> 8),
	}
}

// A Cache stores parse results addressed by key.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached document for the key, or ok=false on a
	// miss. A miss is not an error.
	Get(key Key) (doc *markdown.Document, ok bool, err error)
	// Put stores the document under the key. source must be the exact
	// text the document was parsed from.
	Put(key Key, source []byte, doc *markdown.Document) error
}

// A Parser wraps a markdown.Parser with a Cache.
type Parser struct {
	parser *markdown.Parser
	cache  Cache
}

// NewParser returns a caching wrapper around p.
func NewParser(p *markdown.Parser, cache Cache) *Parser {
	return &Parser{parser: p, cache: cache}
}

// Parse returns the cached document for source, parsing and storing it
// on a miss. Cache read or write failures degrade to a plain parse;
// the parse result is still returned alongside the cache error.
func (p *Parser) Parse(source []byte, file string) (*markdown.Document, error) {
	key := KeyFor(source, p.parser.Config())
	doc, ok, err := p.cache.Get(key)
	if err != nil {
		return p.parser.ParseNamed(source, file), fmt.Errorf("markdown cache get %v: %w", key, err)
	}
	if ok {
		return doc, nil
	}
	doc = p.parser.ParseNamed(source, file)
	if err := p.cache.Put(key, source, doc); err != nil {
		return doc, fmt.Errorf("markdown cache put %v: %w", key, err)
	}
	return doc, nil
}
