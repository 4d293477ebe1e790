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

package mdcache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zarza.dev/go/markdown"
)

func openTestBolt(t *testing.T) *BoltCache {
	t.Helper()
	c, err := OpenBolt(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return c
}

func TestBoltCacheRoundTrip(t *testing.T) {
	c := openTestBolt(t)
	source := []byte("# title\n\n```go\ncode\n```\n")
	p, err := markdown.NewParser(markdown.Config{})
	require.NoError(t, err)
	doc := p.ParseNamed(source, "guide.md")
	key := KeyFor(source, p.Config())

	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok, "fresh database must miss")

	require.NoError(t, c.Put(key, source, doc))

	got, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, markdown.Equal(doc, got), "restored document differs from original")
	assert.Equal(t, "guide.md", got.Loc.File)

	// The restored tree re-attaches its source buffer, so fenced code
	// content is readable without a re-parse.
	fence := got.Children[1].(*markdown.FencedCode)
	assert.Equal(t, "code\n", string(fence.Code(got.Source())))
}

func TestBoltCachePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	source := []byte("persist me\n")
	doc := markdown.Parse(source)
	key := KeyFor(source, markdown.Config{})

	c, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, c.Put(key, source, doc))
	require.NoError(t, c.Close())

	c, err = OpenBolt(path)
	require.NoError(t, err)
	defer c.Close()
	got, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, markdown.Equal(doc, got))
}

func TestBoltCacheWithParser(t *testing.T) {
	c := openTestBolt(t)
	inner, err := markdown.NewParser(markdown.Config{Footnotes: true})
	require.NoError(t, err)
	p := NewParser(inner, c)

	source := []byte("body[^1]\n\n[^1]: note\n")
	first, err := p.Parse(source, "")
	require.NoError(t, err)
	second, err := p.Parse(source, "")
	require.NoError(t, err)
	assert.True(t, markdown.Equal(first, second))
	assert.NotSame(t, first, second, "bolt hits reconstruct a fresh tree")
}
