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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zarza.dev/go/markdown"
)

func TestKeyFor(t *testing.T) {
	source := []byte("# hello\n")
	base := markdown.Config{}

	assert.Equal(t, KeyFor(source, base), KeyFor(source, base),
		"same source and config must map to the same key")
	assert.NotEqual(t, KeyFor(source, base), KeyFor([]byte("# hello!\n"), base),
		"different source must map to different keys")
	assert.NotEqual(t, KeyFor(source, base), KeyFor(source, markdown.Config{Tables: true}),
		"different extensions must map to different keys")
	assert.NotEqual(t, KeyFor(source, base), KeyFor(source, markdown.Config{MaxNesting: 3}),
		"different nesting bounds must map to different keys")
	assert.NotEqual(t,
		KeyFor(source, markdown.Config{}),
		KeyFor(source, markdown.Config{Directives: markdown.DirectiveMap{}}),
		"registry presence must change the key")
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache()
	source := []byte("one\n\ntwo\n")
	key := KeyFor(source, markdown.Config{})

	_, ok, err := c.Get(key)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache must miss")

	doc := markdown.Parse(source)
	require.NoError(t, c.Put(key, source, doc))
	assert.Equal(t, 1, c.Len())

	got, ok, err := c.Get(key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, doc, got, "memory cache stores by reference")

	// Overwriting the same key does not grow the cache.
	require.NoError(t, c.Put(key, source, doc))
	assert.Equal(t, 1, c.Len())
}

func TestParserCaching(t *testing.T) {
	inner, err := markdown.NewParser(markdown.Config{Tables: true})
	require.NoError(t, err)
	cache := NewMemoryCache()
	p := NewParser(inner, cache)

	source := []byte("| a |\n| - |\n| b |\n")
	first, err := p.Parse(source, "t.md")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.Len())

	second, err := p.Parse(source, "t.md")
	require.NoError(t, err)
	assert.Same(t, first, second, "second parse must be served from cache")

	// A different source misses and adds an entry.
	_, err = p.Parse([]byte("plain\n"), "t.md")
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())
}

type failingCache struct {
	getErr error
	putErr error
}

func (c *failingCache) Get(Key) (*markdown.Document, bool, error) {
	return nil, false, c.getErr
}

func (c *failingCache) Put(Key, []byte, *markdown.Document) error {
	return c.putErr
}

func TestParserDegradesOnCacheFailure(t *testing.T) {
	inner, err := markdown.NewParser(markdown.Config{})
	require.NoError(t, err)
	getErr := errors.New("disk gone")
	putErr := errors.New("disk full")

	t.Run("GetFails", func(t *testing.T) {
		p := NewParser(inner, &failingCache{getErr: getErr})
		doc, err := p.Parse([]byte("still parsed\n"), "")
		require.NotNil(t, doc, "cache failure must still yield a parse")
		assert.ErrorIs(t, err, getErr)
		para := doc.Children[0].(*markdown.Paragraph)
		assert.Equal(t, "still parsed", markdown.PlainText(para.Children))
	})
	t.Run("PutFails", func(t *testing.T) {
		p := NewParser(inner, &failingCache{putErr: putErr})
		doc, err := p.Parse([]byte("still parsed\n"), "")
		require.NotNil(t, doc)
		assert.ErrorIs(t, err, putErr)
	})
}
