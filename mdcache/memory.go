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
	"sync"

	"zarza.dev/go/markdown"
)

// MemoryCache is an in-process Cache holding parsed documents by
// reference. Documents are immutable, so handing the same tree to
// every caller is safe.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[Key]*markdown.Document
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[Key]*markdown.Document)}
}

// Get implements Cache.
func (c *MemoryCache) Get(key Key) (*markdown.Document, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.entries[key]
	return doc, ok, nil
}

// Put implements Cache. The source is not retained: the document
// already references its own buffer.
func (c *MemoryCache) Put(key Key, _ []byte, doc *markdown.Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = doc
	return nil
}

// Len returns the number of cached documents.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
