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
	"fmt"

	bolt "go.etcd.io/bbolt"

	"zarza.dev/go/markdown"
)

var (
	astBucket    = []byte("ast")
	sourceBucket = []byte("source")
	fileBucket   = []byte("file")
)

// BoltCache persists serialized parse trees in a bbolt database.
// Each entry stores the JSON tree, the source text and the file name,
// so a hit reconstructs a document whose fenced code content resolves
// without re-parsing.
type BoltCache struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) a cache database at path.
func OpenBolt(path string) (*BoltCache, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open markdown cache: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{astBucket, sourceBucket, fileBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open markdown cache: %w", err)
	}
	return &BoltCache{db: db}, nil
}

// Close releases the underlying database.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

// Get implements Cache.
func (c *BoltCache) Get(key Key) (*markdown.Document, bool, error) {
	var data, source []byte
	var file string
	err := c.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(astBucket).Get(key[:]); v != nil {
			data = append([]byte(nil), v...)
		}
		if v := tx.Bucket(sourceBucket).Get(key[:]); v != nil {
			source = append([]byte(nil), v...)
		}
		if v := tx.Bucket(fileBucket).Get(key[:]); v != nil {
			file = string(v)
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("read markdown cache: %w", err)
	}
	if data == nil {
		return nil, false, nil
	}
	doc, err := markdown.RestoreDocument(data, source, file)
	if err != nil {
		return nil, false, fmt.Errorf("read markdown cache: %w", err)
	}
	return doc, true, nil
}

// Put implements Cache.
func (c *BoltCache) Put(key Key, source []byte, doc *markdown.Document) error {
	data, err := markdown.ToJSON(doc)
	if err != nil {
		return fmt.Errorf("write markdown cache: %w", err)
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(astBucket).Put(key[:], data); err != nil {
			return err
		}
		if err := tx.Bucket(sourceBucket).Put(key[:], source); err != nil {
			return err
		}
		return tx.Bucket(fileBucket).Put(key[:], []byte(doc.Loc.File))
	})
	if err != nil {
		return fmt.Errorf("write markdown cache: %w", err)
	}
	return nil
}
