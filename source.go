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

import "bytes"

// A SourceBuffer is a read-only view over the input text.
// It is the single source of truth for all byte offsets in tokens and
// AST locations. The buffer is never modified after construction, so it
// may be shared freely across goroutines and across Documents.
type SourceBuffer struct {
	b    []byte
	file string
}

// NewSourceBuffer wraps source in a SourceBuffer.
// Any NUL bytes are replaced with the Unicode replacement character,
// per the CommonMark insecure-characters rule. The file identifier is
// optional and appears in node locations.
func NewSourceBuffer(source []byte, file string) *SourceBuffer {
	if bytes.IndexByte(source, 0) >= 0 {
		source = bytes.ReplaceAll(source, []byte{0}, []byte("�"))
	}
	return &SourceBuffer{b: source, file: file}
}

// Bytes returns the underlying text.
// Callers must not modify the returned slice.
func (sb *SourceBuffer) Bytes() []byte {
	if sb == nil {
		return nil
	}
	return sb.b
}

// Len returns the length of the source in bytes.
func (sb *SourceBuffer) Len() int {
	if sb == nil {
		return 0
	}
	return len(sb.b)
}

// File returns the source file identifier, if any.
func (sb *SourceBuffer) File() string {
	if sb == nil {
		return ""
	}
	return sb.file
}

// Slice returns source[start:end] without copying.
// Callers must not modify the returned slice.
func (sb *SourceBuffer) Slice(start, end int) []byte {
	return sb.b[start:end]
}
