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

import "fmt"

// SourceLocation records where a node or token came from.
// Line and Column are 1-based; Offset and EndOffset are byte offsets
// into the original source. File is an optional identifier supplied by
// the caller and is empty for anonymous input.
//
// SourceLocation values are computed eagerly at construction and never
// change afterward.
type SourceLocation struct {
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Offset    int    `json:"offset"`
	EndOffset int    `json:"endOffset"`
	File      string `json:"file,omitempty"`
}

// Len returns the number of source bytes the location spans.
func (loc SourceLocation) Len() int {
	return loc.EndOffset - loc.Offset
}

// shift returns a copy of loc with its byte offsets moved by delta and
// its line number by lineDelta.
func (loc SourceLocation) shift(delta, lineDelta int) SourceLocation {
	loc.Offset += delta
	loc.EndOffset += delta
	loc.Line += lineDelta
	return loc
}

func (loc SourceLocation) String() string {
	if loc.File == "" {
		return fmt.Sprintf("%d:%d", loc.Line, loc.Column)
	}
	return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Column)
}
