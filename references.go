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
	"strings"

	"golang.org/x/text/cases"
)

// LinkDefinition is the data of a link reference definition.
type LinkDefinition struct {
	Destination  string
	Title        string
	TitlePresent bool
}

// ReferenceMap maps normalized labels to link definitions.
// One ReferenceMap is built per document and shared by reference with
// every sub-parse, so forward references inside nested content resolve
// against definitions found anywhere in the document.
type ReferenceMap map[string]LinkDefinition

// MatchReference reports whether the normalized label is defined.
func (m ReferenceMap) MatchReference(normalizedLabel string) (LinkDefinition, bool) {
	def, ok := m[normalizedLabel]
	return def, ok
}

// add records a definition unless the label is already taken;
// the first definition in source order wins.
func (m ReferenceMap) add(label string, def LinkDefinition) {
	if label == "" {
		return
	}
	if _, exists := m[label]; exists {
		return
	}
	m[label] = def
}

var labelFolder = cases.Fold()

// NormalizeLabel performs the CommonMark "matches" normalization:
// strip, collapse internal whitespace runs to a single space, and
// Unicode case fold.
func NormalizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(label))
	inSpace := false
	for _, r := range label {
		switch r {
		case ' ', '\t', '\n', '\r':
			inSpace = true
		default:
			if inSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			inSpace = false
			b.WriteRune(r)
		}
	}
	return labelFolder.String(b.String())
}
