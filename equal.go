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

// Equal reports whether two nodes have equal structure and content.
//
// Source locations do not participate: a paragraph whose byte offsets
// were shifted by an edit earlier in the document is still equal to its
// pre-edit self. Pointer-identical nodes compare equal without
// descending, which is what makes whole-subtree short circuits O(1)
// when trees share structure after an incremental re-parse.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	switch a := a.(type) {
	case *Document:
		b, ok := b.(*Document)
		return ok && equalBlocks(a.Children, b.Children)
	case *Heading:
		b, ok := b.(*Heading)
		return ok && a.Level == b.Level && a.Style == b.Style &&
			a.ExplicitID == b.ExplicitID && equalInlines(a.Children, b.Children)
	case *Paragraph:
		b, ok := b.(*Paragraph)
		return ok && equalInlines(a.Children, b.Children)
	case *FencedCode:
		b, ok := b.(*FencedCode)
		// Without an override the content lives in the SourceBuffer, so
		// the offsets are the content identity. An incremental re-parse
		// shifts them alongside the node's location, keeping reused
		// fences equal to their full-parse counterparts.
		return ok && a.Info == b.Info && a.Marker == b.Marker &&
			a.FenceIndent == b.FenceIndent &&
			a.SourceStart == b.SourceStart && a.SourceEnd == b.SourceEnd &&
			a.HasOverride == b.HasOverride && a.Override == b.Override
	case *IndentedCode:
		b, ok := b.(*IndentedCode)
		return ok && a.Code == b.Code
	case *BlockQuote:
		b, ok := b.(*BlockQuote)
		return ok && equalBlocks(a.Children, b.Children)
	case *List:
		b, ok := b.(*List)
		if !ok || a.Ordered != b.Ordered || a.Start != b.Start || a.Tight != b.Tight || len(a.Items) != len(b.Items) {
			return false
		}
		for i := range a.Items {
			if !Equal(a.Items[i], b.Items[i]) {
				return false
			}
		}
		return true
	case *ListItem:
		b, ok := b.(*ListItem)
		return ok && a.Checked == b.Checked && equalBlocks(a.Children, b.Children)
	case *ThematicBreak:
		_, ok := b.(*ThematicBreak)
		return ok
	case *HTMLBlock:
		b, ok := b.(*HTMLBlock)
		return ok && a.HTML == b.HTML
	case *LinkReferenceDef:
		b, ok := b.(*LinkReferenceDef)
		return ok && a.Label == b.Label && a.Destination == b.Destination &&
			a.Title == b.Title && a.HasTitle == b.HasTitle
	case *Table:
		b, ok := b.(*Table)
		if !ok || !Equal(orNilRow(a.Head), orNilRow(b.Head)) || len(a.Body) != len(b.Body) || len(a.Alignments) != len(b.Alignments) {
			return false
		}
		for i := range a.Alignments {
			if a.Alignments[i] != b.Alignments[i] {
				return false
			}
		}
		for i := range a.Body {
			if !Equal(a.Body[i], b.Body[i]) {
				return false
			}
		}
		return true
	case *TableRow:
		b, ok := b.(*TableRow)
		if !ok || a.IsHeader != b.IsHeader || len(a.Cells) != len(b.Cells) {
			return false
		}
		for i := range a.Cells {
			if !Equal(a.Cells[i], b.Cells[i]) {
				return false
			}
		}
		return true
	case *TableCell:
		b, ok := b.(*TableCell)
		return ok && a.IsHeader == b.IsHeader && a.Align == b.Align && equalInlines(a.Children, b.Children)
	case *MathBlock:
		b, ok := b.(*MathBlock)
		return ok && a.Content == b.Content
	case *FootnoteDef:
		b, ok := b.(*FootnoteDef)
		return ok && a.Identifier == b.Identifier && equalBlocks(a.Children, b.Children)
	case *Directive:
		b, ok := b.(*Directive)
		if !ok || a.Name != b.Name || a.Title != b.Title || a.RawContent != b.RawContent ||
			len(a.Options) != len(b.Options) || !equalBlocks(a.Children, b.Children) {
			return false
		}
		for k, v := range a.Options {
			if bv, present := b.Options[k]; !present || bv != v {
				return false
			}
		}
		return true

	case *Text:
		b, ok := b.(*Text)
		return ok && a.Content == b.Content
	case *Emphasis:
		b, ok := b.(*Emphasis)
		return ok && equalInlines(a.Children, b.Children)
	case *Strong:
		b, ok := b.(*Strong)
		return ok && equalInlines(a.Children, b.Children)
	case *Strikethrough:
		b, ok := b.(*Strikethrough)
		return ok && equalInlines(a.Children, b.Children)
	case *CodeSpan:
		b, ok := b.(*CodeSpan)
		return ok && a.Code == b.Code
	case *Link:
		b, ok := b.(*Link)
		return ok && a.URL == b.URL && a.Title == b.Title &&
			a.TitlePresent == b.TitlePresent && equalInlines(a.Children, b.Children)
	case *Image:
		b, ok := b.(*Image)
		return ok && a.URL == b.URL && a.Alt == b.Alt &&
			a.Title == b.Title && a.TitlePresent == b.TitlePresent
	case *SoftBreak:
		_, ok := b.(*SoftBreak)
		return ok
	case *HardBreak:
		_, ok := b.(*HardBreak)
		return ok
	case *HTMLInline:
		b, ok := b.(*HTMLInline)
		return ok && a.HTML == b.HTML
	case *Math:
		b, ok := b.(*Math)
		return ok && a.Content == b.Content
	case *FootnoteRef:
		b, ok := b.(*FootnoteRef)
		return ok && a.Identifier == b.Identifier
	case *Role:
		b, ok := b.(*Role)
		return ok && a.Name == b.Name && a.Content == b.Content && a.Target == b.Target
	default:
		return false
	}
}

func equalBlocks(a, b []Block) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalInlines(a, b []Inline) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// orNilRow keeps a typed nil from sneaking into a Node interface.
func orNilRow(r *TableRow) Node {
	if r == nil {
		return nil
	}
	return r
}
