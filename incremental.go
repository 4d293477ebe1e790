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
	"bytes"
	"errors"
	"fmt"
)

// ErrInvalidEdit is wrapped by every edit validation error from Reparse.
var ErrInvalidEdit = errors.New("markdown: invalid edit")

// Reparse re-parses a document after a single edit that replaced the
// bytes [editStart, editEnd) of the previous source with newLen bytes,
// producing newSource.
//
// The result is always semantically identical to a full parse of
// newSource. When the edit is contained in a run of simple top-level
// blocks, only the affected window is re-parsed and the surrounding
// blocks are spliced back: blocks before the window are reused as-is,
// and blocks after it are reused via shallow copies whose top-level
// locations are shifted by the edit delta while their children are
// shared by reference. Any structural risk (lists, setext headings,
// tables, fences or raw HTML in the window, or link reference and
// footnote definitions anywhere) falls back to a full parse.
func (p *Parser) Reparse(previous *Document, newSource []byte, editStart, editEnd, newLen int) (*Document, error) {
	if previous == nil {
		return nil, fmt.Errorf("%w: previous document is nil", ErrInvalidEdit)
	}
	prevSrc := previous.Source()
	if prevSrc == nil {
		// Deserialized documents carry no buffer to diff against.
		p.config.debugf("reparse: no previous source, full parse")
		return p.ParseNamed(newSource, previous.Loc.File), nil
	}
	oldLen := prevSrc.Len()
	delta := newLen - (editEnd - editStart)
	switch {
	case editStart < 0 || editEnd < editStart || editEnd > oldLen:
		return nil, fmt.Errorf("%w: edit range [%d, %d) outside source of %d bytes", ErrInvalidEdit, editStart, editEnd, oldLen)
	case newLen < 0:
		return nil, fmt.Errorf("%w: negative replacement length %d", ErrInvalidEdit, newLen)
	case len(newSource) != oldLen+delta:
		return nil, fmt.Errorf("%w: new source is %d bytes, edit implies %d", ErrInvalidEdit, len(newSource), oldLen+delta)
	}

	doc, reason := p.tryIncremental(previous, prevSrc, newSource, editStart, editEnd, delta)
	if doc != nil {
		p.config.debugf("reparse: incremental, edit [%d, %d) delta %d", editStart, editEnd, delta)
		return doc, nil
	}
	p.config.debugf("reparse: full parse (%s)", reason)
	return p.ParseNamed(newSource, prevSrc.File()), nil
}

// tryIncremental attempts the fast path. A nil document means the
// caller must run a full parse; reason says why.
func (p *Parser) tryIncremental(previous *Document, prevSrc *SourceBuffer, newSource []byte, editStart, editEnd, delta int) (*Document, string) {
	if hasDefinitions(previous.Children) {
		return nil, "document has link reference or footnote definitions"
	}

	// Map the edit onto a window of top-level blocks, expanded by one
	// block on each side.
	first, last := -1, -1
	for i, b := range previous.Children {
		loc := b.Location()
		if loc.EndOffset >= editStart && loc.Offset <= editEnd {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		// The edit fell between blocks (or in trailing blank space);
		// anchor the window on the nearest following block.
		for i, b := range previous.Children {
			if b.Location().EndOffset >= editStart {
				first, last = i, i
				break
			}
		}
	}
	if first < 0 && len(previous.Children) > 0 {
		first = len(previous.Children) - 1
		last = first
	}
	if first > 0 {
		first--
	}
	if last >= 0 && last < len(previous.Children)-1 {
		last++
	}

	for i := first; i >= 0 && i <= last; i++ {
		if risky, kind := riskyBlock(previous.Children[i]); risky {
			return nil, "window touches " + kind
		}
	}

	winStart := 0
	if first >= 0 {
		winStart = previous.Children[first].Location().Offset
	}
	if winStart > editStart {
		winStart = editStart
	}
	winEndOld := len(newSource) - delta
	if last >= 0 && last < len(previous.Children)-1 {
		winEndOld = previous.Children[last].Location().EndOffset
	}
	winEndNew := winEndOld + delta
	if winEndNew > len(newSource) {
		winEndNew = len(newSource)
	}
	// Snap the window to line boundaries.
	winStart = lineStartBefore(newSource, winStart)
	winEndNew = lineEndAfter(newSource, winEndNew)

	baseLine := 1 + bytes.Count(newSource[:winStart], []byte("\n"))
	newSrc := NewSourceBuffer(newSource, prevSrc.File())
	reparsed := parseSubRegion(newSrc, winStart, winEndNew, baseLine, p.config, previous.References)

	for _, b := range reparsed {
		if risky, kind := riskyBlock(b); risky {
			return nil, "re-parsed window produced " + kind
		}
	}
	if hasDefinitions(reparsed) {
		return nil, "re-parsed window produced definitions"
	}
	// A trailing paragraph could lazily absorb the first kept block
	// unless a blank line separates them.
	if last >= 0 && last < len(previous.Children)-1 && len(reparsed) > 0 {
		if _, ok := reparsed[len(reparsed)-1].(*Paragraph); ok {
			keptStart := previous.Children[last+1].Location().Offset + delta
			if !hasBlankLineBetween(newSource, winEndNew, keptStart) {
				return nil, "window ends in an open paragraph"
			}
		}
	}

	newLines := bytes.Count(newSource[editStart:editEnd+delta], []byte("\n"))
	oldLines := bytes.Count(prevSrc.Bytes()[editStart:editEnd], []byte("\n"))

	children := make([]Block, 0, len(previous.Children))
	if first > 0 {
		children = append(children, previous.Children[:first]...)
	}
	children = append(children, reparsed...)
	if last >= 0 {
		for _, b := range previous.Children[last+1:] {
			children = append(children, shiftBlock(b, delta, newLines-oldLines))
		}
	}

	return &Document{
		Loc: SourceLocation{
			Line:      1,
			Column:    1,
			Offset:    0,
			EndOffset: newSrc.Len(),
			File:      newSrc.File(),
		},
		Children:   children,
		References: previous.References,
		source:     newSrc,
	}, ""
}

// riskyBlock reports block kinds whose extent can change through edits
// far away from their own span. These always force a full parse.
func riskyBlock(b Block) (bool, string) {
	switch b := b.(type) {
	case *List:
		return true, "a list"
	case *Table:
		return true, "a table"
	case *HTMLBlock:
		return true, "an HTML block"
	case *FencedCode:
		return true, "a fenced code block"
	case *MathBlock:
		return true, "a math block"
	case *Directive:
		return true, "a directive"
	case *Heading:
		if b.Style == SetextHeading {
			return true, "a setext heading"
		}
	}
	return false, ""
}

func hasDefinitions(blocks []Block) bool {
	for _, b := range blocks {
		switch b.(type) {
		case *LinkReferenceDef, *FootnoteDef:
			return true
		}
		if hasDefinitions(BlockChildren(b)) {
			return true
		}
	}
	return false
}

func lineStartBefore(src []byte, at int) int {
	if at > len(src) {
		at = len(src)
	}
	if i := bytes.LastIndexByte(src[:at], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

func lineEndAfter(src []byte, at int) int {
	if at >= len(src) {
		return len(src)
	}
	if i := bytes.IndexByte(src[at:], '\n'); i >= 0 {
		return at + i + 1
	}
	return len(src)
}

func hasBlankLineBetween(src []byte, from, to int) bool {
	if from > to || to > len(src) {
		return false
	}
	for _, line := range bytes.Split(src[from:to], []byte("\n")) {
		if len(bytes.TrimSpace(line)) == 0 {
			return true
		}
	}
	return false
}

// shiftBlock returns a shallow copy of a reused block with its own
// location (and, for fenced code, its content offsets) shifted by the
// edit delta. Children are shared by reference with the previous tree,
// which preserves node identity for consumers holding pointers into
// the unchanged region; their recorded locations keep the previous
// coordinates.
func shiftBlock(b Block, delta, lineDelta int) Block {
	switch b := b.(type) {
	case *Heading:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		return &c
	case *Paragraph:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		return &c
	case *FencedCode:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		if !c.HasOverride {
			c.SourceStart += delta
			c.SourceEnd += delta
		}
		return &c
	case *IndentedCode:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		return &c
	case *BlockQuote:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		return &c
	case *List:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		return &c
	case *ListItem:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		return &c
	case *ThematicBreak:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		return &c
	case *HTMLBlock:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		return &c
	case *LinkReferenceDef:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		return &c
	case *Table:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		return &c
	case *MathBlock:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		return &c
	case *FootnoteDef:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		return &c
	case *Directive:
		c := *b
		c.Loc = c.Loc.shift(delta, lineDelta)
		return &c
	default:
		return b
	}
}
