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

// parseList gathers a run of sibling list items into one List.
// Sibling grouping derives from column alignment: a marker indented to
// at least the content column of the previous item is item content (a
// nested list), while a marker left of that starts a sibling or closes
// the list. Tightness is decided by blank lines between or inside
// items, except trailing blanks after the final item.
func (rp *regionParser) parseList(tok Token) *List {
	first := rp.tokens[rp.i]
	line := rp.lineBytes(first)
	m := parseListMarker(line[first.Column-1:], first.Indent)

	list := &List{
		Ordered: m.ordered,
		Start:   1,
	}
	if m.ordered {
		list.Start = m.start
	}

	loose := false
	last := first
	for {
		t := rp.tokens[rp.i]
		if t.Kind != TokenListItem {
			break
		}
		im := parseListMarker(rp.lineBytes(t)[t.Column-1:], t.Indent)
		if im.width == 0 || im.ordered != m.ordered || im.bullet != m.bullet {
			break
		}
		item, itemLast, interiorBlank, trailingBlank := rp.parseListItem(t, im)
		list.Items = append(list.Items, item)
		last = itemLast
		if interiorBlank {
			loose = true
		}
		if trailingBlank && rp.tokens[rp.i].Kind == TokenListItem {
			// Blank between items of the same list.
			next := parseListMarker(rp.lineBytes(rp.tokens[rp.i])[rp.tokens[rp.i].Column-1:], rp.tokens[rp.i].Indent)
			if next.width > 0 && next.ordered == m.ordered && next.bullet == m.bullet {
				loose = true
			}
		}
	}

	list.Loc = rp.spanLoc(first, last)
	list.Tight = !loose
	return list
}

// parseListItem gathers one item's lines, strips the marker column
// width, and sub-parses the body.
func (rp *regionParser) parseListItem(tok Token, m listMarker) (item *ListItem, last Token, interiorBlank, trailingBlank bool) {
	line := rp.lineBytes(tok)
	contentCol := tok.Indent + m.padding
	firstContent := line[tok.Column-1+m.width:]

	checked := TaskNone
	if rp.config.TaskLists {
		if state, rest, ok := taskMarker(firstContent); ok {
			checked = state
			firstContent = rest
		}
	}

	var stripped []byte
	stripped = append(stripped, firstContent...)
	stripped = append(stripped, '\n')
	probe := newLexer(nil, 0, 0, tok.Line, rp.config)
	probe.classifyLine(firstContent)

	last = tok
	rp.i++
	blankRun := 0
	for {
		t := rp.tokens[rp.i]
		if t.Kind == TokenEOF {
			break
		}
		if t.Kind == TokenBlankLine {
			blankRun++
			rp.i++
			continue
		}
		tline := rp.lineBytes(t)
		if t.Indent >= contentCol {
			if blankRun > 0 {
				interiorBlank = true
				for ; blankRun > 0; blankRun-- {
					stripped = append(stripped, '\n')
				}
				probe.inParagraph = false
			}
			content := stripColumns(tline, contentCol)
			probe.classifyLine(content)
			stripped = append(stripped, content...)
			stripped = append(stripped, '\n')
			last = t
			rp.i++
			continue
		}
		if blankRun == 0 && probe.continuesParagraph() && lazyKind(tline, rp.config) == TokenParagraphLine {
			probe.classifyLine(tline)
			stripped = append(stripped, tline...)
			stripped = append(stripped, '\n')
			last = t
			rp.i++
			continue
		}
		break
	}
	trailingBlank = blankRun > 0

	loc := rp.spanLoc(tok, last)
	item = &ListItem{
		Loc:      loc,
		Checked:  checked,
		Children: rp.parseStripped(stripped, tok.Line, loc.Offset),
	}
	return item, last, interiorBlank, trailingBlank
}

// taskMarker recognizes a [ ] or [x] checkbox at the start of an
// item's first line.
func taskMarker(content []byte) (TaskState, []byte, bool) {
	if len(content) < 4 || content[0] != '[' || content[2] != ']' || content[3] != ' ' {
		return TaskNone, content, false
	}
	switch content[1] {
	case ' ':
		return TaskUnchecked, content[4:], true
	case 'x', 'X':
		return TaskChecked, content[4:], true
	}
	return TaskNone, content, false
}

// stripColumns removes cols columns of leading whitespace, expanding
// tabs. A tab that overshoots is replaced by the spaces it has left.
func stripColumns(line []byte, cols int) []byte {
	col := 0
	i := 0
	for i < len(line) && col < cols {
		switch line[i] {
		case ' ':
			col++
			i++
		case '\t':
			w := tabStopSize - col%tabStopSize
			col += w
			i++
			if col > cols {
				pad := bytes.Repeat([]byte(" "), col-cols)
				return append(pad, line[i:]...)
			}
		default:
			return line[i:]
		}
	}
	return line[i:]
}
