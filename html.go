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
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/atom"
)

// An HTMLRenderer converts a parsed document into HTML.
//
// # Security considerations
//
// Markdown permits raw HTML, which can introduce Cross-Site Scripting
// (XSS) vulnerabilities when used with untrusted inputs. There are a
// few options to mitigate this risk:
//
//   - The resulting HTML can be sent through an HTML sanitizer.
//     This is highly recommended.
//   - Set IgnoreRaw to prevent inclusion of raw HTML.
//   - FilterTag can be used to prevent some tags from being used
//     while still showing the source text. For untrusted inputs, this
//     technique should be combined with sanitization.
type HTMLRenderer struct {
	// Source overrides the buffer used to resolve fenced code block
	// content. When nil, the document's own buffer is used.
	Source *SourceBuffer
	// SoftBreakBehavior determines how soft line breaks are rendered.
	SoftBreakBehavior SoftBreakBehavior
	// If IgnoreRaw is true, the renderer skips any HTML blocks or raw HTML.
	IgnoreRaw bool
	// FilterTag is a predicate function
	// that reports whether an element with the given lowercased tag name
	// should have its leading angle bracket escaped.
	// If FilterTag is nil, then no filtering will occur.
	//
	// FilterTag functions must not modify the byte slice
	// nor retain the slice after the function returns.
	FilterTag func(tag []byte) bool
}

// RenderHTML writes the document to the given writer as HTML using the
// default options for [HTMLRenderer]. It returns the first error
// encountered, if any.
func RenderHTML(w io.Writer, doc *Document) error {
	return new(HTMLRenderer).Render(w, doc)
}

// Render writes the rendered HTML of the document to w.
func (r *HTMLRenderer) Render(w io.Writer, doc *Document) error {
	buf := r.AppendDocument(nil, doc)
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("render markdown to html: %w", err)
	}
	return nil
}

// AppendDocument appends the rendered HTML of the document to dst and
// returns the resulting byte slice.
func (r *HTMLRenderer) AppendDocument(dst []byte, doc *Document) []byte {
	state := &renderState{
		HTMLRenderer: r,
		source:       r.Source,
		dst:          dst,
	}
	if state.source == nil {
		state.source = doc.Source()
	}
	for _, b := range doc.Children {
		state.block(b)
	}
	return state.dst
}

// AppendBlock appends the rendered HTML of one block to dst and
// returns the resulting byte slice.
func (r *HTMLRenderer) AppendBlock(dst []byte, block Block) []byte {
	state := &renderState{
		HTMLRenderer: r,
		source:       r.Source,
		dst:          dst,
	}
	state.block(block)
	return state.dst
}

type renderState struct {
	*HTMLRenderer
	source   *SourceBuffer
	dst      []byte
	lowerBuf []byte
}

func (r *renderState) openTagAttr(name atom.Atom) {
	start := len(r.dst)
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, name.String()...)
	if r.FilterTag != nil && r.FilterTag(r.dst[start+1:]) {
		r.dst = r.dst[:start]
		r.dst = append(r.dst, "&lt;"...)
		r.dst = append(r.dst, name.String()...)
	}
}

func (r *renderState) openTag(name atom.Atom) {
	r.openTagAttr(name)
	r.dst = append(r.dst, '>')
}

func (r *renderState) closeTag(name atom.Atom) {
	start := len(r.dst)
	r.dst = append(r.dst, "</"...)
	r.dst = append(r.dst, name.String()...)
	if r.FilterTag != nil && r.FilterTag(r.dst[start+2:]) {
		r.dst = r.dst[:start]
		r.dst = append(r.dst, "&lt;/"...)
		r.dst = append(r.dst, name.String()...)
	}
	r.dst = append(r.dst, '>')
}

func (r *renderState) block(block Block) {
	switch b := block.(type) {
	case *Paragraph:
		r.openTag(atom.P)
		r.inlines(b.Children)
		r.closeTag(atom.P)
		r.newline()
	case *ThematicBreak:
		r.openTag(atom.Hr)
		r.newline()
	case *Heading:
		var tagName atom.Atom
		switch b.Level {
		case 1:
			tagName = atom.H1
		case 2:
			tagName = atom.H2
		case 3:
			tagName = atom.H3
		case 4:
			tagName = atom.H4
		case 5:
			tagName = atom.H5
		default:
			tagName = atom.H6
		}
		r.openTagAttr(tagName)
		if b.ExplicitID != "" {
			r.dst = append(r.dst, ` id="`...)
			r.dst = escapeHTML(r.dst, []byte(b.ExplicitID))
			r.dst = append(r.dst, '"')
		}
		r.dst = append(r.dst, '>')
		r.inlines(b.Children)
		r.closeTag(tagName)
		r.newline()
	case *FencedCode:
		r.openTag(atom.Pre)
		r.openTagAttr(atom.Code)
		if words := strings.Fields(b.Info); len(words) > 0 {
			r.dst = append(r.dst, ` class="language-`...)
			r.dst = escapeHTML(r.dst, []byte(words[0]))
			r.dst = append(r.dst, '"')
		}
		r.dst = append(r.dst, '>')
		r.dst = escapeHTML(r.dst, []byte(b.Code(r.source)))
		r.closeTag(atom.Code)
		r.closeTag(atom.Pre)
		r.newline()
	case *IndentedCode:
		r.openTag(atom.Pre)
		r.openTag(atom.Code)
		r.dst = escapeHTML(r.dst, []byte(b.Code))
		r.closeTag(atom.Code)
		r.closeTag(atom.Pre)
		r.newline()
	case *BlockQuote:
		r.openTag(atom.Blockquote)
		r.newline()
		for _, c := range b.Children {
			r.block(c)
		}
		r.closeTag(atom.Blockquote)
		r.newline()
	case *List:
		var tagName atom.Atom
		if b.Ordered {
			tagName = atom.Ol
			r.openTagAttr(tagName)
			if b.Start != 1 {
				r.dst = append(r.dst, ` start="`...)
				r.dst = strconv.AppendInt(r.dst, int64(b.Start), 10)
				r.dst = append(r.dst, '"')
			}
			r.dst = append(r.dst, '>')
		} else {
			tagName = atom.Ul
			r.openTag(tagName)
		}
		r.newline()
		for _, item := range b.Items {
			r.listItem(item, b.Tight)
		}
		r.closeTag(tagName)
		r.newline()
	case *HTMLBlock:
		r.raw(b.HTML)
		r.newline()
	case *LinkReferenceDef:
		// Definitions produce no output.
	case *Table:
		r.table(b)
	case *MathBlock:
		r.dst = append(r.dst, `<div class="math">`...)
		r.dst = escapeHTML(r.dst, []byte(b.Content))
		r.closeTag(atom.Div)
		r.newline()
	case *FootnoteDef:
		r.dst = append(r.dst, `<div class="footnote" id="fn-`...)
		r.dst = escapeHTML(r.dst, []byte(b.Identifier))
		r.dst = append(r.dst, `">`...)
		r.newline()
		for _, c := range b.Children {
			r.block(c)
		}
		r.closeTag(atom.Div)
		r.newline()
	case *Directive:
		r.directive(b)
	}
}

func (r *renderState) newline() {
	r.dst = append(r.dst, '\n')
}

func (r *renderState) listItem(item *ListItem, tight bool) {
	r.openTag(atom.Li)
	if item.Checked != TaskNone {
		r.dst = append(r.dst, `<input type="checkbox" disabled=""`...)
		if item.Checked == TaskChecked {
			r.dst = append(r.dst, ` checked=""`...)
		}
		r.dst = append(r.dst, "> "...)
	}
	for _, c := range item.Children {
		if p, ok := c.(*Paragraph); ok && tight {
			r.inlines(p.Children)
			continue
		}
		r.block(c)
	}
	r.closeTag(atom.Li)
	r.newline()
}

func (r *renderState) table(t *Table) {
	r.openTag(atom.Table)
	r.newline()
	r.openTag(atom.Thead)
	r.newline()
	r.tableRow(t.Head)
	r.closeTag(atom.Thead)
	r.newline()
	if len(t.Body) > 0 {
		r.openTag(atom.Tbody)
		r.newline()
		for _, row := range t.Body {
			r.tableRow(row)
		}
		r.closeTag(atom.Tbody)
		r.newline()
	}
	r.closeTag(atom.Table)
	r.newline()
}

func (r *renderState) tableRow(row *TableRow) {
	if row == nil {
		return
	}
	r.openTag(atom.Tr)
	r.newline()
	for _, cell := range row.Cells {
		tagName := atom.Td
		if cell.IsHeader {
			tagName = atom.Th
		}
		r.openTagAttr(tagName)
		switch cell.Align {
		case AlignLeft:
			r.dst = append(r.dst, ` align="left"`...)
		case AlignCenter:
			r.dst = append(r.dst, ` align="center"`...)
		case AlignRight:
			r.dst = append(r.dst, ` align="right"`...)
		}
		r.dst = append(r.dst, '>')
		r.inlines(cell.Children)
		r.closeTag(tagName)
		r.newline()
	}
	r.closeTag(atom.Tr)
	r.newline()
}

func (r *renderState) directive(d *Directive) {
	r.dst = append(r.dst, `<div class="directive directive-`...)
	r.dst = escapeHTML(r.dst, []byte(d.Name))
	r.dst = append(r.dst, `">`...)
	r.newline()
	if d.Title != "" {
		r.dst = append(r.dst, `<p class="directive-title">`...)
		r.dst = escapeHTML(r.dst, []byte(d.Title))
		r.closeTag(atom.P)
		r.newline()
	}
	if d.RawContent != "" {
		r.openTag(atom.Pre)
		r.dst = escapeHTML(r.dst, []byte(d.RawContent))
		r.closeTag(atom.Pre)
		r.newline()
	}
	for _, c := range d.Children {
		r.block(c)
	}
	r.closeTag(atom.Div)
	r.newline()
}

func (r *renderState) inlines(inlines []Inline) {
	for _, c := range inlines {
		r.inline(c)
	}
}

func (r *renderState) inline(inline Inline) {
	switch n := inline.(type) {
	case *Text:
		r.dst = escapeHTML(r.dst, []byte(n.Content))
	case *SoftBreak:
		switch r.SoftBreakBehavior {
		case SoftBreakHarden:
			r.dst = append(r.dst, "<br>\n"...)
		case SoftBreakSpace:
			r.dst = append(r.dst, ' ')
		default:
			r.dst = append(r.dst, '\n')
		}
	case *HardBreak:
		r.dst = append(r.dst, "<br>\n"...)
	case *Emphasis:
		r.openTag(atom.Em)
		r.inlines(n.Children)
		r.closeTag(atom.Em)
	case *Strong:
		r.openTag(atom.Strong)
		r.inlines(n.Children)
		r.closeTag(atom.Strong)
	case *Strikethrough:
		r.openTag(atom.Del)
		r.inlines(n.Children)
		r.closeTag(atom.Del)
	case *CodeSpan:
		r.openTag(atom.Code)
		r.dst = escapeHTML(r.dst, []byte(n.Code))
		r.closeTag(atom.Code)
	case *Link:
		r.openTagAttr(atom.A)
		r.dst = append(r.dst, ` href="`...)
		r.dst = escapeHTML(r.dst, []byte(NormalizeURI(n.URL)))
		r.dst = append(r.dst, '"')
		if n.TitlePresent {
			r.dst = append(r.dst, ` title="`...)
			r.dst = escapeHTML(r.dst, []byte(n.Title))
			r.dst = append(r.dst, '"')
		}
		r.dst = append(r.dst, '>')
		r.inlines(n.Children)
		r.closeTag(atom.A)
	case *Image:
		r.openTagAttr(atom.Img)
		r.dst = append(r.dst, ` src="`...)
		r.dst = escapeHTML(r.dst, []byte(NormalizeURI(n.URL)))
		r.dst = append(r.dst, `" alt="`...)
		r.dst = escapeHTML(r.dst, []byte(n.Alt))
		r.dst = append(r.dst, '"')
		if n.TitlePresent {
			r.dst = append(r.dst, ` title="`...)
			r.dst = escapeHTML(r.dst, []byte(n.Title))
			r.dst = append(r.dst, '"')
		}
		r.dst = append(r.dst, '>')
	case *HTMLInline:
		r.raw(n.HTML)
	case *Math:
		r.dst = append(r.dst, `<span class="math">`...)
		r.dst = escapeHTML(r.dst, []byte(n.Content))
		r.closeTag(atom.Span)
	case *FootnoteRef:
		r.dst = append(r.dst, `<sup><a href="#fn-`...)
		r.dst = escapeHTML(r.dst, []byte(n.Identifier))
		r.dst = append(r.dst, `">`...)
		r.dst = escapeHTML(r.dst, []byte(n.Identifier))
		r.dst = append(r.dst, "</a></sup>"...)
	case *Role:
		r.dst = append(r.dst, `<span class="role role-`...)
		r.dst = escapeHTML(r.dst, []byte(n.Name))
		r.dst = append(r.dst, `">`...)
		r.dst = escapeHTML(r.dst, []byte(n.Content))
		r.closeTag(atom.Span)
	}
}

func (r *renderState) raw(rawHTML string) {
	switch {
	case r.IgnoreRaw:
	case r.FilterTag != nil:
		r.filterRaw([]byte(rawHTML))
	default:
		r.dst = append(r.dst, rawHTML...)
	}
}

const (
	htmlCommentPrefix           = "<!--"
	htmlCommentSuffix           = "-->"
	processingInstructionSuffix = "?>"
	cdataPrefix                 = "<![CDATA["
	cdataSuffix                 = "]]>"
)

// filterRaw performs the tag filtering
// described in https://github.github.com/gfm/#disallowed-raw-html-extension-.
//
// It cannot use a conventional HTML parser,
// since raw HTML in Markdown may be incomplete or start in the middle of a tag.
func (r *renderState) filterRaw(rawHTML []byte) {
	const (
		copyState = iota
		commentState
		piState
		declState
		cdataState
	)
	state := copyState
	copyStart := 0
	for i := 0; i < len(rawHTML); {
		switch state {
		case copyState:
			if rawHTML[i] == '<' {
				switch {
				case hasBytePrefix(rawHTML[i:], cdataPrefix):
					state = cdataState
					i += len(cdataPrefix)
				case hasBytePrefix(rawHTML[i:], htmlCommentPrefix):
					state = commentState
					i += len(htmlCommentPrefix)
				case hasBytePrefix(rawHTML[i:], "<?"):
					state = piState
					i += len("<?")
				case hasHTMLDeclarationPrefix(rawHTML[i:]):
					state = declState
					i += len("<!x")
				default:
					tagNameStart := i + 1
					tagEnd := len(rawHTML)
					if j := bytes.IndexByte(rawHTML[tagNameStart:], '>'); j >= 0 {
						tagEnd = tagNameStart + j + len(">")
					}
					tagNameEnd := tagNameStart + htmlTagNameEnd(rawHTML[tagNameStart:tagEnd])
					nameStart := tagNameStart
					if nameStart < tagNameEnd && rawHTML[nameStart] == '/' {
						nameStart++
					}
					tagName := maybeLower(rawHTML[nameStart:tagNameEnd], &r.lowerBuf)
					if r.FilterTag(tagName) {
						r.dst = append(r.dst, rawHTML[copyStart:i]...)
						r.dst = append(r.dst, "&lt;"...)
						r.dst = append(r.dst, rawHTML[tagNameStart:tagEnd]...)
						copyStart = tagEnd
					}
					i = tagEnd
				}
			} else {
				i++
			}
		case commentState:
			if hasBytePrefix(rawHTML[i:], htmlCommentSuffix) {
				state = copyState
				i += len(htmlCommentSuffix)
			} else {
				i++
			}
		case piState:
			if hasBytePrefix(rawHTML[i:], processingInstructionSuffix) {
				state = copyState
				i += len(processingInstructionSuffix)
			} else {
				i++
			}
		case declState:
			if rawHTML[i] == '>' {
				state = copyState
			}
			i++
		case cdataState:
			if hasBytePrefix(rawHTML[i:], cdataSuffix) {
				state = copyState
				i += len(cdataSuffix)
			} else {
				i++
			}
		default:
			panic("unreachable")
		}
	}

	r.dst = append(r.dst, rawHTML[copyStart:]...)
}

func hasBytePrefix(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == prefix
}

func hasHTMLDeclarationPrefix(b []byte) bool {
	return len(b) >= 3 && b[0] == '<' && b[1] == '!' && isASCIILetter(b[2])
}

func htmlTagNameEnd(b []byte) int {
	i := 0
	if i < len(b) && b[i] == '/' {
		i++
	}
	start := i
	for i < len(b) && (isASCIILetter(b[i]) || isASCIIDigit(b[i]) || b[i] == '-') {
		i++
	}
	if i == start {
		return 0
	}
	return i
}

// escapeHTML appends the HTML-escaped version of a byte slice to another byte slice.
func escapeHTML(dst []byte, src []byte) []byte {
	verbatimStart := 0
	for i, b := range src {
		switch b {
		case '&':
			dst = append(dst, src[verbatimStart:i]...)
			dst = append(dst, "&amp;"...)
			verbatimStart = i + 1
		case '\'':
			dst = append(dst, src[verbatimStart:i]...)
			// "&#39;" is shorter than "&apos;" and apos was not in HTML until HTML5.
			dst = append(dst, "&#39;"...)
			verbatimStart = i + 1
		case '<':
			dst = append(dst, src[verbatimStart:i]...)
			dst = append(dst, "&lt;"...)
			verbatimStart = i + 1
		case '>':
			dst = append(dst, src[verbatimStart:i]...)
			dst = append(dst, "&gt;"...)
			verbatimStart = i + 1
		case '"':
			dst = append(dst, src[verbatimStart:i]...)
			dst = append(dst, "&quot;"...)
			verbatimStart = i + 1
		}
	}
	if verbatimStart < len(src) {
		dst = append(dst, src[verbatimStart:]...)
	}
	return dst
}

func maybeLower(x []byte, buf *[]byte) []byte {
	hasUpper := false
	for _, b := range x {
		if 'A' <= b && b <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return x
	}

	*buf = (*buf)[:0]
	for _, b := range x {
		if 'A' <= b && b <= 'Z' {
			*buf = append(*buf, b-'A'+'a')
		} else {
			*buf = append(*buf, b)
		}
	}
	return *buf
}

// FilterTagGFM performs the same tag filtering as the
// GitHub Flavored Markdown [tagfilter extension].
// It is suitable for use as the FilterTag field in [HTMLRenderer].
//
// [tagfilter extension]: https://github.github.com/gfm/#disallowed-raw-html-extension-
func FilterTagGFM(tag []byte) bool {
	tagAtom := atom.Lookup(tag)
	return tagAtom == atom.Title ||
		tagAtom == atom.Textarea ||
		tagAtom == atom.Style ||
		tagAtom == atom.Xmp ||
		tagAtom == atom.Iframe ||
		tagAtom == atom.Noembed ||
		tagAtom == atom.Noframes ||
		tagAtom == atom.Script ||
		tagAtom == atom.Plaintext
}

// SoftBreakBehavior is an enumeration of rendering styles for soft
// line breaks.
type SoftBreakBehavior int

const (
	// SoftBreakPreserve indicates that a soft line break should be rendered as-is.
	SoftBreakPreserve SoftBreakBehavior = iota
	// SoftBreakSpace indicates that a soft line break should be rendered as a space.
	SoftBreakSpace
	// SoftBreakHarden indicates that a soft line break should be rendered as a hard line break.
	SoftBreakHarden
)

func (s SoftBreakBehavior) String() string {
	switch s {
	case SoftBreakPreserve:
		return "SoftBreakPreserve"
	case SoftBreakSpace:
		return "SoftBreakSpace"
	case SoftBreakHarden:
		return "SoftBreakHarden"
	}
	return "SoftBreakBehavior(" + strconv.Itoa(int(s)) + ")"
}

// NormalizeURI percent-encodes any characters in a string
// that are not reserved or unreserved URI characters.
// This is commonly used for transforming Markdown link destinations
// into strings suitable for href or src attributes.
func NormalizeURI(s string) string {
	// RFC 3986 reserved and unreserved characters.
	const safeSet = `;/?:@&=+$,-_.!~*'()#`

	sb := new(strings.Builder)
	sb.Grow(len(s))
	skip := 0
	var buf [utf8.UTFMax]byte
	for i, c := range s {
		if skip > 0 {
			skip--
			sb.WriteRune(c)
			continue
		}
		switch {
		case c == '%':
			if i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
				skip = 2
				sb.WriteByte('%')
			} else {
				sb.WriteString("%25")
			}
		case 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9' || strings.ContainsRune(safeSet, c):
			sb.WriteRune(c)
		default:
			n := utf8.EncodeRune(buf[:], c)
			for _, b := range buf[:n] {
				sb.WriteByte('%')
				sb.WriteByte(urlHexDigit(b >> 4))
				sb.WriteByte(urlHexDigit(b & 0x0f))
			}
		}
	}
	return sb.String()
}

func isHex(c byte) bool {
	return 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F' || '0' <= c && c <= '9'
}

func urlHexDigit(x byte) byte {
	switch {
	case x < 0xa:
		return '0' + x
	case x < 0x10:
		return 'A' + x - 0xa
	default:
		panic("out of bounds")
	}
}
