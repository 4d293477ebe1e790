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
	"html"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// parseInlineText parses a leaf block's gathered text into inlines.
func (rp *regionParser) parseInlineText(text string, base SourceLocation) []Inline {
	return parseInlines(text, base, rp.config, rp.refs)
}

// parseInlines runs the inline tokenizer and builder over one leaf
// block's text. Reference lookups go through refs, which the block
// pass has already fully populated, so forward references resolve.
func parseInlines(text string, base SourceLocation, config Config, refs ReferenceMap) []Inline {
	if text == "" {
		return nil
	}
	tz := &inlineTokenizer{src: []byte(text), config: config, refs: refs}
	tokens := tz.tokenize()
	b := &inlineBuilder{
		src:    tz.src,
		base:   base,
		config: config,
		refs:   refs,
		tokens: tokens,
	}
	b.indexLines()
	return b.build(0, len(tokens))
}

// An inlineTokenizer scans a leaf block's text left to right in a
// single pass. Code spans, autolinks, raw HTML, entities and escapes
// resolve during the scan; delimiter runs are emitted with precomputed
// flanking flags for the emphasis resolver; brackets are matched here
// so that destination lookahead happens at most once per bracket pair.
type inlineTokenizer struct {
	src    []byte
	pos    int
	config Config
	refs   ReferenceMap

	tokens    []InlineToken
	textStart int // start of the pending literal run, -1 if none
	brackets  []inlineBracket
}

type inlineBracket struct {
	token  int // index into tokens
	image  bool
	active bool
}

func (tz *inlineTokenizer) tokenize() []InlineToken {
	tz.textStart = -1
	for tz.pos < len(tz.src) {
		c := tz.src[tz.pos]
		switch c {
		case '\\':
			tz.backslash()
		case '\n':
			tz.lineEnding()
		case '`':
			tz.backticks()
		case '*', '_', '~':
			tz.delimiterRun(c)
		case '[':
			tz.openBracket(false)
		case '!':
			if tz.pos+1 < len(tz.src) && tz.src[tz.pos+1] == '[' {
				tz.openBracket(true)
			} else {
				tz.literal(1)
			}
		case ']':
			tz.closeBracket()
		case '<':
			tz.angle()
		case '&':
			tz.entity()
		case '$':
			if tz.config.Math {
				tz.mathSpan()
			} else {
				tz.literal(1)
			}
		case '{':
			if tz.config.Roles != nil {
				tz.role()
			} else {
				tz.literal(1)
			}
		default:
			tz.literal(1)
		}
	}
	tz.flushText(tz.pos)
	return tz.tokens
}

// literal extends the pending text run by n bytes.
func (tz *inlineTokenizer) literal(n int) {
	if tz.textStart < 0 {
		tz.textStart = tz.pos
	}
	tz.pos += n
}

func (tz *inlineTokenizer) flushText(end int) {
	if tz.textStart < 0 {
		return
	}
	if end > tz.textStart {
		tz.tokens = append(tz.tokens, InlineToken{
			Kind:   InlineText,
			Start:  tz.textStart,
			End:    end,
			opener: -1,
		})
	}
	tz.textStart = -1
}

func (tz *inlineTokenizer) emit(tok InlineToken) {
	tz.flushText(tz.pos)
	tok.opener = -1
	tz.tokens = append(tz.tokens, tok)
}

func (tz *inlineTokenizer) backslash() {
	if tz.pos+1 < len(tz.src) {
		next := tz.src[tz.pos+1]
		if next == '\n' {
			tz.emit(InlineToken{Kind: InlineHardBreak, Start: tz.pos, End: tz.pos + 2})
			tz.pos += 2
			tz.skipLineStart()
			return
		}
		if isASCIIPunctuation(next) {
			tz.emit(InlineToken{
				Kind:    InlineText,
				Start:   tz.pos,
				End:     tz.pos + 2,
				Literal: string(next),
			})
			tz.pos += 2
			return
		}
	}
	tz.literal(1)
}

func (tz *inlineTokenizer) lineEnding() {
	// Trailing spaces before the newline decide hard versus soft.
	start := tz.pos
	trailing := 0
	if tz.textStart >= 0 {
		for start-trailing-1 >= tz.textStart && tz.src[start-trailing-1] == ' ' {
			trailing++
		}
	}
	kind := InlineSoftBreak
	if trailing >= 2 {
		kind = InlineHardBreak
	}
	tz.flushText(start - trailing)
	tz.tokens = append(tz.tokens, InlineToken{
		Kind:   kind,
		Start:  start - trailing,
		End:    tz.pos + 1,
		opener: -1,
	})
	tz.pos++
	tz.skipLineStart()
}

// skipLineStart consumes leading whitespace of a continuation line.
func (tz *inlineTokenizer) skipLineStart() {
	for tz.pos < len(tz.src) && (tz.src[tz.pos] == ' ' || tz.src[tz.pos] == '\t') {
		tz.pos++
	}
}

// backticks resolves a code span or leaves the run as literal text.
// The closing run must have exactly the opening run's length.
func (tz *inlineTokenizer) backticks() {
	start := tz.pos
	n := runLength(tz.src, start, '`')
	i := start + n
	for i < len(tz.src) {
		if tz.src[i] != '`' {
			i++
			continue
		}
		m := runLength(tz.src, i, '`')
		if m == n {
			tz.emit(InlineToken{
				Kind:         InlineCodeSpan,
				Start:        start,
				End:          i + m,
				ContentStart: start + n,
				ContentEnd:   i,
				Literal:      normalizeCodeSpan(tz.src[start+n : i]),
			})
			tz.pos = i + m
			return
		}
		i += m
	}
	tz.literal(n)
}

func runLength(src []byte, at int, c byte) int {
	n := 0
	for at+n < len(src) && src[at+n] == c {
		n++
	}
	return n
}

// normalizeCodeSpan converts line endings to spaces and strips one
// space from each end when both are present and the content is not
// all spaces.
func normalizeCodeSpan(content []byte) string {
	s := strings.ReplaceAll(string(content), "\n", " ")
	if len(s) >= 2 && s[0] == ' ' && s[len(s)-1] == ' ' && strings.TrimSpace(s) != "" {
		s = s[1 : len(s)-1]
	}
	return s
}

// delimiterRun emits a *, _ or ~ run with flanking flags resolved.
func (tz *inlineTokenizer) delimiterRun(c byte) {
	start := tz.pos
	n := runLength(tz.src, start, c)
	if c == '~' {
		if !tz.config.Strikethrough || n != 2 {
			tz.literal(n)
			return
		}
	}

	before := runeBefore(tz.src, start)
	after := runeAfter(tz.src, start+n)
	beforeWS := isUnicodeSpace(before)
	afterWS := isUnicodeSpace(after)
	beforePunct := isUnicodePunct(before)
	afterPunct := isUnicodePunct(after)

	leftFlank := !afterWS && (!afterPunct || beforeWS || beforePunct)
	rightFlank := !beforeWS && (!beforePunct || afterWS || afterPunct)

	canOpen, canClose := leftFlank, rightFlank
	if c == '_' {
		canOpen = leftFlank && (!rightFlank || beforePunct)
		canClose = rightFlank && (!leftFlank || afterPunct)
	}

	tz.emit(InlineToken{
		Kind:     InlineDelimiterRun,
		Start:    start,
		End:      start + n,
		Delim:    c,
		Length:   n,
		CanOpen:  canOpen,
		CanClose: canClose,
	})
	tz.pos = start + n
}

func runeBefore(src []byte, at int) rune {
	if at == 0 {
		return '\n'
	}
	r, _ := utf8.DecodeLastRune(src[:at])
	return r
}

func runeAfter(src []byte, at int) rune {
	if at >= len(src) {
		return '\n'
	}
	r, _ := utf8.DecodeRune(src[at:])
	return r
}

func isUnicodeSpace(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' || unicode.IsSpace(r)
}

func isUnicodePunct(r rune) bool {
	if r < 0x80 {
		return isASCIIPunctuation(byte(r))
	}
	return unicode.IsPunct(r) || unicode.IsSymbol(r)
}

func (tz *inlineTokenizer) openBracket(image bool) {
	start := tz.pos
	kind := InlineLinkOpen
	width := 1
	if image {
		kind = InlineImageOpen
		width = 2
	} else if tz.config.Footnotes && tz.footnoteRef() {
		return
	}
	tz.emit(InlineToken{Kind: kind, Start: start, End: start + width})
	tz.brackets = append(tz.brackets, inlineBracket{
		token:  len(tz.tokens) - 1,
		image:  image,
		active: true,
	})
	tz.pos = start + width
}

// footnoteRef recognizes [^id] and emits it directly, bypassing the
// bracket stack.
func (tz *inlineTokenizer) footnoteRef() bool {
	src := tz.src[tz.pos:]
	if len(src) < 4 || src[1] != '^' {
		return false
	}
	end := bytes.IndexByte(src, ']')
	if end <= 2 {
		return false
	}
	id := src[2:end]
	if bytes.ContainsAny(id, " \t\n[") {
		return false
	}
	tz.emit(InlineToken{
		Kind:    InlineFootnoteRef,
		Start:   tz.pos,
		End:     tz.pos + end + 1,
		rawName: string(id),
	})
	tz.pos += end + 1
	return true
}

// closeBracket resolves a ] against the topmost bracket opener,
// looking ahead for an inline destination or a reference label.
// Lookahead text is consumed only when a link or image actually forms,
// and at most one destination scan happens per opener, which keeps the
// scan linear even on adversarial inputs.
func (tz *inlineTokenizer) closeBracket() {
	if len(tz.brackets) == 0 {
		tz.literal(1)
		return
	}
	br := tz.brackets[len(tz.brackets)-1]
	tz.brackets = tz.brackets[:len(tz.brackets)-1]
	if !br.active {
		// A link already formed around this opener.
		tz.literal(1)
		return
	}

	openTok := tz.tokens[br.token]
	closeStart := tz.pos

	tok := InlineToken{Kind: InlineBracketClose, Start: closeStart}
	end := closeStart + 1
	resolved := false

	if closeStart+1 < len(tz.src) && tz.src[closeStart+1] == '(' {
		if dest, title, hasTitle, next, ok := scanInlineDestination(tz.src, closeStart+2); ok {
			tok.destKind = brInline
			tok.dest = dest
			tok.title = title
			tok.hasTitle = hasTitle
			end = next
			resolved = true
		}
	}
	if !resolved && closeStart+1 < len(tz.src) && tz.src[closeStart+1] == '[' {
		if label, next, ok := scanRefLabel(tz.src, closeStart+1); ok {
			if label == "" {
				label = string(tz.src[openTok.End:closeStart])
			}
			normalized := NormalizeLabel(label)
			if _, found := tz.refs.MatchReference(normalized); found {
				tok.destKind = brReference
				tok.label = normalized
				end = next
				resolved = true
			}
		}
	}
	if !resolved {
		// Shortcut reference.
		normalized := NormalizeLabel(string(tz.src[openTok.End:closeStart]))
		if _, found := tz.refs.MatchReference(normalized); found {
			tok.destKind = brReference
			tok.label = normalized
			resolved = true
		}
	}

	if !resolved {
		tz.literal(1)
		return
	}

	tok.End = end
	tz.flushText(closeStart)
	tok.opener = br.token
	tz.tokens = append(tz.tokens, tok)
	tz.tokens[br.token].opener = len(tz.tokens) - 1
	tz.pos = end

	if !br.image {
		// Links cannot nest: deactivate enclosing link openers.
		for i := range tz.brackets {
			if !tz.brackets[i].image {
				tz.brackets[i].active = false
			}
		}
	}
}

// scanRefLabel scans [label] starting at the opening bracket.
func scanRefLabel(src []byte, at int) (label string, next int, ok bool) {
	i := at + 1
	for i < len(src) {
		switch src[i] {
		case '\\':
			i++
		case '[':
			return "", 0, false
		case ']':
			if i-at-1 > 999 {
				return "", 0, false
			}
			return string(src[at+1 : i]), i + 1, true
		}
		i++
	}
	return "", 0, false
}

// scanInlineDestination scans `dest "title")` after the opening paren
// of an inline link, returning the position one past the closing paren.
func scanInlineDestination(src []byte, at int) (dest, title string, hasTitle bool, next int, ok bool) {
	i := skipLinkWhitespace(src, at)
	dest, i, ok = scanLinkDestination(src, i)
	if !ok {
		return "", "", false, 0, false
	}
	j := skipLinkWhitespace(src, i)
	if j < len(src) && j > i {
		if t, n, ok := scanLinkTitle(src, j); ok {
			title = t
			hasTitle = true
			i = n
		}
	}
	i = skipLinkWhitespace(src, i)
	if i < len(src) && src[i] == ')' {
		return dest, title, hasTitle, i + 1, true
	}
	return "", "", false, 0, false
}

func skipLinkWhitespace(src []byte, at int) int {
	for at < len(src) && (src[at] == ' ' || src[at] == '\t' || src[at] == '\n') {
		at++
	}
	return at
}

// scanLinkDestination scans a link destination: either <...> with no
// unescaped < > or newlines, or a bare destination with balanced
// parentheses and no whitespace or control characters.
func scanLinkDestination(src []byte, at int) (dest string, next int, ok bool) {
	if at < len(src) && src[at] == '<' {
		i := at + 1
		for i < len(src) {
			switch src[i] {
			case '\\':
				i++
			case '>':
				return unescapeBytes(src[at+1 : i]), i + 1, true
			case '<', '\n':
				return "", 0, false
			}
			i++
		}
		return "", 0, false
	}
	depth := 0
	i := at
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\\' && i+1 < len(src) && isASCIIPunctuation(src[i+1]):
			i++
		case c == '(':
			depth++
			if depth > 32 {
				return "", 0, false
			}
		case c == ')':
			if depth == 0 {
				goto done
			}
			depth--
		case c <= ' ':
			goto done
		}
		i++
	}
done:
	if depth != 0 {
		return "", 0, false
	}
	return unescapeBytes(src[at:i]), i, true
}

// scanLinkTitle scans a "...", '...' or (...) title.
func scanLinkTitle(src []byte, at int) (title string, next int, ok bool) {
	if at >= len(src) {
		return "", 0, false
	}
	open := src[at]
	var close byte
	switch open {
	case '"', '\'':
		close = open
	case '(':
		close = ')'
	default:
		return "", 0, false
	}
	i := at + 1
	for i < len(src) {
		switch src[i] {
		case '\\':
			i++
		case close:
			return unescapeBytes(src[at+1 : i]), i + 1, true
		case open:
			if open == '(' {
				return "", 0, false
			}
		}
		i++
	}
	return "", 0, false
}

// unescapeBytes resolves backslash escapes and entity references.
func unescapeBytes(src []byte) string {
	return unescapeString(string(src))
}

// unescapeString resolves backslash escapes before ASCII punctuation
// and decodes HTML entity and numeric character references.
func unescapeString(s string) string {
	if !strings.ContainsAny(s, "\\&") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && isASCIIPunctuation(s[i+1]) {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		if c == '&' {
			if decoded, n, ok := decodeEntity([]byte(s[i:])); ok {
				b.WriteString(decoded)
				i += n - 1
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// decodeEntity decodes one entity or numeric character reference at
// the start of src, returning the decoded text and consumed length.
func decodeEntity(src []byte) (string, int, bool) {
	if len(src) < 3 || src[0] != '&' {
		return "", 0, false
	}
	if src[1] == '#' {
		i := 2
		hex := false
		if i < len(src) && (src[i] == 'x' || src[i] == 'X') {
			hex = true
			i++
		}
		start := i
		n := 0
		for i < len(src) && i-start < 7 {
			c := src[i]
			var d int
			switch {
			case isASCIIDigit(c):
				d = int(c - '0')
			case hex && 'a' <= c && c <= 'f':
				d = int(c-'a') + 10
			case hex && 'A' <= c && c <= 'F':
				d = int(c-'A') + 10
			default:
				goto num
			}
			if hex {
				n = n*16 + d
			} else {
				n = n*10 + d
			}
			i++
		}
	num:
		if i == start || i >= len(src) || src[i] != ';' {
			return "", 0, false
		}
		r := rune(n)
		if n == 0 || !utf8.ValidRune(r) {
			r = utf8.RuneError
		}
		return string(r), i + 1, true
	}
	// Named reference: delegate decoding to the HTML entity table.
	end := 1
	for end < len(src) && end < 33 && (isASCIILetter(src[end]) || isASCIIDigit(src[end])) {
		end++
	}
	if end >= len(src) || src[end] != ';' {
		return "", 0, false
	}
	candidate := string(src[:end+1])
	decoded := html.UnescapeString(candidate)
	if decoded == candidate {
		return "", 0, false
	}
	return decoded, end + 1, true
}

func (tz *inlineTokenizer) entity() {
	if decoded, n, ok := decodeEntity(tz.src[tz.pos:]); ok {
		tz.emit(InlineToken{
			Kind:    InlineEntity,
			Start:   tz.pos,
			End:     tz.pos + n,
			Literal: decoded,
		})
		tz.pos += n
		return
	}
	tz.literal(1)
}

// angle resolves <...> as an autolink or a raw HTML tag.
func (tz *inlineTokenizer) angle() {
	if dest, n, ok := scanAutolink(tz.src, tz.pos); ok {
		tz.emit(InlineToken{
			Kind:         InlineAutolink,
			Start:        tz.pos,
			End:          tz.pos + n,
			ContentStart: tz.pos + 1,
			ContentEnd:   tz.pos + n - 1,
			dest:         dest,
		})
		tz.pos += n
		return
	}
	if end := scanHTMLTag(tz.src, tz.pos); end > 0 {
		tz.emit(InlineToken{Kind: InlineRawHTML, Start: tz.pos, End: end})
		tz.pos = end
		return
	}
	tz.literal(1)
}

// scanAutolink recognizes <scheme:dest> and <addr@host> forms,
// returning the destination URI and total consumed length.
func scanAutolink(src []byte, at int) (dest string, n int, ok bool) {
	if at >= len(src) || src[at] != '<' {
		return "", 0, false
	}
	end := at + 1
	for end < len(src) && src[end] != '>' {
		c := src[end]
		if c == '<' || c == ' ' || c == '\t' || c == '\n' {
			return "", 0, false
		}
		end++
	}
	if end >= len(src) {
		return "", 0, false
	}
	inner := src[at+1 : end]
	if isSchemeURI(inner) {
		return string(inner), end - at + 1, true
	}
	if isEmailAddress(inner) {
		return "mailto:" + string(inner), end - at + 1, true
	}
	return "", 0, false
}

func isSchemeURI(s []byte) bool {
	colon := bytes.IndexByte(s, ':')
	if colon < 2 || colon > 32 {
		return false
	}
	if !isASCIILetter(s[0]) {
		return false
	}
	for _, c := range s[1:colon] {
		if !isASCIILetter(c) && !isASCIIDigit(c) && c != '+' && c != '.' && c != '-' {
			return false
		}
	}
	return true
}

func isEmailAddress(s []byte) bool {
	atIdx := bytes.IndexByte(s, '@')
	if atIdx < 1 || atIdx == len(s)-1 {
		return false
	}
	for _, c := range s[:atIdx] {
		if !isASCIILetter(c) && !isASCIIDigit(c) && !strings.ContainsRune(".!#$%&'*+/=?^_`{|}~-", rune(c)) {
			return false
		}
	}
	for _, part := range bytes.Split(s[atIdx+1:], []byte(".")) {
		if len(part) == 0 || len(part) > 63 {
			return false
		}
		for i, c := range part {
			if !isASCIILetter(c) && !isASCIIDigit(c) && !(c == '-' && i > 0 && i < len(part)-1) {
				return false
			}
		}
	}
	return true
}

// scanHTMLTag scans one raw HTML construct starting at the < byte:
// open and close tags, comments, processing instructions, declarations
// and CDATA sections. Returns the index one past the construct, or -1.
func scanHTMLTag(src []byte, at int) int {
	if at+1 >= len(src) || src[at] != '<' {
		return -1
	}
	rest := src[at+1:]
	switch {
	case bytes.HasPrefix(rest, []byte("!--")):
		if end := bytes.Index(rest[3:], []byte("-->")); end >= 0 {
			return at + 1 + 3 + end + 3
		}
		return -1
	case bytes.HasPrefix(rest, []byte("![CDATA[")):
		if end := bytes.Index(rest[8:], []byte("]]>")); end >= 0 {
			return at + 1 + 8 + end + 3
		}
		return -1
	case bytes.HasPrefix(rest, []byte("?")):
		if end := bytes.Index(rest[1:], []byte("?>")); end >= 0 {
			return at + 1 + 1 + end + 2
		}
		return -1
	case bytes.HasPrefix(rest, []byte("!")):
		if len(rest) < 2 || !isASCIILetter(rest[1]) {
			return -1
		}
		if end := bytes.IndexByte(rest, '>'); end >= 0 {
			return at + 1 + end + 1
		}
		return -1
	}
	return scanHTMLTagProper(src, at)
}

// scanHTMLTagProper scans an open or close tag with attributes.
func scanHTMLTagProper(src []byte, at int) int {
	i := at + 1
	closing := false
	if i < len(src) && src[i] == '/' {
		closing = true
		i++
	}
	if i >= len(src) || !isASCIILetter(src[i]) {
		return -1
	}
	for i < len(src) && (isASCIILetter(src[i]) || isASCIIDigit(src[i]) || src[i] == '-') {
		i++
	}
	if !closing {
		for {
			j := skipLinkWhitespace(src, i)
			if j == i {
				break
			}
			i = j
			j = scanHTMLAttribute(src, i)
			if j < 0 {
				break
			}
			i = j
		}
	}
	i = skipLinkWhitespace(src, i)
	if !closing && i < len(src) && src[i] == '/' {
		i++
	}
	if i < len(src) && src[i] == '>' {
		return i + 1
	}
	return -1
}

func scanHTMLAttribute(src []byte, at int) int {
	i := at
	if i >= len(src) || !(isASCIILetter(src[i]) || src[i] == '_' || src[i] == ':') {
		return -1
	}
	for i < len(src) && (isASCIILetter(src[i]) || isASCIIDigit(src[i]) ||
		src[i] == '_' || src[i] == ':' || src[i] == '.' || src[i] == '-') {
		i++
	}
	j := skipLinkWhitespace(src, i)
	if j >= len(src) || src[j] != '=' {
		return i
	}
	j = skipLinkWhitespace(src, j+1)
	if j >= len(src) {
		return -1
	}
	switch src[j] {
	case '"', '\'':
		quote := src[j]
		j++
		for j < len(src) && src[j] != quote {
			j++
		}
		if j >= len(src) {
			return -1
		}
		return j + 1
	default:
		start := j
		for j < len(src) && src[j] > ' ' && !bytes.ContainsRune([]byte("\"'=<>`"), rune(src[j])) {
			j++
		}
		if j == start {
			return -1
		}
		return j
	}
}

func (tz *inlineTokenizer) mathSpan() {
	start := tz.pos
	i := start + 1
	for i < len(tz.src) {
		switch tz.src[i] {
		case '\\':
			i++
		case '$':
			if i == start+1 {
				tz.literal(1)
				return
			}
			tz.emit(InlineToken{
				Kind:         InlineMath,
				Start:        start,
				End:          i + 1,
				ContentStart: start + 1,
				ContentEnd:   i,
				Literal:      string(tz.src[start+1 : i]),
			})
			tz.pos = i + 1
			return
		case '\n':
			tz.literal(1)
			return
		}
		i++
	}
	tz.literal(1)
}

// role recognizes {name}`content` spans.
func (tz *inlineTokenizer) role() {
	src := tz.src[tz.pos:]
	close := bytes.IndexByte(src, '}')
	if close <= 1 || close+1 >= len(src) || src[close+1] != '`' {
		tz.literal(1)
		return
	}
	name := string(src[1:close])
	for _, c := range name {
		if !(c == '-' || c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9') {
			tz.literal(1)
			return
		}
	}
	contentEnd := bytes.IndexByte(src[close+2:], '`')
	if contentEnd < 0 {
		tz.literal(1)
		return
	}
	end := close + 2 + contentEnd + 1
	tz.emit(InlineToken{
		Kind:    InlineRole,
		Start:   tz.pos,
		End:     tz.pos + end,
		rawName: name,
		Literal: string(src[close+2 : end-1]),
	})
	tz.pos += end
}

// An inlineBuilder assembles the typed inline tree from the token
// stream: matched bracket pairs recurse, delimiter runs go through the
// emphasis resolver, and adjacent text nodes merge.
type inlineBuilder struct {
	src    []byte
	base   SourceLocation
	config Config
	refs   ReferenceMap
	tokens []InlineToken

	newlines []int // offsets of newlines in src, for location mapping
}

func (b *inlineBuilder) indexLines() {
	for i, c := range b.src {
		if c == '\n' {
			b.newlines = append(b.newlines, i)
		}
	}
}

// loc maps a token's offsets within the block text to a source
// location. Offsets are exact for the block's own text; line and
// column are derived from the block's base location.
func (b *inlineBuilder) loc(start, end int) SourceLocation {
	lineIdx := sort.SearchInts(b.newlines, start)
	line := b.base.Line + lineIdx
	col := start + b.base.Column
	if lineIdx > 0 {
		col = start - b.newlines[lineIdx-1]
	}
	return SourceLocation{
		Line:      line,
		Column:    col,
		Offset:    b.base.Offset + start,
		EndOffset: b.base.Offset + end,
		File:      b.base.File,
	}
}

func (b *inlineBuilder) build(from, to int) []Inline {
	var head, tail *inlineWork
	push := func(w *inlineWork) {
		if tail == nil {
			head = w
		} else {
			tail.next = w
			w.prev = tail
		}
		tail = w
	}

	for i := from; i < to; i++ {
		tok := b.tokens[i]
		switch tok.Kind {
		case InlineText:
			content := tok.Literal
			if content == "" {
				content = string(b.src[tok.Start:tok.End])
			}
			push(&inlineWork{node: &Text{Loc: b.loc(tok.Start, tok.End), Content: content}})
		case InlineDelimiterRun:
			push(&inlineWork{
				node:      &Text{Loc: b.loc(tok.Start, tok.End), Content: string(b.src[tok.Start:tok.End])},
				delim:     tok.Delim,
				count:     tok.Length,
				origCount: tok.Length,
				canOpen:   tok.CanOpen,
				canClose:  tok.CanClose,
			})
		case InlineCodeSpan:
			push(&inlineWork{node: &CodeSpan{Loc: b.loc(tok.Start, tok.End), Code: tok.Literal}})
		case InlineAutolink:
			loc := b.loc(tok.Start, tok.End)
			label := string(b.src[tok.ContentStart:tok.ContentEnd])
			push(&inlineWork{node: &Link{
				Loc:      loc,
				URL:      tok.dest,
				Children: []Inline{&Text{Loc: b.loc(tok.ContentStart, tok.ContentEnd), Content: label}},
			}})
		case InlineRawHTML:
			push(&inlineWork{node: &HTMLInline{
				Loc:  b.loc(tok.Start, tok.End),
				HTML: string(b.src[tok.Start:tok.End]),
			}})
		case InlineHardBreak:
			push(&inlineWork{node: &HardBreak{Loc: b.loc(tok.Start, tok.End)}})
		case InlineSoftBreak:
			push(&inlineWork{node: &SoftBreak{Loc: b.loc(tok.Start, tok.End)}})
		case InlineEntity:
			push(&inlineWork{node: &Text{Loc: b.loc(tok.Start, tok.End), Content: tok.Literal}})
		case InlineMath:
			push(&inlineWork{node: &Math{Loc: b.loc(tok.Start, tok.End), Content: tok.Literal}})
		case InlineFootnoteRef:
			push(&inlineWork{node: &FootnoteRef{Loc: b.loc(tok.Start, tok.End), Identifier: tok.rawName}})
		case InlineRole:
			name, content, target := tok.rawName, tok.Literal, ""
			if open := strings.LastIndex(content, " <"); open >= 0 && strings.HasSuffix(content, ">") {
				target = content[open+2 : len(content)-1]
				content = content[:open]
			}
			push(&inlineWork{node: &Role{
				Loc:     b.loc(tok.Start, tok.End),
				Name:    name,
				Content: content,
				Target:  target,
			}})
		case InlineLinkOpen, InlineImageOpen:
			if tok.opener > i && tok.opener < to {
				close := b.tokens[tok.opener]
				children := b.build(i+1, tok.opener)
				node := b.makeLinkOrImage(tok, close, children)
				push(&inlineWork{node: node})
				i = tok.opener
				continue
			}
			push(&inlineWork{node: &Text{Loc: b.loc(tok.Start, tok.End), Content: string(b.src[tok.Start:tok.End])}})
		case InlineBracketClose:
			// Reached only when unmatched within this range.
			push(&inlineWork{node: &Text{Loc: b.loc(tok.Start, tok.End), Content: "]"}})
		}
	}

	head = processEmphasis(head)
	return collectInlines(head)
}

func (b *inlineBuilder) makeLinkOrImage(open, close InlineToken, children []Inline) Inline {
	var def LinkDefinition
	switch close.destKind {
	case brInline:
		def = LinkDefinition{Destination: close.dest, Title: close.title, TitlePresent: close.hasTitle}
	case brReference:
		def, _ = b.refsLookup(close.label)
	}
	loc := b.loc(open.Start, close.End)
	if open.Kind == InlineImageOpen {
		return &Image{
			Loc:          loc,
			URL:          def.Destination,
			Alt:          PlainText(children),
			Title:        def.Title,
			TitlePresent: def.TitlePresent,
		}
	}
	return &Link{
		Loc:          loc,
		URL:          def.Destination,
		Title:        def.Title,
		TitlePresent: def.TitlePresent,
		Children:     children,
	}
}

func (b *inlineBuilder) refsLookup(label string) (LinkDefinition, bool) {
	if b.refs == nil {
		return LinkDefinition{}, false
	}
	return b.refs.MatchReference(label)
}

// collectInlines flattens the work list, merging adjacent text nodes.
func collectInlines(head *inlineWork) []Inline {
	var out []Inline
	for w := head; w != nil; w = w.next {
		if w.node == nil {
			continue
		}
		if t, ok := w.node.(*Text); ok && len(out) > 0 {
			if prev, ok := out[len(out)-1].(*Text); ok {
				prev.Content += t.Content
				prev.Loc.EndOffset = t.Loc.EndOffset
				continue
			}
		}
		out = append(out, w.node)
	}
	return out
}
