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
	"strings"
)

// tabStopSize is the multiple of columns that a tab advances to.
const tabStopSize = 4

// codeIndentLimit is the column width of an indent required to start an
// indented code block.
const codeIndentLimit = 4

// A lexer classifies one region of a SourceBuffer line by line.
// It consumes each byte at most once with single-character lookahead
// and never revisits a consumed character, which is the basis of the
// linear-time guarantee. Lexers are restartable: block and container
// sub-parses create fresh lexers over their own sub-regions.
type lexer struct {
	src    []byte
	pos    int // byte offset of the next unread line within src
	end    int // end of the region (exclusive)
	line   int // 1-based line number of the next line
	config Config

	// Paragraph continuation state for setext, indented-code and
	// lazy-continuation decisions.
	inParagraph bool

	// Open fenced code state.
	fenceMarker byte // 0 when no fence is open
	fenceLen    int
	fenceKind   TokenKind // TokenFenceStart, TokenMathFence or TokenDirectiveFence

	// Open HTML block state. htmlEnd is empty for the blank-line-ended
	// forms (types 6 and 7).
	inHTML  bool
	htmlEnd []string
}

// newLexer returns a lexer over src[start:end].
// base and baseLine map region offsets back to the original buffer.
func newLexer(src []byte, start, end, baseLine int, config Config) *lexer {
	return &lexer{
		src:    src,
		pos:    start,
		end:    end,
		line:   baseLine,
		config: config,
	}
}

// tokenize classifies the whole region.
// The returned stream always ends with a single TokenEOF.
func (lx *lexer) tokenize() []Token {
	var tokens []Token
	for lx.pos < lx.end {
		tokens = append(tokens, lx.next())
	}
	lx.atEOF()
	tokens = append(tokens, Token{
		Kind:  TokenEOF,
		Start: lx.pos,
		End:   lx.pos,
		Line:  lx.line,
	})
	return tokens
}

// next classifies the next line.
// Every line receives exactly one classification: ambiguity resolves
// through the fixed priority order below and there is no error case.
func (lx *lexer) next() Token {
	start := lx.pos
	lineEnd := start
	for lineEnd < lx.end && lx.src[lineEnd] != '\n' {
		lineEnd++
	}
	end := lineEnd
	if end < lx.end {
		end++ // consume the newline
	}
	lx.pos = end
	lineNo := lx.line
	lx.line++

	line := lx.src[start:lineEnd]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}
	indent, contentAt := lineIndent(line)

	tok := Token{
		Start:  start,
		End:    end,
		Line:   lineNo,
		Column: contentAt + 1,
		Indent: indent,
	}
	tok.Kind = lx.classify(line, line[contentAt:], indent)

	switch tok.Kind {
	case TokenParagraphLine, TokenLinkRefDef:
		lx.inParagraph = true
	case TokenFenceContent:
		// Leaves paragraph state untouched by definition of an open fence.
	default:
		lx.inParagraph = false
	}
	return tok
}

func (lx *lexer) classify(line, rest []byte, indent int) TokenKind {
	// Open fenced constructs swallow everything until their end line.
	if lx.fenceMarker != 0 {
		return lx.classifyInFence(rest, indent)
	}
	if lx.inHTML {
		return lx.classifyInHTML(line)
	}

	if isBlankLine(line) {
		return TokenBlankLine
	}

	// A paragraph continuation line over-indented for block starts.
	if indent >= codeIndentLimit {
		if lx.inParagraph {
			return TokenParagraphLine
		}
		return TokenIndentedCode
	}

	// Setext underline beats thematic break for `-` runs, but only
	// directly under a paragraph candidate.
	if lx.inParagraph && isSetextUnderline(rest) {
		return TokenSetextUnderline
	}
	if isThematicBreak(rest) {
		return TokenThematicBreak
	}
	if isATXHeading(rest) {
		return TokenATXHeading
	}
	if marker, n := fenceStart(rest); marker != 0 {
		lx.fenceMarker = marker
		lx.fenceLen = n
		lx.fenceKind = TokenFenceStart
		return TokenFenceStart
	}
	if lx.config.Directives != nil && isDirectiveFence(rest) {
		return TokenDirectiveFence
	}
	if lx.config.Math && isMathFence(rest) {
		lx.fenceMarker = '$'
		lx.fenceLen = 2
		lx.fenceKind = TokenMathFence
		return TokenMathFence
	}
	if ends, ok := htmlBlockStart(rest, lx.inParagraph); ok {
		// Single-line HTML blocks (the end condition already matched)
		// do not open state.
		if ends != nil && htmlEndsOnLine(rest, ends) {
			return TokenHTMLBlock
		}
		lx.inHTML = true
		lx.htmlEnd = ends
		return TokenHTMLBlock
	}
	if rest[0] == '>' {
		return TokenBlockQuote
	}
	if m := parseListMarker(rest, indent); m.width > 0 {
		// An ordered marker other than 1. cannot interrupt a paragraph,
		// and no marker interrupts one with a blank item.
		if lx.inParagraph && (m.ordered && m.start != 1 || isBlankLine(rest[m.width:])) {
			return TokenParagraphLine
		}
		return TokenListItem
	}
	if lx.config.Tables && lx.inParagraph && isTableDelimiter(rest) {
		return TokenTableDelimiter
	}
	if lx.config.Footnotes && isFootnoteDef(rest) {
		return TokenFootnoteDef
	}
	if !lx.inParagraph && isLinkRefDefCandidate(rest) {
		return TokenLinkRefDef
	}
	return TokenParagraphLine
}

func (lx *lexer) classifyInFence(rest []byte, indent int) TokenKind {
	switch lx.fenceKind {
	case TokenMathFence:
		if isMathFence(rest) {
			lx.fenceMarker = 0
			return TokenMathFence
		}
	default:
		if indent < codeIndentLimit && isFenceEnd(rest, lx.fenceMarker, lx.fenceLen) {
			lx.fenceMarker = 0
			return TokenFenceEnd
		}
	}
	return TokenFenceContent
}

func (lx *lexer) classifyInHTML(line []byte) TokenKind {
	if len(lx.htmlEnd) == 0 {
		// Types 6 and 7 end at a blank line, which is not part of the block.
		if isBlankLine(line) {
			lx.inHTML = false
			return TokenBlankLine
		}
		return TokenHTMLBlock
	}
	if htmlEndsOnLine(line, lx.htmlEnd) {
		lx.inHTML = false
	}
	return TokenHTMLBlock
}

// atEOF closes any state left open at the end of the region.
// Unterminated fences and HTML blocks close implicitly; no error.
func (lx *lexer) atEOF() {
	lx.fenceMarker = 0
	lx.inHTML = false
}

// lineIndent computes the leading whitespace width of a line with
// tab-stop expansion, and the byte index of the first non-blank byte.
func lineIndent(line []byte) (indent, contentAt int) {
	for i, c := range line {
		switch c {
		case ' ':
			indent++
		case '\t':
			indent += tabStopSize - indent%tabStopSize
		default:
			return indent, i
		}
	}
	return indent, len(line)
}

func isBlankLine(line []byte) bool {
	for _, b := range line {
		if b != ' ' && b != '\t' && b != '\r' && b != '\n' {
			return false
		}
	}
	return true
}

// isThematicBreak reports whether the line (indent stripped) is a
// thematic break: three or more of the same of -, _, * with only
// whitespace between.
func isThematicBreak(rest []byte) bool {
	if len(rest) == 0 {
		return false
	}
	var want byte
	n := 0
	for _, b := range rest {
		switch b {
		case '-', '_', '*':
			if n == 0 {
				want = b
			} else if b != want {
				return false
			}
			n++
		case ' ', '\t':
		default:
			return false
		}
	}
	return n >= 3
}

func isATXHeading(rest []byte) bool {
	level := 0
	for level < len(rest) && rest[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return false
	}
	return level == len(rest) || rest[level] == ' ' || rest[level] == '\t'
}

// isSetextUnderline reports whether the line is a run of = or - with
// optional trailing whitespace.
func isSetextUnderline(rest []byte) bool {
	if len(rest) == 0 {
		return false
	}
	want := rest[0]
	if want != '=' && want != '-' {
		return false
	}
	i := 0
	for i < len(rest) && rest[i] == want {
		i++
	}
	for ; i < len(rest); i++ {
		if rest[i] != ' ' && rest[i] != '\t' {
			return false
		}
	}
	return true
}

// fenceStart returns the fence marker and run length if the line opens
// a fenced code block. Backtick fences reject backticks in the info
// string.
func fenceStart(rest []byte) (marker byte, n int) {
	if len(rest) == 0 || (rest[0] != '`' && rest[0] != '~') {
		return 0, 0
	}
	marker = rest[0]
	for n < len(rest) && rest[n] == marker {
		n++
	}
	if n < 3 {
		return 0, 0
	}
	if marker == '`' && bytes.IndexByte(rest[n:], '`') >= 0 {
		return 0, 0
	}
	return marker, n
}

func isFenceEnd(rest []byte, marker byte, openLen int) bool {
	n := 0
	for n < len(rest) && rest[n] == marker {
		n++
	}
	if n < openLen {
		return false
	}
	return isBlankLine(rest[n:])
}

func isDirectiveFence(rest []byte) bool {
	n := 0
	for n < len(rest) && rest[n] == ':' {
		n++
	}
	if n < 3 {
		return false
	}
	after := bytes.TrimSpace(rest[n:])
	return len(after) == 0 || after[0] == '{'
}

func isMathFence(rest []byte) bool {
	trimmed := bytes.TrimRight(rest, " \t")
	return len(trimmed) == 2 && trimmed[0] == '$' && trimmed[1] == '$'
}

// htmlBlockTags are the names triggering HTML block type 6.
var htmlBlockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "base": true,
	"basefont": true, "blockquote": true, "body": true, "caption": true,
	"center": true, "col": true, "colgroup": true, "dd": true,
	"details": true, "dialog": true, "dir": true, "div": true, "dl": true,
	"dt": true, "fieldset": true, "figcaption": true, "figure": true,
	"footer": true, "form": true, "frame": true, "frameset": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"head": true, "header": true, "hr": true, "html": true, "iframe": true,
	"legend": true, "li": true, "link": true, "main": true, "menu": true,
	"menuitem": true, "nav": true, "noframes": true, "ol": true,
	"optgroup": true, "option": true, "p": true, "param": true,
	"section": true, "source": true, "summary": true, "table": true,
	"tbody": true, "td": true, "tfoot": true, "th": true, "thead": true,
	"title": true, "tr": true, "track": true, "ul": true,
}

// htmlBlockStart checks the seven CommonMark HTML block start
// conditions. It returns the end-condition substrings (nil for the
// blank-line-ended forms) and whether the line starts an HTML block.
func htmlBlockStart(rest []byte, inParagraph bool) (ends []string, ok bool) {
	if len(rest) < 2 || rest[0] != '<' {
		return nil, false
	}
	lower := strings.ToLower(string(rest))

	// Type 1: script, pre, style, textarea.
	for _, tag := range []string{"script", "pre", "style", "textarea"} {
		if strings.HasPrefix(lower, "<"+tag) {
			if len(lower) == len(tag)+1 {
				return []string{"</" + tag + ">"}, true
			}
			switch lower[len(tag)+1] {
			case ' ', '\t', '>':
				return []string{"</" + tag + ">"}, true
			}
		}
	}
	// Type 2: comment.
	if strings.HasPrefix(lower, "<!--") {
		return []string{"-->"}, true
	}
	// Type 3: processing instruction.
	if strings.HasPrefix(lower, "<?") {
		return []string{"?>"}, true
	}
	// Type 4: declaration.
	if strings.HasPrefix(lower, "<!") && len(rest) > 2 && isASCIILetter(rest[2]) {
		return []string{">"}, true
	}
	// Type 5: CDATA.
	if strings.HasPrefix(string(rest), "<![CDATA[") {
		return []string{"]]>"}, true
	}
	// Type 6: known block-level tag, open or close.
	name := lower[1:]
	if strings.HasPrefix(name, "/") {
		name = name[1:]
	}
	nameEnd := 0
	for nameEnd < len(name) && (isASCIILetter(name[nameEnd]) || isASCIIDigit(name[nameEnd])) {
		nameEnd++
	}
	if nameEnd > 0 {
		trailer := name[nameEnd:]
		okTrailer := trailer == "" || trailer[0] == ' ' || trailer[0] == '\t' ||
			trailer[0] == '>' || strings.HasPrefix(trailer, "/>")
		if okTrailer && htmlBlockTags[name[:nameEnd]] {
			return nil, true
		}
	}
	// Type 7: any complete tag alone on the line; cannot interrupt a
	// paragraph.
	if !inParagraph && isCompleteHTMLTagLine(rest) {
		return nil, true
	}
	return nil, false
}

func htmlEndsOnLine(line []byte, ends []string) bool {
	lower := strings.ToLower(string(line))
	for _, e := range ends {
		if strings.Contains(lower, e) {
			return true
		}
	}
	return false
}

// isCompleteHTMLTagLine reports whether the line consists of a single
// complete open or closing tag followed only by whitespace (the HTML
// block type 7 start condition).
func isCompleteHTMLTagLine(rest []byte) bool {
	end := scanHTMLTag(rest, 0)
	if end < 0 {
		return false
	}
	tag := rest[:end]
	lower := strings.ToLower(string(tag))
	for _, t := range []string{"<script", "<pre", "<style", "<textarea"} {
		if strings.HasPrefix(lower, t) {
			return false
		}
	}
	return isBlankLine(rest[end:])
}

type listMarker struct {
	width   int // total bytes of indent-stripped marker incl. one space
	ordered bool
	start   int
	bullet  byte // '-', '+', '*' for bullets; ')' or '.' terminator for ordered
	padding int  // columns from marker start to content start
}

// parseListMarker parses a bullet or ordered list marker at the start
// of rest (indent already stripped). width is 0 when rest is no marker.
func parseListMarker(rest []byte, indent int) listMarker {
	if len(rest) == 0 {
		return listMarker{}
	}
	var m listMarker
	i := 0
	switch {
	case rest[0] == '-' || rest[0] == '+' || rest[0] == '*':
		m.bullet = rest[0]
		i = 1
	case isASCIIDigit(rest[0]):
		n := 0
		for i < len(rest) && isASCIIDigit(rest[i]) && i < 9 {
			n = n*10 + int(rest[i]-'0')
			i++
		}
		if i >= len(rest) || (rest[i] != '.' && rest[i] != ')') {
			return listMarker{}
		}
		m.ordered = true
		m.start = n
		m.bullet = rest[i]
		i++
	default:
		return listMarker{}
	}
	// The marker must be followed by whitespace or end of line.
	if i < len(rest) && rest[i] != ' ' && rest[i] != '\t' {
		return listMarker{}
	}
	// Content starts after one to four columns of spacing; more than
	// four means one space plus indented code inside the item.
	spaces := 0
	j := i
	for j < len(rest) && (rest[j] == ' ' || rest[j] == '\t') {
		if rest[j] == ' ' {
			spaces++
		} else {
			spaces += tabStopSize - (indent+i+spaces)%tabStopSize
		}
		j++
	}
	switch {
	case j == len(rest):
		// Blank item: content starts at one column past the marker.
		m.width = i
		m.padding = i + 1
	case spaces > 4:
		m.width = i + 1
		m.padding = i + 1
	default:
		m.width = j
		m.padding = i + spaces
	}
	return m
}

// isTableDelimiter reports whether the line is a GFM table delimiter
// row such as | --- | :---: |.
func isTableDelimiter(rest []byte) bool {
	sawDash := false
	sawCell := false
	for _, b := range rest {
		switch b {
		case '-':
			sawDash = true
		case '|':
			sawCell = true
		case ':', ' ', '\t':
		default:
			return false
		}
	}
	return sawDash && sawCell
}

func isFootnoteDef(rest []byte) bool {
	if !bytes.HasPrefix(rest, []byte("[^")) {
		return false
	}
	end := bytes.IndexByte(rest, ']')
	return end > 2 && end+1 < len(rest) && rest[end+1] == ':'
}

// isLinkRefDefCandidate does a cheap shape check; the block parser
// performs the full parse and falls back to a paragraph when it fails.
func isLinkRefDefCandidate(rest []byte) bool {
	if len(rest) == 0 || rest[0] != '[' {
		return false
	}
	depth := 0
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			i++ // skip the escaped byte
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i+1 < len(rest) && rest[i+1] == ':'
			}
		}
	}
	return false
}

func isASCIILetter(b byte) bool {
	return 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

func isASCIIDigit(b byte) bool {
	return '0' <= b && b <= '9'
}

func isASCIIPunctuation(b byte) bool {
	return '!' <= b && b <= '/' || ':' <= b && b <= '@' || '[' <= b && b <= '`' || '{' <= b && b <= '~'
}
