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

// parseDocument runs the full pipeline over a SourceBuffer.
func parseDocument(src *SourceBuffer, config Config) *Document {
	refs := make(ReferenceMap)
	rp := &regionParser{
		buf:    src.Bytes(),
		src:    src,
		origin: true,
		file:   src.File(),
		config: config,
		refs:   refs,
	}
	children := rp.parseBlocks(0, src.Len(), 1)
	return &Document{
		Loc: SourceLocation{
			Line:      1,
			Column:    1,
			Offset:    0,
			EndOffset: src.Len(),
			File:      src.File(),
		},
		Children:   children,
		References: refs,
		source:     src,
	}
}

// parseSubRegion parses a region of the original buffer as top-level
// blocks. The incremental re-parser uses it to re-parse an edit window
// in place.
func parseSubRegion(src *SourceBuffer, start, end, baseLine int, config Config, refs ReferenceMap) []Block {
	rp := &regionParser{
		buf:    src.Bytes(),
		src:    src,
		origin: true,
		file:   src.File(),
		config: config,
		refs:   refs,
	}
	return rp.parseBlocks(start, end, baseLine)
}

// A regionParser parses one region of text into blocks. Container
// content (block quote bodies, list item bodies, directive bodies) is
// parsed by recursive sub-parses over stripped copies of the container
// lines; sub-parses share the document's ReferenceMap by reference so
// forward references resolve across nesting.
type regionParser struct {
	buf        []byte
	src        *SourceBuffer // nil for stripped sub-regions
	origin     bool          // buf is the original source text
	baseOffset int           // added to every location offset
	file       string
	config     Config
	refs       ReferenceMap
	depth      int

	tokens []Token
	i      int
}

func (rp *regionParser) sub() *regionParser {
	return &regionParser{
		file:   rp.file,
		config: rp.config,
		refs:   rp.refs,
		depth:  rp.depth + 1,
	}
}

// parseStripped parses a rebuilt (container-stripped) text as blocks.
func (rp *regionParser) parseStripped(text []byte, baseLine, baseOffset int) []Block {
	if rp.depth >= rp.config.maxNesting() {
		// Too deep: degrade to a single literal paragraph.
		loc := SourceLocation{Line: baseLine, Column: 1, Offset: baseOffset, EndOffset: baseOffset + len(text), File: rp.file}
		return []Block{&Paragraph{Loc: loc, Children: []Inline{&Text{Loc: loc, Content: string(bytes.TrimSpace(text))}}}}
	}
	sp := rp.sub()
	sp.buf = text
	sp.baseOffset = baseOffset
	return sp.parseBlocks(0, len(text), baseLine)
}

func (rp *regionParser) parseBlocks(start, end, baseLine int) []Block {
	lx := newLexer(rp.buf, start, end, baseLine, rp.config)
	rp.tokens = lx.tokenize()
	rp.i = 0

	var blocks []Block
	for {
		tok := rp.tokens[rp.i]
		if tok.Kind == TokenEOF {
			return blocks
		}
		switch tok.Kind {
		case TokenBlankLine:
			rp.i++
		case TokenThematicBreak:
			blocks = append(blocks, &ThematicBreak{Loc: rp.tokenLoc(tok)})
			rp.i++
		case TokenATXHeading:
			blocks = append(blocks, rp.parseATXHeading(tok))
			rp.i++
		case TokenSetextUnderline:
			// No preceding paragraph in this region (e.g. the region
			// started here); an = underline is literal text, a - run
			// was already classified as thematic break when possible.
			blocks = append(blocks, rp.startParagraph(tok))
		case TokenFenceStart:
			blocks = append(blocks, rp.parseFencedCode(tok))
		case TokenMathFence:
			blocks = append(blocks, rp.parseMathBlock(tok))
		case TokenDirectiveFence:
			blocks = append(blocks, rp.parseDirective(tok)...)
		case TokenHTMLBlock:
			blocks = append(blocks, rp.parseHTMLBlock(tok))
		case TokenBlockQuote:
			blocks = append(blocks, rp.parseBlockQuote(tok))
		case TokenListItem:
			blocks = append(blocks, rp.parseList(tok))
		case TokenIndentedCode:
			blocks = append(blocks, rp.parseIndentedCode(tok))
		case TokenLinkRefDef:
			blocks = append(blocks, rp.parseLinkRefDef(tok)...)
		case TokenFootnoteDef:
			blocks = append(blocks, rp.parseFootnoteDef(tok))
		case TokenTableDelimiter:
			// A delimiter row with no header above it is plain text.
			blocks = append(blocks, rp.startParagraph(tok))
		default:
			blocks = append(blocks, rp.startParagraph(tok))
		}
	}
}

// lineBytes returns the token's line without its line terminator.
func (rp *regionParser) lineBytes(tok Token) []byte {
	line := rp.buf[tok.Start:tok.End]
	line = bytes.TrimRight(line, "\n")
	line = bytes.TrimRight(line, "\r")
	return line
}

func (rp *regionParser) tokenLoc(tok Token) SourceLocation {
	return SourceLocation{
		Line:      tok.Line,
		Column:    tok.Column,
		Offset:    rp.baseOffset + tok.Start,
		EndOffset: rp.baseOffset + tok.End,
		File:      rp.file,
	}
}

func (rp *regionParser) spanLoc(first, last Token) SourceLocation {
	return SourceLocation{
		Line:      first.Line,
		Column:    first.Column,
		Offset:    rp.baseOffset + first.Start,
		EndOffset: rp.baseOffset + last.End,
		File:      rp.file,
	}
}

// parseATXHeading parses a # heading line, handling closing hash runs
// and an optional {#explicit-id} anchor.
func (rp *regionParser) parseATXHeading(tok Token) *Heading {
	line := rp.lineBytes(tok)
	rest := line[tok.Column-1:]
	level := 0
	for level < len(rest) && rest[level] == '#' {
		level++
	}
	content := bytes.TrimLeft(rest[level:], " \t")
	content = trimClosingHashes(content)

	explicitID := ""
	if id, trimmed, ok := trimExplicitID(content); ok {
		explicitID = id
		content = trimmed
	}

	loc := rp.tokenLoc(tok)
	base := loc
	if idx := bytes.LastIndex(line, content); len(content) > 0 && idx >= 0 {
		base.Offset = loc.Offset + idx
		base.Column = idx + 1
	}
	return &Heading{
		Loc:        loc,
		Level:      level,
		Style:      ATXHeading,
		ExplicitID: explicitID,
		Children:   rp.parseInlineText(string(content), base),
	}
}

// trimClosingHashes removes an optional closing sequence of #s.
func trimClosingHashes(content []byte) []byte {
	trimmed := bytes.TrimRight(content, " \t")
	i := len(trimmed)
	for i > 0 && trimmed[i-1] == '#' {
		i--
	}
	if i == len(trimmed) {
		return trimmed
	}
	if i == 0 {
		return nil
	}
	if trimmed[i-1] == ' ' || trimmed[i-1] == '\t' {
		return bytes.TrimRight(trimmed[:i], " \t")
	}
	return trimmed
}

// trimExplicitID extracts a trailing {#id} anchor.
func trimExplicitID(content []byte) (id string, trimmed []byte, ok bool) {
	t := bytes.TrimRight(content, " \t")
	if !bytes.HasSuffix(t, []byte("}")) {
		return "", content, false
	}
	open := bytes.LastIndex(t, []byte("{#"))
	if open < 0 {
		return "", content, false
	}
	id = string(t[open+2 : len(t)-1])
	if id == "" || strings.ContainsAny(id, " \t{}") {
		return "", content, false
	}
	return id, bytes.TrimRight(t[:open], " \t"), true
}

// parseFencedCode consumes an opening fence through its end (or EOF).
func (rp *regionParser) parseFencedCode(tok Token) *FencedCode {
	line := rp.lineBytes(tok)
	rest := line[tok.Column-1:]
	marker := rest[0]
	n := 0
	for n < len(rest) && rest[n] == marker {
		n++
	}
	info := string(bytes.TrimSpace(rest[n:]))
	info = unescapeString(info)

	rp.i++
	contentStart := tok.End
	contentEnd := tok.End
	last := tok
	for {
		t := rp.tokens[rp.i]
		if t.Kind == TokenFenceContent {
			contentEnd = t.End
			last = t
			rp.i++
			continue
		}
		if t.Kind == TokenFenceEnd {
			last = t
			rp.i++
		}
		break
	}

	b := &FencedCode{
		Loc:         rp.spanLoc(tok, last),
		Info:        info,
		Marker:      marker,
		FenceIndent: tok.Indent,
	}
	if rp.origin {
		b.SourceStart = contentStart
		b.SourceEnd = contentEnd
	} else {
		// Offsets would be relative to this sub-parser's stripped
		// text, so store the content directly.
		b.HasOverride = true
		b.Override = string(rp.buf[contentStart:contentEnd])
		if b.FenceIndent > 0 {
			b.Override = stripFenceIndent(b.Override, b.FenceIndent)
			b.FenceIndent = 0
		}
	}
	return b
}

func stripFenceIndent(code string, indent int) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		n := 0
		for n < len(line) && n < indent && line[n] == ' ' {
			n++
		}
		lines[i] = line[n:]
	}
	return strings.Join(lines, "\n")
}

func (rp *regionParser) parseMathBlock(tok Token) *MathBlock {
	rp.i++
	contentStart := tok.End
	contentEnd := tok.End
	last := tok
	for {
		t := rp.tokens[rp.i]
		if t.Kind == TokenFenceContent {
			contentEnd = t.End
			last = t
			rp.i++
			continue
		}
		if t.Kind == TokenMathFence {
			last = t
			rp.i++
		}
		break
	}
	content := strings.TrimSuffix(string(rp.buf[contentStart:contentEnd]), "\n")
	return &MathBlock{
		Loc:     rp.spanLoc(tok, last),
		Content: content,
	}
}

// parseHTMLBlock gathers the consecutive lines of one HTML block.
func (rp *regionParser) parseHTMLBlock(tok Token) *HTMLBlock {
	last := tok
	for rp.tokens[rp.i].Kind == TokenHTMLBlock {
		last = rp.tokens[rp.i]
		rp.i++
	}
	html := string(rp.buf[tok.Start:last.End])
	html = strings.TrimSuffix(html, "\n")
	html = strings.TrimSuffix(html, "\r")
	return &HTMLBlock{
		Loc:  rp.spanLoc(tok, last),
		HTML: html,
	}
}

// parseIndentedCode gathers indented code lines, keeping interior
// blank lines and dropping leading/trailing ones.
func (rp *regionParser) parseIndentedCode(tok Token) *IndentedCode {
	var sb strings.Builder
	blankRun := 0
	last := tok
	for {
		t := rp.tokens[rp.i]
		switch t.Kind {
		case TokenIndentedCode:
			for ; blankRun > 0; blankRun-- {
				sb.WriteByte('\n')
			}
			line := rp.lineBytes(t)
			sb.Write(stripColumns(line, codeIndentLimit))
			sb.WriteByte('\n')
			last = t
			rp.i++
			continue
		case TokenBlankLine:
			// Tentative: kept only if more code follows.
			blankRun++
			rp.i++
			continue
		}
		break
	}
	return &IndentedCode{
		Loc:  rp.spanLoc(tok, last),
		Code: sb.String(),
	}
}

// parseBlockQuote gathers marker-prefixed and lazy continuation lines,
// strips the markers, and sub-parses the body.
func (rp *regionParser) parseBlockQuote(tok Token) *BlockQuote {
	var stripped []byte
	probe := newLexer(nil, 0, 0, tok.Line, rp.config)
	first := tok
	last := tok

	for {
		t := rp.tokens[rp.i]
		line := rp.lineBytes(t)
		if t.Kind == TokenBlockQuote {
			content := stripQuoteMarker(line)
			probe.classifyLine(content)
			stripped = append(stripped, content...)
			stripped = append(stripped, '\n')
			last = t
			rp.i++
			continue
		}
		// Lazy continuation: only a line that would extend the open
		// paragraph inside the quote may omit the marker.
		if probe.continuesParagraph() && lazyKind(line, rp.config) == TokenParagraphLine {
			probe.classifyLine(line)
			stripped = append(stripped, line...)
			stripped = append(stripped, '\n')
			last = t
			rp.i++
			continue
		}
		break
	}

	loc := rp.spanLoc(first, last)
	return &BlockQuote{
		Loc:      loc,
		Children: rp.parseStripped(stripped, first.Line, loc.Offset),
	}
}

// stripQuoteMarker removes up to three columns of indent, the > marker
// and one following space.
func stripQuoteMarker(line []byte) []byte {
	i := 0
	for i < len(line) && i < 3 && line[i] == ' ' {
		i++
	}
	if i < len(line) && line[i] == '>' {
		i++
		if i < len(line) && line[i] == ' ' {
			i++
		} else if i < len(line) && line[i] == '\t' {
			// A tab after > contributes its remaining columns; one is
			// consumed by the marker separator.
			rest := append([]byte("  "), line[i+1:]...)
			return rest
		}
	}
	return line[i:]
}

// continuesParagraph reports whether the probe's content so far ends in
// an open paragraph that a lazy line could extend.
func (lx *lexer) continuesParagraph() bool {
	return lx.inParagraph && lx.fenceMarker == 0 && !lx.inHTML
}

// lazyKind classifies a candidate lazy continuation line as if a
// paragraph were open.
func lazyKind(line []byte, config Config) TokenKind {
	probe := newLexer(nil, 0, 0, 1, config)
	probe.inParagraph = true
	return probe.classifyLine(line)
}

// classifyLine classifies a single line and updates the lexer state
// exactly as next does. Used by container gathering probes.
func (lx *lexer) classifyLine(line []byte) TokenKind {
	indent, contentAt := lineIndent(line)
	kind := lx.classify(line, line[contentAt:], indent)
	switch kind {
	case TokenParagraphLine, TokenLinkRefDef:
		lx.inParagraph = true
	case TokenFenceContent:
	default:
		lx.inParagraph = false
	}
	return kind
}

// parseLinkRefDef parses a [label]: destination "title" line.
// On failure the line degrades to a paragraph, never an error.
func (rp *regionParser) parseLinkRefDef(tok Token) []Block {
	line := rp.lineBytes(tok)
	rest := line[tok.Column-1:]
	label, def, ok := scanLinkRefDef(rest)
	if !ok {
		return []Block{rp.startParagraph(tok)}
	}
	rp.i++
	normalized := NormalizeLabel(label)
	rp.refs.add(normalized, def)
	return []Block{&LinkReferenceDef{
		Loc:         rp.tokenLoc(tok),
		Label:       normalized,
		Destination: def.Destination,
		Title:       def.Title,
		HasTitle:    def.TitlePresent,
	}}
}

// scanLinkRefDef parses `[label]: <dest> "title"` on one line.
func scanLinkRefDef(rest []byte) (label string, def LinkDefinition, ok bool) {
	if len(rest) == 0 || rest[0] != '[' {
		return "", LinkDefinition{}, false
	}
	labelEnd := -1
	depth := 0
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				labelEnd = i
			}
		}
		if labelEnd >= 0 {
			break
		}
	}
	if labelEnd < 1 || labelEnd+1 >= len(rest) || rest[labelEnd+1] != ':' {
		return "", LinkDefinition{}, false
	}
	label = string(rest[1:labelEnd])
	if strings.TrimSpace(label) == "" || len(label) > 999 {
		return "", LinkDefinition{}, false
	}

	i := labelEnd + 2
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
		i++
	}
	if i >= len(rest) {
		// Destination on the next line is not supported on this path;
		// the caller degrades to a paragraph.
		return "", LinkDefinition{}, false
	}
	dest, next, ok := scanLinkDestination(rest, i)
	if !ok {
		return "", LinkDefinition{}, false
	}
	def.Destination = dest

	i = next
	for i < len(rest) && (rest[i] == ' ' || rest[i] == '\t') {
		i++
	}
	if i < len(rest) {
		title, next, ok := scanLinkTitle(rest, i)
		if !ok || !isBlankLine(rest[next:]) {
			return "", LinkDefinition{}, false
		}
		def.Title = title
		def.TitlePresent = true
	}
	return label, def, true
}

// startParagraph gathers paragraph lines, watching for a setext
// underline (the parser's one-line lookahead) and, with tables
// enabled, a delimiter row that turns the paragraph into a table.
func (rp *regionParser) startParagraph(tok Token) Block {
	first := rp.tokens[rp.i]
	var lines []string
	var lineTokens []Token
	last := first
	for {
		t := rp.tokens[rp.i]
		if t.Kind == TokenParagraphLine || t.Kind == TokenLinkRefDef ||
			(t.Kind == TokenSetextUnderline && len(lines) == 0) ||
			(t.Kind == TokenTableDelimiter && len(lines) != 1) {
			line := rp.lineBytes(t)
			lines = append(lines, string(trimLineIndent(line, 3)))
			lineTokens = append(lineTokens, t)
			last = t
			rp.i++
			continue
		}
		if t.Kind == TokenSetextUnderline && len(lines) > 0 {
			// Retroactively a heading.
			underline := bytes.TrimSpace(rp.lineBytes(t))
			level := 2
			if underline[0] == '=' {
				level = 1
			}
			rp.i++
			content := strings.TrimRight(strings.Join(lines, "\n"), " \t")
			loc := rp.spanLoc(first, t)
			return &Heading{
				Loc:      loc,
				Level:    level,
				Style:    SetextHeading,
				Children: rp.parseInlineText(content, rp.tokenLoc(first)),
			}
		}
		if t.Kind == TokenTableDelimiter && len(lines) == 1 {
			if table := rp.parseTable(first, lines[0], t); table != nil {
				return table
			}
			// Mismatched columns: the delimiter row is paragraph text.
			line := rp.lineBytes(t)
			lines = append(lines, string(trimLineIndent(line, 3)))
			last = t
			rp.i++
			continue
		}
		break
	}
	content := strings.Join(lines, "\n")
	content = strings.TrimRight(content, " \t")
	loc := rp.spanLoc(first, last)
	return &Paragraph{
		Loc:      loc,
		Children: rp.parseInlineText(content, rp.tokenLoc(first)),
	}
}

// trimLineIndent removes up to max leading space columns.
func trimLineIndent(line []byte, max int) []byte {
	i := 0
	for i < len(line) && i < max && line[i] == ' ' {
		i++
	}
	return line[i:]
}

// parseTable assembles a table from a header line, a delimiter row
// token and any body rows that follow. Returns nil when the header and
// delimiter column counts disagree.
func (rp *regionParser) parseTable(headerTok Token, headerLine string, delimTok Token) *Table {
	aligns := parseDelimiterRow(rp.lineBytes(delimTok))
	headerCells := splitTableRow(headerLine)
	if len(headerCells) != len(aligns) {
		return nil
	}
	rp.i++ // consume the delimiter row

	head := rp.makeTableRow(headerTok, headerCells, aligns, true)
	var body []*TableRow
	last := delimTok
	for {
		t := rp.tokens[rp.i]
		if t.Kind != TokenParagraphLine {
			break
		}
		cells := splitTableRow(string(trimLineIndent(rp.lineBytes(t), 3)))
		// Rows are padded or truncated to the header width.
		for len(cells) < len(aligns) {
			cells = append(cells, "")
		}
		cells = cells[:len(aligns)]
		body = append(body, rp.makeTableRow(t, cells, aligns, false))
		last = t
		rp.i++
	}
	return &Table{
		Loc:        rp.spanLoc(headerTok, last),
		Head:       head,
		Body:       body,
		Alignments: aligns,
	}
}

func (rp *regionParser) makeTableRow(tok Token, cells []string, aligns []Alignment, header bool) *TableRow {
	row := &TableRow{
		Loc:      rp.tokenLoc(tok),
		IsHeader: header,
	}
	for i, cell := range cells {
		align := AlignNone
		if i < len(aligns) {
			align = aligns[i]
		}
		row.Cells = append(row.Cells, &TableCell{
			Loc:      rp.tokenLoc(tok),
			IsHeader: header,
			Align:    align,
			Children: rp.parseInlineText(strings.TrimSpace(cell), rp.tokenLoc(tok)),
		})
	}
	return row
}

// parseDelimiterRow reads | :---: | --- | into per-column alignments.
func parseDelimiterRow(line []byte) []Alignment {
	var aligns []Alignment
	for _, cell := range splitTableRow(string(bytes.TrimSpace(line))) {
		cell = strings.TrimSpace(cell)
		left := strings.HasPrefix(cell, ":")
		right := strings.HasSuffix(cell, ":")
		switch {
		case left && right:
			aligns = append(aligns, AlignCenter)
		case left:
			aligns = append(aligns, AlignLeft)
		case right:
			aligns = append(aligns, AlignRight)
		default:
			aligns = append(aligns, AlignNone)
		}
	}
	return aligns
}

// splitTableRow splits a row on unescaped pipes, dropping the optional
// leading and trailing pipe.
func splitTableRow(line string) []string {
	line = strings.TrimSpace(line)
	var cells []string
	var cur strings.Builder
	inCode := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && i+1 < len(line) && line[i+1] == '|':
			cur.WriteByte('|')
			i++
		case c == '`':
			inCode = !inCode
			cur.WriteByte(c)
		case c == '|' && !inCode:
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	cells = append(cells, cur.String())
	if len(cells) > 0 && strings.TrimSpace(cells[0]) == "" && strings.HasPrefix(line, "|") {
		cells = cells[1:]
	}
	if len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" && strings.HasSuffix(line, "|") {
		cells = cells[:len(cells)-1]
	}
	return cells
}

// parseDirective consumes a :::{name} fence through its matching
// closing ::: line, reads leading :key: value options, and parses or
// captures the body per the registered handler.
func (rp *regionParser) parseDirective(tok Token) []Block {
	line := rp.lineBytes(tok)
	rest := string(line[tok.Column-1:])
	openLen := 0
	for openLen < len(rest) && rest[openLen] == ':' {
		openLen++
	}
	name, title, ok := parseDirectiveOpening(strings.TrimLeft(rest, ":"))
	if !ok {
		return []Block{rp.startParagraph(tok)}
	}
	rp.i++

	var bodyLines []string
	bodyStart := tok.End
	last := tok
	depth := 0
	for {
		t := rp.tokens[rp.i]
		if t.Kind == TokenEOF {
			break
		}
		bline := rp.lineBytes(t)
		trimmed := bytes.TrimSpace(bline)
		if isColonRun(trimmed) && len(trimmed) >= openLen {
			if depth == 0 {
				last = t
				rp.i++
				break
			}
			depth--
		} else if t.Kind == TokenDirectiveFence {
			depth++
		}
		bodyLines = append(bodyLines, string(bline))
		last = t
		rp.i++
	}

	handler, registered := DirectiveHandler(nil), false
	if rp.config.Directives != nil {
		handler, registered = rp.config.Directives.Lookup(name)
	}
	if !registered && rp.config.Strict {
		// Strict mode surfaces unknown directives as literal text.
		loc := rp.spanLoc(tok, last)
		content := strings.Join(append([]string{string(line)}, bodyLines...), "\n")
		return []Block{&Paragraph{Loc: loc, Children: []Inline{&Text{Loc: loc, Content: content}}}}
	}

	options, consumed := parseDirectiveOptions(bodyLines)
	bodyLines = bodyLines[consumed:]

	d := &Directive{
		Loc:     rp.spanLoc(tok, last),
		Name:    name,
		Title:   title,
		Options: options,
	}
	body := strings.Join(bodyLines, "\n")
	if registered && handler.Raw() {
		d.RawContent = body
	} else {
		d.Children = rp.parseStripped([]byte(body), tok.Line+1+consumed, rp.baseOffset+bodyStart)
	}
	return []Block{d}
}

func isColonRun(line []byte) bool {
	if len(line) < 3 {
		return false
	}
	for _, b := range line {
		if b != ':' {
			return false
		}
	}
	return true
}

// parseFootnoteDef gathers a [^id]: definition and its indented
// continuation lines, then sub-parses the body.
func (rp *regionParser) parseFootnoteDef(tok Token) *FootnoteDef {
	line := rp.lineBytes(tok)
	rest := line[tok.Column-1:]
	close := bytes.IndexByte(rest, ']')
	identifier := string(rest[2:close])
	firstContent := bytes.TrimLeft(rest[close+2:], " \t")

	var stripped []byte
	stripped = append(stripped, firstContent...)
	stripped = append(stripped, '\n')
	rp.i++
	last := tok
	blankRun := 0
	for {
		t := rp.tokens[rp.i]
		if t.Kind == TokenBlankLine {
			blankRun++
			rp.i++
			continue
		}
		if t.Kind == TokenEOF || t.Indent < codeIndentLimit {
			rp.i -= blankRun
			break
		}
		for ; blankRun > 0; blankRun-- {
			stripped = append(stripped, '\n')
		}
		stripped = append(stripped, stripColumns(rp.lineBytes(t), codeIndentLimit)...)
		stripped = append(stripped, '\n')
		last = t
		rp.i++
	}
	loc := rp.spanLoc(tok, last)
	return &FootnoteDef{
		Loc:        loc,
		Identifier: identifier,
		Children:   rp.parseStripped(stripped, tok.Line, loc.Offset),
	}
}
