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

import "strings"

// Node is implemented by every AST node.
//
// Nodes are immutable: construction is the only mutation point. Fields
// are exported for consumers (renderers, serializers, differs) but must
// be treated as read-only after the parser returns. Immutability is
// what makes structural sharing between Documents safe: an incremental
// re-parse may hand a subtree of an old Document to a new one by
// reference, and a diff may short-circuit an entire subtree on pointer
// identity alone.
type Node interface {
	Location() SourceLocation
}

// Block is a block-level node.
// The set of implementations is closed; consumers switch exhaustively
// over it.
type Block interface {
	Node
	blockNode()
}

// Inline is an inline-level node.
// The set of implementations is closed; consumers switch exhaustively
// over it.
type Inline interface {
	Node
	inlineNode()
}

// Document is the root of a parsed tree.
// A Document exclusively owns its subtree, except where an incremental
// re-parse shares unaffected blocks by reference with a prior Document;
// both trees are read-only, so the sharing is invisible to callers.
type Document struct {
	Loc      SourceLocation
	Children []Block

	// References is the document's link reference definition table,
	// shared with every sub-parse that built the tree.
	References ReferenceMap

	// source is the buffer the document was parsed from. Fenced code
	// blocks resolve their content through it. A document built by
	// FromMap has no buffer; its fences carry overrides or are
	// unreadable.
	source *SourceBuffer
}

// Source returns the buffer the document was parsed from, or nil for
// deserialized documents.
func (b *Document) Source() *SourceBuffer {
	return b.source
}

// Heading is an ATX (#) or setext (underline) heading.
type Heading struct {
	Loc      SourceLocation
	Level    int // 1-6
	Style    HeadingStyle
	Children []Inline

	// ExplicitID holds a {#custom-id} anchor when present.
	ExplicitID string
}

// HeadingStyle distinguishes # headings from underlined ones.
type HeadingStyle uint8

const (
	ATXHeading HeadingStyle = iota
	SetextHeading
)

func (s HeadingStyle) String() string {
	if s == SetextHeading {
		return "setext"
	}
	return "atx"
}

// Paragraph is a run of text lines separated from its neighbors by
// blank lines or stronger block structure.
type Paragraph struct {
	Loc      SourceLocation
	Children []Inline
}

// FencedCode is a ``` or ~~~ fenced code block.
//
// The content is not copied out of the source: SourceStart and
// SourceEnd delimit the content lines inside the SourceBuffer, and
// Code extracts them on demand. For fences parsed inside containers
// (block quotes, list items) the offsets would be relative to a
// sub-parser's stripped text, so the sub-parser stores the content
// directly in Override instead.
type FencedCode struct {
	Loc         SourceLocation
	SourceStart int
	SourceEnd   int
	Info        string
	Marker      byte // '`' or '~'
	FenceIndent int
	Override    string
	HasOverride bool
}

// Code extracts the code block content,
// stripping up to FenceIndent columns of leading spaces from each line.
func (b *FencedCode) Code(src *SourceBuffer) string {
	var code string
	if b.HasOverride {
		code = b.Override
	} else {
		code = string(src.Slice(b.SourceStart, b.SourceEnd))
	}
	if b.FenceIndent == 0 {
		return code
	}
	return stripFenceIndent(code, b.FenceIndent)
}

// IndentedCode is a code block formed by four or more columns of
// indentation.
type IndentedCode struct {
	Loc  SourceLocation
	Code string
}

// BlockQuote is a >-marked container block.
type BlockQuote struct {
	Loc      SourceLocation
	Children []Block
}

// List is an ordered or bullet list.
type List struct {
	Loc     SourceLocation
	Items   []*ListItem
	Ordered bool
	// Start is the number of the first marker; bullet lists use 1.
	Start int
	// Tight reports whether no blank line separates the items or their
	// inner blocks. Tight list items render without paragraph wrapping.
	Tight bool
}

// ListItem is a single item of a List.
type ListItem struct {
	Loc      SourceLocation
	Children []Block
	// Checked is the task list checkbox state:
	// TaskNone for a plain item, otherwise checked or unchecked.
	Checked TaskState
}

// TaskState is a tri-state task list checkbox.
type TaskState uint8

const (
	TaskNone TaskState = iota
	TaskUnchecked
	TaskChecked
)

// ThematicBreak is a horizontal rule.
type ThematicBreak struct {
	Loc SourceLocation
}

// HTMLBlock is a raw HTML block, passed through verbatim by renderers.
type HTMLBlock struct {
	Loc  SourceLocation
	HTML string
}

// LinkReferenceDef records a [label]: destination "title" line.
// Definitions also populate the Document's ReferenceMap; the node is
// kept in the tree so the source round-trips positionally.
type LinkReferenceDef struct {
	Loc         SourceLocation
	Label       string // normalized
	Destination string
	Title       string
	HasTitle    bool
}

// Table is a GFM-style pipe table (tables plugin).
type Table struct {
	Loc        SourceLocation
	Head       *TableRow
	Body       []*TableRow
	Alignments []Alignment
}

// TableRow is one row of a Table.
type TableRow struct {
	Loc      SourceLocation
	Cells    []*TableCell
	IsHeader bool
}

// TableCell is one cell of a TableRow.
type TableCell struct {
	Loc      SourceLocation
	Children []Inline
	IsHeader bool
	Align    Alignment
}

// Alignment is a table column alignment.
type Alignment uint8

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return ""
	}
}

// MathBlock is a $$-fenced display math block (math plugin).
type MathBlock struct {
	Loc     SourceLocation
	Content string
}

// FootnoteDef is a [^id]: definition (footnotes plugin).
type FootnoteDef struct {
	Loc        SourceLocation
	Identifier string
	Children   []Block
}

// Directive is a :::{name} container block.
// Options come from the directive's YAML option lines. The content is
// parsed as blocks unless the registered handler asked for raw content.
type Directive struct {
	Loc        SourceLocation
	Name       string
	Title      string
	Options    map[string]string
	Children   []Block
	RawContent string
}

func (*Document) blockNode()         {}
func (*Heading) blockNode()          {}
func (*Paragraph) blockNode()        {}
func (*FencedCode) blockNode()       {}
func (*IndentedCode) blockNode()     {}
func (*BlockQuote) blockNode()       {}
func (*List) blockNode()             {}
func (*ListItem) blockNode()         {}
func (*ThematicBreak) blockNode()    {}
func (*HTMLBlock) blockNode()        {}
func (*LinkReferenceDef) blockNode() {}
func (*Table) blockNode()            {}
func (*TableRow) blockNode()         {}
func (*TableCell) blockNode()        {}
func (*MathBlock) blockNode()        {}
func (*FootnoteDef) blockNode()      {}
func (*Directive) blockNode()        {}

func (b *Document) Location() SourceLocation         { return b.Loc }
func (b *Heading) Location() SourceLocation          { return b.Loc }
func (b *Paragraph) Location() SourceLocation        { return b.Loc }
func (b *FencedCode) Location() SourceLocation       { return b.Loc }
func (b *IndentedCode) Location() SourceLocation     { return b.Loc }
func (b *BlockQuote) Location() SourceLocation       { return b.Loc }
func (b *List) Location() SourceLocation             { return b.Loc }
func (b *ListItem) Location() SourceLocation         { return b.Loc }
func (b *ThematicBreak) Location() SourceLocation    { return b.Loc }
func (b *HTMLBlock) Location() SourceLocation        { return b.Loc }
func (b *LinkReferenceDef) Location() SourceLocation { return b.Loc }
func (b *Table) Location() SourceLocation            { return b.Loc }
func (b *TableRow) Location() SourceLocation         { return b.Loc }
func (b *TableCell) Location() SourceLocation        { return b.Loc }
func (b *MathBlock) Location() SourceLocation        { return b.Loc }
func (b *FootnoteDef) Location() SourceLocation      { return b.Loc }
func (b *Directive) Location() SourceLocation        { return b.Loc }

// Text is a literal text run.
type Text struct {
	Loc     SourceLocation
	Content string
}

// Emphasis is *text* or _text_.
type Emphasis struct {
	Loc      SourceLocation
	Children []Inline
}

// Strong is **text** or __text__.
type Strong struct {
	Loc      SourceLocation
	Children []Inline
}

// Strikethrough is ~~text~~ (strikethrough plugin).
type Strikethrough struct {
	Loc      SourceLocation
	Children []Inline
}

// CodeSpan is `code`.
type CodeSpan struct {
	Loc  SourceLocation
	Code string
}

// Link is [text](url "title") or [text][ref].
type Link struct {
	Loc          SourceLocation
	URL          string
	Title        string
	TitlePresent bool
	Children     []Inline
}

// Image is ![alt](url "title").
// Alt is the plain-text rendering of the bracketed content.
type Image struct {
	Loc          SourceLocation
	URL          string
	Alt          string
	Title        string
	TitlePresent bool
}

// SoftBreak is a plain line ending inside a paragraph.
type SoftBreak struct {
	Loc SourceLocation
}

// HardBreak is a backslash or double-space line ending.
type HardBreak struct {
	Loc SourceLocation
}

// HTMLInline is a raw inline HTML tag.
type HTMLInline struct {
	Loc  SourceLocation
	HTML string
}

// Math is a $-delimited inline math span (math plugin).
type Math struct {
	Loc     SourceLocation
	Content string
}

// FootnoteRef is a [^id] reference (footnotes plugin).
type FootnoteRef struct {
	Loc        SourceLocation
	Identifier string
}

// Role is a {name}`content` span, resolved through the role registry.
type Role struct {
	Loc     SourceLocation
	Name    string
	Content string
	Target  string
}

func (*Text) inlineNode()          {}
func (*Emphasis) inlineNode()      {}
func (*Strong) inlineNode()        {}
func (*Strikethrough) inlineNode() {}
func (*CodeSpan) inlineNode()      {}
func (*Link) inlineNode()          {}
func (*Image) inlineNode()         {}
func (*SoftBreak) inlineNode()     {}
func (*HardBreak) inlineNode()     {}
func (*HTMLInline) inlineNode()    {}
func (*Math) inlineNode()          {}
func (*FootnoteRef) inlineNode()   {}
func (*Role) inlineNode()          {}

func (n *Text) Location() SourceLocation          { return n.Loc }
func (n *Emphasis) Location() SourceLocation      { return n.Loc }
func (n *Strong) Location() SourceLocation        { return n.Loc }
func (n *Strikethrough) Location() SourceLocation { return n.Loc }
func (n *CodeSpan) Location() SourceLocation      { return n.Loc }
func (n *Link) Location() SourceLocation          { return n.Loc }
func (n *Image) Location() SourceLocation         { return n.Loc }
func (n *SoftBreak) Location() SourceLocation     { return n.Loc }
func (n *HardBreak) Location() SourceLocation     { return n.Loc }
func (n *HTMLInline) Location() SourceLocation    { return n.Loc }
func (n *Math) Location() SourceLocation          { return n.Loc }
func (n *FootnoteRef) Location() SourceLocation   { return n.Loc }
func (n *Role) Location() SourceLocation          { return n.Loc }

// PlainText flattens the inline sequence to its literal text,
// the way image alt text is computed.
func PlainText(inlines []Inline) string {
	sb := new(strings.Builder)
	appendPlainText(sb, inlines)
	return sb.String()
}

func appendPlainText(sb *strings.Builder, inlines []Inline) {
	for _, in := range inlines {
		switch n := in.(type) {
		case *Text:
			sb.WriteString(n.Content)
		case *CodeSpan:
			sb.WriteString(n.Code)
		case *Emphasis:
			appendPlainText(sb, n.Children)
		case *Strong:
			appendPlainText(sb, n.Children)
		case *Strikethrough:
			appendPlainText(sb, n.Children)
		case *Link:
			appendPlainText(sb, n.Children)
		case *Image:
			sb.WriteString(n.Alt)
		case *SoftBreak, *HardBreak:
			sb.WriteByte(' ')
		case *Math:
			sb.WriteString(n.Content)
		}
	}
}

// BlockChildren returns the block children of a container block,
// or nil for leaf blocks.
func BlockChildren(b Block) []Block {
	switch b := b.(type) {
	case *Document:
		return b.Children
	case *BlockQuote:
		return b.Children
	case *ListItem:
		return b.Children
	case *FootnoteDef:
		return b.Children
	case *Directive:
		return b.Children
	case *List:
		children := make([]Block, len(b.Items))
		for i, item := range b.Items {
			children[i] = item
		}
		return children
	default:
		return nil
	}
}
