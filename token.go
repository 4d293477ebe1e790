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

// TokenKind classifies one physical line of input.
// Every line receives exactly one classification; there is no error kind.
type TokenKind uint8

const (
	// TokenEOF marks the end of the token stream.
	TokenEOF TokenKind = 1 + iota
	// TokenBlankLine is a line containing only spaces and tabs.
	TokenBlankLine
	// TokenThematicBreak is ***, ---, ___ and variants.
	TokenThematicBreak
	// TokenATXHeading is a #-prefixed heading line.
	TokenATXHeading
	// TokenSetextUnderline is a = or - underline following a paragraph
	// candidate line.
	TokenSetextUnderline
	// TokenFenceStart opens a fenced code block (``` or ~~~).
	TokenFenceStart
	// TokenFenceEnd closes a fenced code block.
	TokenFenceEnd
	// TokenFenceContent is a literal line inside an open fence.
	TokenFenceContent
	// TokenDirectiveFence opens or closes a ::: directive container.
	TokenDirectiveFence
	// TokenHTMLBlock is a line belonging to one of the seven CommonMark
	// HTML block forms.
	TokenHTMLBlock
	// TokenBlockQuote is a line starting with a > marker.
	TokenBlockQuote
	// TokenListItem is a line starting with a bullet or ordered marker.
	TokenListItem
	// TokenIndentedCode is a line indented by four or more columns
	// outside a paragraph continuation.
	TokenIndentedCode
	// TokenLinkRefDef is a [label]: destination candidate line.
	TokenLinkRefDef
	// TokenFootnoteDef is a [^id]: definition line (footnotes plugin).
	TokenFootnoteDef
	// TokenTableDelimiter is a |---|---| delimiter row (tables plugin).
	TokenTableDelimiter
	// TokenMathFence opens or closes a $$ math block (math plugin).
	TokenMathFence
	// TokenParagraphLine is any line with no stronger classification.
	TokenParagraphLine
)

var tokenKindNames = map[TokenKind]string{
	TokenEOF:            "EOF",
	TokenBlankLine:      "BLANK_LINE",
	TokenThematicBreak:  "THEMATIC_BREAK",
	TokenATXHeading:     "ATX_HEADING",
	TokenSetextUnderline: "SETEXT_UNDERLINE",
	TokenFenceStart:     "FENCE_START",
	TokenFenceEnd:       "FENCE_END",
	TokenFenceContent:   "FENCE_CONTENT",
	TokenDirectiveFence: "DIRECTIVE_FENCE",
	TokenHTMLBlock:      "HTML_BLOCK",
	TokenBlockQuote:     "BLOCK_QUOTE",
	TokenListItem:       "LIST_ITEM",
	TokenIndentedCode:   "INDENTED_CODE",
	TokenLinkRefDef:     "LINK_REF_DEF",
	TokenFootnoteDef:    "FOOTNOTE_DEF",
	TokenTableDelimiter: "TABLE_DELIMITER",
	TokenMathFence:      "MATH_FENCE",
	TokenParagraphLine:  "PARAGRAPH_LINE",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", uint8(k))
}

// A Token is one classified line of block-level input.
// Tokens never copy text: Start and End index into the SourceBuffer the
// lexer was given. Tokens are immutable values; they are created by the
// lexer and consumed once by the block parser.
type Token struct {
	Kind   TokenKind
	Start  int // byte offset of the first byte of the line
	End    int // byte offset one past the line terminator
	Line   int // 1-based
	Column int // 1-based column of the first non-indent byte
	Indent int // leading whitespace width with tab-stop expansion
}

// InlineTokenKind classifies a run of inline text.
type InlineTokenKind uint8

const (
	// InlineText is a literal text run.
	InlineText InlineTokenKind = 1 + iota
	// InlineDelimiterRun is a run of *, _ or ~ characters.
	InlineDelimiterRun
	// InlineCodeSpan is a backtick-delimited code span, fully resolved.
	InlineCodeSpan
	// InlineAutolink is a <scheme:...> or <addr@host> autolink.
	InlineAutolink
	// InlineRawHTML is an inline HTML tag, comment, or declaration.
	InlineRawHTML
	// InlineHardBreak is a backslash or double-space line ending.
	InlineHardBreak
	// InlineSoftBreak is a plain line ending inside a paragraph.
	InlineSoftBreak
	// InlineLinkOpen is a [ bracket.
	InlineLinkOpen
	// InlineImageOpen is a ![ bracket.
	InlineImageOpen
	// InlineBracketClose is a ] bracket, with any trailing destination
	// or reference label resolved by the tokenizer.
	InlineBracketClose
	// InlineEntity is an HTML entity or numeric character reference.
	InlineEntity
	// InlineMath is a $-delimited math span (math plugin).
	InlineMath
	// InlineFootnoteRef is a [^id] reference (footnotes plugin).
	InlineFootnoteRef
	// InlineRole is a {name}`content` role span (role registry).
	InlineRole
)

// An InlineToken is one classified run within a leaf block's text.
// Offsets index into the SourceBuffer. For delimiter runs the tokenizer
// precomputes the flanking-derived CanOpen/CanClose flags; the emphasis
// resolver never re-derives them.
type InlineToken struct {
	Kind  InlineTokenKind
	Start int
	End   int

	// Delimiter run fields.
	Delim    byte // '*', '_' or '~'
	Length   int  // run length in bytes
	CanOpen  bool
	CanClose bool

	// Code span and math content bounds (inside the delimiters).
	ContentStart int
	ContentEnd   int

	// Literal is the decoded text for kinds whose content differs from
	// the source bytes: entities, escapes, code spans (newline
	// normalization), math and roles.
	Literal string

	// Bracket close resolution. destKind describes what followed the
	// bracket: nothing, an inline (destination, title) pair, or a
	// reference label. opener is the index of the matching open
	// bracket token, or -1.
	destKind brTrailer
	dest     string
	title    string
	hasTitle bool
	label    string // normalized reference label
	rawName  string // role or footnote identifier
	opener   int
}

type brTrailer uint8

const (
	brNone brTrailer = iota
	brInline
	brReference
)
