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
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// firstParagraphInlines parses input and returns the inline children of
// the first paragraph, failing the test on any other document shape.
func firstParagraphInlines(t *testing.T, input string) []Inline {
	t.Helper()
	doc := Parse([]byte(input))
	for _, b := range doc.Children {
		if p, ok := b.(*Paragraph); ok {
			return p.Children
		}
	}
	t.Fatalf("no paragraph in %q", input)
	return nil
}

func TestParseInlines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "PlainText",
			input: "hello world\n",
			want:  `text"hello world"`,
		},
		{
			name:  "Emphasis",
			input: "*foo bar*\n",
			want:  `em{text"foo bar"}`,
		},
		{
			name:  "Strong",
			input: "**foo**\n",
			want:  `strong{text"foo"}`,
		},
		{
			name:  "EmphasisInStrong",
			input: "***foo***\n",
			want:  `em{strong{text"foo"}}`,
		},
		{
			name:  "UnmatchedOpenerStaysLiteral",
			input: "**foo*\n",
			want:  `text"*" em{text"foo"}`,
		},
		{
			name:  "IntrawordUnderscore",
			input: "foo_bar_\n",
			want:  `text"foo_bar_"`,
		},
		{
			name:  "IntrawordAsterisk",
			input: "foo*bar*\n",
			want:  `text"foo" em{text"bar"}`,
		},
		{
			name:  "MultipleOfThreeRule",
			input: "*foo**bar**baz*\n",
			want:  `em{text"foo" strong{text"bar"} text"baz"}`,
		},
		{
			name:  "TrailingDelimiterStaysLiteral",
			input: "*a*b*\n",
			want:  `em{text"a"} text"b*"`,
		},
		{
			name:  "SumOfThreeBlocksInnerMatch",
			input: "**a*b**c*\n",
			want:  `strong{text"a*b"} text"c*"`,
		},
		{
			name:  "CodeSpan",
			input: "`foo`\n",
			want:  `code"foo"`,
		},
		{
			name:  "CodeSpanLongerFence",
			input: "`` foo ` bar ``\n",
			want:  "code\"foo ` bar\"",
		},
		{
			name:  "CodeSpanSuppressesEmphasis",
			input: "*foo`*`\n",
			want:  `text"*foo" code"*"`,
		},
		{
			name:  "BackslashEscape",
			input: "\\*not\\*\n",
			want:  `text"*not*"`,
		},
		{
			name:  "EntityNamed",
			input: "&copy;\n",
			want:  `text"©"`,
		},
		{
			name:  "EntityNumeric",
			input: "&#35;\n",
			want:  `text"#"`,
		},
		{
			name:  "EntityInvalidNumericIsReplacement",
			input: "&#0;\n",
			want:  "text\"�\"",
		},
		{
			name:  "InlineLink",
			input: "[text](/url \"title\")\n",
			want:  `link(/url,"title"){text"text"}`,
		},
		{
			name:  "InlineLinkNoTitle",
			input: "[text](/url)\n",
			want:  `link(/url){text"text"}`,
		},
		{
			name:  "LinkDestinationAngle",
			input: "[text](</my url>)\n",
			want:  `link(/my url){text"text"}`,
		},
		{
			name:  "FailedLinkStaysLiteral",
			input: "[text](/url\n",
			want:  `text"[text](/url"`,
		},
		{
			name:  "FullReferenceLink",
			input: "[foo]: /url\n\n[bar][foo]\n",
			want:  `link(/url){text"bar"}`,
		},
		{
			name:  "CollapsedReferenceLink",
			input: "[foo]: /url\n\n[foo][]\n",
			want:  `link(/url){text"foo"}`,
		},
		{
			name:  "ShortcutReferenceLink",
			input: "[foo]: /url\n\n[foo]\n",
			want:  `link(/url){text"foo"}`,
		},
		{
			name:  "UndefinedReferenceStaysLiteral",
			input: "[nope][missing]\n",
			want:  `text"[nope][missing]"`,
		},
		{
			name:  "LinksCannotNest",
			input: "[foo]: /url\n\n[a [foo](/inner)](/outer)\n",
			want:  `text"[a " link(/inner){text"foo"} text"](/outer)"`,
		},
		{
			name:  "ImageAltFlattens",
			input: "![foo *bar*](/url)\n",
			want:  `img(/url,"foo bar")`,
		},
		{
			name:  "ImagesCanNestInLinks",
			input: "[![alt](/img)](/page)\n",
			want:  `link(/page){img(/img,"alt")}`,
		},
		{
			name:  "URIAutolink",
			input: "<http://example.com/a?b=c>\n",
			want:  `link(http://example.com/a?b=c){text"http://example.com/a?b=c"}`,
		},
		{
			name:  "EmailAutolink",
			input: "<foo@bar.example.com>\n",
			want:  `link(mailto:foo@bar.example.com){text"foo@bar.example.com"}`,
		},
		{
			name:  "NotAnAutolink",
			input: "<not an autolink>\n",
			want:  `text"<not an autolink>"`,
		},
		{
			name:  "RawHTMLTag",
			input: "a <b foo=\"bar\"> c\n",
			want:  `text"a " rawhtml"<b foo=\"bar\">" text" c"`,
		},
		{
			name:  "RawHTMLComment",
			input: "a <!-- b --> c\n",
			want:  `text"a " rawhtml"<!-- b -->" text" c"`,
		},
		{
			name:  "HardBreakSpaces",
			input: "foo  \nbar\n",
			want:  `text"foo" hardbreak text"bar"`,
		},
		{
			name:  "HardBreakBackslash",
			input: "foo\\\nbar\n",
			want:  `text"foo" hardbreak text"bar"`,
		},
		{
			name:  "SoftBreak",
			input: "foo\nbar\n",
			want:  `text"foo" softbreak text"bar"`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := dumpInlines(firstParagraphInlines(t, test.input))
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Input:\n%s\nInlines (-want +got):\n%s", test.input, diff)
			}
		})
	}
}

func TestEmphasisExtensions(t *testing.T) {
	p, err := NewParser(Config{Strikethrough: true, Math: true})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Strikethrough",
			input: "~~gone~~\n",
			want:  `del{text"gone"}`,
		},
		{
			name:  "SingleTildeStaysLiteral",
			input: "~gone~\n",
			want:  `text"~gone~"`,
		},
		{
			name:  "TripleTildeStaysLiteral",
			input: "a ~~~gone~~~\n",
			want:  `text"a ~~~gone~~~"`,
		},
		{
			name:  "InlineMath",
			input: "$x^2$\n",
			want:  `math"x^2"`,
		},
		{
			name:  "UnclosedMathStaysLiteral",
			input: "cost is $5\n",
			want:  `text"cost is $5"`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := p.Parse([]byte(test.input))
			para, ok := doc.Children[0].(*Paragraph)
			if !ok {
				t.Fatalf("doc.Children[0] is %T; want *Paragraph", doc.Children[0])
			}
			got := dumpInlines(para.Children)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Input:\n%s\nInlines (-want +got):\n%s", test.input, diff)
			}
		})
	}
}

func TestStrikethroughOffByDefault(t *testing.T) {
	got := dumpInlines(firstParagraphInlines(t, "~~gone~~\n"))
	if want := `text"~~gone~~"`; got != want {
		t.Errorf("inlines = %s; want %s", got, want)
	}
}

// TestPathologicalBrackets feeds the classic quadratic-blowup input for
// bracket parsers. The run must finish in linear time; the deadline is
// generous so slow CI machines do not flake, while a quadratic scan
// would take minutes.
func TestPathologicalBrackets(t *testing.T) {
	input := "a](" + strings.Repeat("\\)", 10000) + "\n"
	start := time.Now()
	doc := Parse([]byte(input))
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("parse took %v; want well under 5s", elapsed)
	}
	if len(doc.Children) != 1 {
		t.Fatalf("len(doc.Children) = %d; want 1", len(doc.Children))
	}
}

func TestPathologicalEmphasis(t *testing.T) {
	input := strings.Repeat("*a ", 20000) + "\n"
	start := time.Now()
	Parse([]byte(input))
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("parse took %v; want well under 5s", elapsed)
	}
}

func TestInlineLocations(t *testing.T) {
	const input = "ab *cd* ef\n"
	inlines := firstParagraphInlines(t, input)
	if len(inlines) != 3 {
		t.Fatalf("len(inlines) = %d; want 3", len(inlines))
	}
	em, ok := inlines[1].(*Emphasis)
	if !ok {
		t.Fatalf("inlines[1] is %T; want *Emphasis", inlines[1])
	}
	if got := em.Loc; got.Offset != 3 || got.EndOffset != 7 {
		t.Errorf("em.Loc spans [%d,%d); want [3,7)", got.Offset, got.EndOffset)
	}
	inner := em.Children[0].(*Text)
	if got := inner.Loc; got.Offset != 4 || got.EndOffset != 6 {
		t.Errorf("inner.Loc spans [%d,%d); want [4,6)", got.Offset, got.EndOffset)
	}
}
