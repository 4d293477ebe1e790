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

// Package normhtml normalizes HTML for comparison in conformance tests,
// washing out differences that renderers legitimately disagree on:
// attribute order, whitespace between block tags, and self-closing tag
// syntax. The transformation follows the normalization used by the
// [CommonMark spec test runner].
//
// [CommonMark spec test runner]: https://github.com/commonmark/commonmark-spec/blob/0.30.0/test/normalize.py
package normhtml

import (
	"bytes"
	"regexp"
	"sort"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var interiorSpaceRE = regexp.MustCompile(`\s+`)

var textEscaper = bytereplacer.New(
	"&", "&amp;",
	"'", "&apos;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

type attribute struct {
	key   string
	value string
}

// NormalizeHTML rewrites an HTML fragment into a canonical form
// so that two renderings of the same document compare equal.
func NormalizeHTML(b []byte) []byte {
	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	var out []byte
	prev := html.StartTagToken
	prevTag := ""
	inPre := false
	for {
		switch tt := tok.Next(); tt {
		case html.ErrorToken:
			return out
		case html.TextToken:
			out = appendText(out, tok.Text(), prev, prevTag, inPre)
			prev = tt
		case html.EndTagToken:
			name, _ := tok.TagName()
			tag := string(name)
			if tag == "pre" {
				inPre = false
			} else if isBlockTag(name) {
				out = bytes.TrimRightFunc(out, unicode.IsSpace)
			}
			out = append(out, "</"...)
			out = append(out, tag...)
			out = append(out, '>')
			prev, prevTag = tt, tag
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tok.TagName()
			tag := string(name)
			if tag == "pre" {
				inPre = true
			}
			if isBlockTag(name) {
				out = bytes.TrimRightFunc(out, unicode.IsSpace)
			}
			out = append(out, '<')
			out = append(out, tag...)
			if hasAttr {
				out = appendAttrs(out, tok)
			}
			out = append(out, '>')
			prev, prevTag = tt, tag
			if tt == html.SelfClosingTagToken {
				prev = html.EndTagToken
			}
		case html.CommentToken:
			out = append(out, tok.Raw()...)
			prev = tt
		default:
			prev = tt
		}
	}
}

func appendText(out, data []byte, prev html.TokenType, prevTag string, inPre bool) []byte {
	afterTag := prev == html.StartTagToken || prev == html.EndTagToken
	if afterTag && prevTag == "br" {
		data = bytes.TrimLeft(data, "\n")
	}
	if !inPre {
		data = interiorSpaceRE.ReplaceAll(data, []byte(" "))
		if afterTag && isBlockTag([]byte(prevTag)) {
			if prev == html.StartTagToken {
				data = bytes.TrimLeftFunc(data, unicode.IsSpace)
			} else {
				data = bytes.TrimSpace(data)
			}
		}
	}
	return append(out, textEscaper.Replace(bytes.Clone(data))...)
}

func appendAttrs(out []byte, tok *html.Tokenizer) []byte {
	var attrs []attribute
	for {
		k, v, more := tok.TagAttr()
		attrs = append(attrs, attribute{string(k), string(v)})
		if !more {
			break
		}
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].key < attrs[j].key
	})
	for _, attr := range attrs {
		out = append(out, ' ')
		out = append(out, attr.key...)
		if attr.value != "" {
			out = append(out, `="`...)
			out = append(out, html.EscapeString(attr.value)...)
			out = append(out, '"')
		}
	}
	return out
}

// blockTags holds tags whose surrounding whitespace is not significant.
var blockTags = map[atom.Atom]bool{
	atom.Article:    true,
	atom.Aside:      true,
	atom.Blockquote: true,
	atom.Body:       true,
	atom.Button:     true,
	atom.Canvas:     true,
	atom.Caption:    true,
	atom.Col:        true,
	atom.Colgroup:   true,
	atom.Dd:         true,
	atom.Div:        true,
	atom.Dl:         true,
	atom.Dt:         true,
	atom.Embed:      true,
	atom.Fieldset:   true,
	atom.Figcaption: true,
	atom.Figure:     true,
	atom.Footer:     true,
	atom.Form:       true,
	atom.H1:         true,
	atom.H2:         true,
	atom.H3:         true,
	atom.H4:         true,
	atom.H5:         true,
	atom.H6:         true,
	atom.Header:     true,
	atom.Hgroup:     true,
	atom.Hr:         true,
	atom.Iframe:     true,
	atom.Li:         true,
	atom.Map:        true,
	atom.Object:     true,
	atom.Ol:         true,
	atom.Output:     true,
	atom.P:          true,
	atom.Pre:        true,
	atom.Progress:   true,
	atom.Script:     true,
	atom.Section:    true,
	atom.Style:      true,
	atom.Table:      true,
	atom.Tbody:      true,
	atom.Td:         true,
	atom.Textarea:   true,
	atom.Tfoot:      true,
	atom.Th:         true,
	atom.Thead:      true,
	atom.Tr:         true,
	atom.Ul:         true,
	atom.Video:      true,
}

func isBlockTag(name []byte) bool {
	return blockTags[atom.Lookup(name)]
}
