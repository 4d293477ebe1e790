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
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"zarza.dev/go/markdown/internal/spec"
)

// benchCorpus concatenates the conformance examples into one mixed
// document that touches every block and inline construct.
func benchCorpus(tb testing.TB) []byte {
	tb.Helper()
	examples, err := spec.Load()
	if err != nil {
		tb.Fatal(err)
	}
	var sb strings.Builder
	for _, ex := range examples {
		sb.WriteString(ex.Markdown)
		sb.WriteString("\n\n")
	}
	return []byte(sb.String())
}

func BenchmarkParse(b *testing.B) {
	source := benchCorpus(b)
	b.SetBytes(int64(len(source)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Parse(source)
	}
}

func BenchmarkRenderHTML(b *testing.B) {
	source := benchCorpus(b)
	doc := Parse(source)
	b.SetBytes(int64(len(source)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if err := RenderHTML(io.Discard, doc); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGoldmark(b *testing.B) {
	// Same corpus through goldmark, as a point of comparison.
	source := benchCorpus(b)
	md := goldmark.New()
	var buf bytes.Buffer
	b.SetBytes(int64(len(source)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		buf.Reset()
		if err := md.Convert(source, &buf); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkParseLinear parses the corpus at growing multiples so that
// super-linear regressions in the tokenizer show up as rising ns/byte.
func BenchmarkParseLinear(b *testing.B) {
	unit := benchCorpus(b)
	for _, n := range []int{1, 4, 16} {
		source := bytes.Repeat(unit, n)
		b.Run(fmt.Sprintf("%dx", n), func(b *testing.B) {
			b.SetBytes(int64(len(source)))
			for i := 0; i < b.N; i++ {
				Parse(source)
			}
		})
	}
}

func BenchmarkReparse(b *testing.B) {
	// Plain paragraphs, so the window fast path applies; the corpus
	// would force a full parse through its reference definitions.
	source := bytes.Repeat([]byte("a paragraph of ordinary prose text\n\n"), 2000)
	p, err := NewParser(Config{})
	if err != nil {
		b.Fatal(err)
	}
	doc := p.Parse(source)
	mid := len(source) / 2
	for source[mid] == '\n' {
		mid++
	}
	edited := make([]byte, len(source))
	copy(edited, source)
	edited[mid] = 'Z'
	b.SetBytes(int64(len(source)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := p.Reparse(doc, edited, mid, mid+1, 1); err != nil {
			b.Fatal(err)
		}
	}
}
