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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTables(t *testing.T) {
	p, err := NewParser(Config{Tables: true})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Basic",
			input: "| a | b |\n| --- | --- |\n| c | d |\n",
			want:  `table{header{cell:{text"a"} cell:{text"b"}} row{cell:{text"c"} cell:{text"d"}}}`,
		},
		{
			name:  "Alignments",
			input: "| a | b | c |\n| :-- | :-: | --: |\n| 1 | 2 | 3 |\n",
			want:  `table{header{cell:left{text"a"} cell:center{text"b"} cell:right{text"c"}} row{cell:left{text"1"} cell:center{text"2"} cell:right{text"3"}}}`,
		},
		{
			name:  "ShortRowPadded",
			input: "| a | b |\n| --- | --- |\n| c |\n",
			want:  `table{header{cell:{text"a"} cell:{text"b"}} row{cell:{text"c"} cell:{}}}`,
		},
		{
			name:  "LongRowTruncated",
			input: "| a | b |\n| --- | --- |\n| c | d | e |\n",
			want:  `table{header{cell:{text"a"} cell:{text"b"}} row{cell:{text"c"} cell:{text"d"}}}`,
		},
		{
			name:  "EscapedPipeStaysInCell",
			input: "| a \\| b |\n| --- |\n",
			want:  `table{header{cell:{text"a | b"}}}`,
		},
		{
			name:  "ColumnCountMismatchIsParagraph",
			input: "| a | b |\n| --- |\n",
			want:  `paragraph{text"| a | b |" softbreak text"| --- |"}`,
		},
		{
			name:  "TableEndsAtBlankLine",
			input: "| a |\n| --- |\n| b |\n\nafter\n",
			want:  `table{header{cell:{text"a"}} row{cell:{text"b"}}} paragraph{text"after"}`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := p.Parse([]byte(test.input))
			got := dumpBlocks(doc.Source(), doc.Children)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Input:\n%s\nBlocks (-want +got):\n%s", test.input, diff)
			}
		})
	}
}

func TestTablesOffByDefault(t *testing.T) {
	doc := Parse([]byte("| a |\n| --- |\n"))
	if _, ok := doc.Children[0].(*Table); ok {
		t.Error("table parsed without the Tables extension")
	}
}

func TestTaskLists(t *testing.T) {
	p, err := NewParser(Config{TaskLists: true})
	if err != nil {
		t.Fatal(err)
	}
	doc := p.Parse([]byte("- [ ] open\n- [x] done\n- [X] also done\n- plain\n"))
	list, ok := doc.Children[0].(*List)
	if !ok {
		t.Fatalf("doc.Children[0] is %T; want *List", doc.Children[0])
	}
	want := []TaskState{TaskUnchecked, TaskChecked, TaskChecked, TaskNone}
	if len(list.Items) != len(want) {
		t.Fatalf("len(list.Items) = %d; want %d", len(list.Items), len(want))
	}
	for i, item := range list.Items {
		if item.Checked != want[i] {
			t.Errorf("list.Items[%d].Checked = %d; want %d", i, item.Checked, want[i])
		}
	}
	// The marker must not leak into the item text.
	para := list.Items[0].Children[0].(*Paragraph)
	if got := dumpInlines(para.Children); got != `text"open"` {
		t.Errorf("first item inlines = %s; want text\"open\"", got)
	}
}

func TestFootnotes(t *testing.T) {
	p, err := NewParser(Config{Footnotes: true})
	if err != nil {
		t.Fatal(err)
	}
	const input = "body[^a] text\n\n[^a]: note line\n    continued\n"
	doc := p.Parse([]byte(input))
	if len(doc.Children) != 2 {
		t.Fatalf("len(doc.Children) = %d; want 2", len(doc.Children))
	}

	para := doc.Children[0].(*Paragraph)
	if got, want := dumpInlines(para.Children), `text"body" fnref(a) text" text"`; got != want {
		t.Errorf("paragraph inlines = %s; want %s", got, want)
	}

	def, ok := doc.Children[1].(*FootnoteDef)
	if !ok {
		t.Fatalf("doc.Children[1] is %T; want *FootnoteDef", doc.Children[1])
	}
	if def.Identifier != "a" {
		t.Errorf("def.Identifier = %q; want %q", def.Identifier, "a")
	}
	inner := def.Children[0].(*Paragraph)
	if got, want := dumpInlines(inner.Children), `text"note line" softbreak text"continued"`; got != want {
		t.Errorf("definition inlines = %s; want %s", got, want)
	}
}

func TestMathBlock(t *testing.T) {
	p, err := NewParser(Config{Math: true})
	if err != nil {
		t.Fatal(err)
	}
	doc := p.Parse([]byte("$$\nE = mc^2\n$$\n"))
	mb, ok := doc.Children[0].(*MathBlock)
	if !ok {
		t.Fatalf("doc.Children[0] is %T; want *MathBlock", doc.Children[0])
	}
	if got, want := mb.Content, "E = mc^2"; got != want {
		t.Errorf("mb.Content = %q; want %q", got, want)
	}
}

func TestMathBlockOffByDefault(t *testing.T) {
	doc := Parse([]byte("$$\nx\n$$\n"))
	if _, ok := doc.Children[0].(*MathBlock); ok {
		t.Error("math block parsed without the Math extension")
	}
}

func TestDirectives(t *testing.T) {
	registry := DirectiveMap{
		"note": BlockDirective{},
		"code": RawDirective{},
	}
	p, err := NewParser(Config{Directives: registry})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("BlockContent", func(t *testing.T) {
		const input = ":::{note} Watch out\n:class: warning\n\nBody *text*.\n:::\n"
		doc := p.Parse([]byte(input))
		d, ok := doc.Children[0].(*Directive)
		if !ok {
			t.Fatalf("doc.Children[0] is %T; want *Directive", doc.Children[0])
		}
		if d.Name != "note" {
			t.Errorf("d.Name = %q; want %q", d.Name, "note")
		}
		if d.Title != "Watch out" {
			t.Errorf("d.Title = %q; want %q", d.Title, "Watch out")
		}
		if got, want := d.Options["class"], "warning"; got != want {
			t.Errorf("d.Options[\"class\"] = %q; want %q", got, want)
		}
		if got, want := dumpBlocks(doc.Source(), d.Children), `paragraph{text"Body " em{text"text"} text"."}`; got != want {
			t.Errorf("d.Children = %s; want %s", got, want)
		}
	})

	t.Run("RawContent", func(t *testing.T) {
		const input = ":::{code}\nnot *parsed*\n:::\n"
		doc := p.Parse([]byte(input))
		d := doc.Children[0].(*Directive)
		if got, want := d.RawContent, "not *parsed*"; got != want {
			t.Errorf("d.RawContent = %q; want %q", got, want)
		}
		if len(d.Children) != 0 {
			t.Errorf("len(d.Children) = %d; want 0 for raw directive", len(d.Children))
		}
	})

	t.Run("NestedColonRuns", func(t *testing.T) {
		const input = ":::{note}\n:::{note}\ninner\n:::\n:::\n"
		doc := p.Parse([]byte(input))
		if len(doc.Children) != 1 {
			t.Fatalf("len(doc.Children) = %d; want 1", len(doc.Children))
		}
		outer := doc.Children[0].(*Directive)
		inner, ok := outer.Children[0].(*Directive)
		if !ok {
			t.Fatalf("outer.Children[0] is %T; want *Directive", outer.Children[0])
		}
		if got, want := dumpBlocks(doc.Source(), inner.Children), `paragraph{text"inner"}`; got != want {
			t.Errorf("inner.Children = %s; want %s", got, want)
		}
	})

	t.Run("UnregisteredParsesBlocks", func(t *testing.T) {
		doc := p.Parse([]byte(":::{mystery}\nbody\n:::\n"))
		d := doc.Children[0].(*Directive)
		if got, want := dumpBlocks(doc.Source(), d.Children), `paragraph{text"body"}`; got != want {
			t.Errorf("d.Children = %s; want %s", got, want)
		}
		if d.RawContent != "" {
			t.Errorf("d.RawContent = %q; want empty", d.RawContent)
		}
	})

	t.Run("StrictUnregisteredIsLiteral", func(t *testing.T) {
		strict, err := NewParser(Config{Directives: registry, Strict: true})
		if err != nil {
			t.Fatal(err)
		}
		doc := strict.Parse([]byte(":::{mystery}\nbody\n:::\n"))
		if _, ok := doc.Children[0].(*Paragraph); !ok {
			t.Errorf("doc.Children[0] is %T; want *Paragraph in strict mode", doc.Children[0])
		}
	})
}

func TestRoles(t *testing.T) {
	registry := RoleMap{"ref": struct{}{}, "math": struct{}{}}
	p, err := NewParser(Config{Roles: registry})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Basic",
			input: "see {ref}`section`\n",
			want:  `text"see " role(ref,"section")`,
		},
		{
			name:  "WithTarget",
			input: "see {ref}`Section Title <section-label>`\n",
			want:  `text"see " role(ref,"Section Title","section-label")`,
		},
		{
			name:  "UnregisteredNameStillParses",
			input: "see {nope}`x`\n",
			want:  `text"see " role(nope,"x")`,
		},
		{
			name:  "BraceWithoutBacktickStaysLiteral",
			input: "set {a: 1}\n",
			want:  `text"set {a: 1}"`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := p.Parse([]byte(test.input))
			para := doc.Children[0].(*Paragraph)
			got := dumpInlines(para.Children)
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Input:\n%s\nInlines (-want +got):\n%s", test.input, diff)
			}
		})
	}
}
