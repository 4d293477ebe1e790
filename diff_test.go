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
	"zarza.dev/go/markdown/internal/spec"
)

func TestDiffIdentical(t *testing.T) {
	doc := Parse([]byte("# a\n\nb *c*\n"))
	if changes := Diff(doc, doc); len(changes) != 0 {
		t.Errorf("Diff(doc, doc) = %d changes; want none", len(changes))
	}

	// Two separate parses of the same source are Equal but not
	// pointer-identical; the diff must still be empty.
	other := Parse([]byte("# a\n\nb *c*\n"))
	if changes := Diff(doc, other); len(changes) != 0 {
		t.Errorf("Diff of identical parses = %d changes; want none", len(changes))
	}

	// Locations do not participate: the same blocks at different
	// offsets still compare clean.
	shifted := Parse([]byte("\n\n# a\n\nb *c*\n"))
	if changes := Diff(doc, shifted); len(changes) != 0 {
		t.Errorf("Diff of shifted parse = %d changes; want none", len(changes))
	}
}

func TestDiffCorpus(t *testing.T) {
	examples, err := spec.Load()
	if err != nil {
		t.Fatal(err)
	}
	for _, ex := range examples {
		a := Parse([]byte(ex.Markdown))
		b := Parse([]byte(ex.Markdown))
		if changes := Diff(a, b); len(changes) != 0 {
			t.Errorf("Example %d: Diff of identical parses = %v; want none", ex.Example, changes)
		}
	}
}

func TestDiffInsert(t *testing.T) {
	old := Parse([]byte("a\n\nc\n"))
	new := Parse([]byte("a\n\nb\n\nc\n"))
	changes := Diff(old, new)
	if len(changes) != 1 {
		t.Fatalf("Diff produced %d changes; want 1:\n%v", len(changes), changes)
	}
	c := changes[0]
	if c.Kind != ChangeInsert {
		t.Errorf("Kind = %v; want insert", c.Kind)
	}
	if diff := cmp.Diff([]int{1}, c.Path); diff != "" {
		t.Errorf("Path (-want +got):\n%s", diff)
	}
	if c.Old != nil {
		t.Errorf("Old = %v; want nil for insert", c.Old)
	}
	p, ok := c.New.(*Paragraph)
	if !ok || dumpInlines(p.Children) != `text"b"` {
		t.Errorf("New = %v; want paragraph b", c.New)
	}
}

func TestDiffDelete(t *testing.T) {
	old := Parse([]byte("a\n\nb\n\nc\n"))
	new := Parse([]byte("a\n\nc\n"))
	changes := Diff(old, new)
	if len(changes) != 1 {
		t.Fatalf("Diff produced %d changes; want 1:\n%v", len(changes), changes)
	}
	c := changes[0]
	if c.Kind != ChangeDelete {
		t.Errorf("Kind = %v; want delete", c.Kind)
	}
	if diff := cmp.Diff([]int{1}, c.Path); diff != "" {
		t.Errorf("Path (-want +got):\n%s", diff)
	}
	if c.New != nil {
		t.Errorf("New = %v; want nil for delete", c.New)
	}
}

func TestDiffRecursesIntoContainers(t *testing.T) {
	old := Parse([]byte("> one\n>\n> two\n"))
	new := Parse([]byte("> one\n>\n> 2\n"))
	changes := Diff(old, new)
	if len(changes) != 1 {
		t.Fatalf("Diff produced %d changes; want 1:\n%v", len(changes), changes)
	}
	c := changes[0]
	if c.Kind != ChangeReplace {
		t.Errorf("Kind = %v; want replace", c.Kind)
	}
	// document -> quote[0] -> paragraph[1] -> text[0]
	if diff := cmp.Diff([]int{0, 1, 0}, c.Path); diff != "" {
		t.Errorf("Path (-want +got):\n%s", diff)
	}
	if text, ok := c.New.(*Text); !ok || text.Content != "2" {
		t.Errorf("New = %#v; want text %q", c.New, "2")
	}
}

func TestDiffKindChangeIsReplace(t *testing.T) {
	old := Parse([]byte("text\n"))
	new := Parse([]byte("# text\n"))
	changes := Diff(old, new)
	if len(changes) != 1 {
		t.Fatalf("Diff produced %d changes; want 1:\n%v", len(changes), changes)
	}
	c := changes[0]
	if c.Kind != ChangeReplace {
		t.Errorf("Kind = %v; want replace", c.Kind)
	}
	if _, ok := c.Old.(*Paragraph); !ok {
		t.Errorf("Old is %T; want *Paragraph", c.Old)
	}
	if _, ok := c.New.(*Heading); !ok {
		t.Errorf("New is %T; want *Heading", c.New)
	}
}

func TestDiffHeadingAttrChange(t *testing.T) {
	// A level change replaces the whole heading instead of recursing.
	old := Parse([]byte("# same\n"))
	new := Parse([]byte("## same\n"))
	changes := Diff(old, new)
	if len(changes) != 1 || changes[0].Kind != ChangeReplace {
		t.Fatalf("Diff = %v; want one replace of the heading", changes)
	}
	if diff := cmp.Diff([]int{0}, changes[0].Path); diff != "" {
		t.Errorf("Path (-want +got):\n%s", diff)
	}
}

func TestDiffListItems(t *testing.T) {
	old := Parse([]byte("- a\n- b\n- c\n"))
	new := Parse([]byte("- a\n- B\n- c\n"))
	changes := Diff(old, new)
	if len(changes) != 1 {
		t.Fatalf("Diff produced %d changes; want 1:\n%v", len(changes), changes)
	}
	c := changes[0]
	if c.Kind != ChangeReplace {
		t.Errorf("Kind = %v; want replace", c.Kind)
	}
	// document -> list[0] -> item[1] -> paragraph[0] -> text[0]
	if diff := cmp.Diff([]int{0, 1, 0, 0}, c.Path); diff != "" {
		t.Errorf("Path (-want +got):\n%s", diff)
	}
}

func TestDiffEmphasisUnwrap(t *testing.T) {
	old := Parse([]byte("a *b* c\n"))
	new := Parse([]byte("a b c\n"))
	changes := Diff(old, new)
	if len(changes) == 0 {
		t.Fatal("Diff produced no changes; want at least one")
	}
	for _, c := range changes {
		if len(c.Path) < 2 || c.Path[0] != 0 {
			t.Errorf("change path %v does not point inside the paragraph", c.Path)
		}
	}
}

func TestDiffAfterReparse(t *testing.T) {
	p, err := NewParser(Config{})
	if err != nil {
		t.Fatal(err)
	}
	const source = "one\n\ntwo\n\nthree\n\nfour\n\nfive\n"
	previous := p.Parse([]byte(source))
	newSource := applyEdit(source, 10, 15, "3")
	reparsed, err := p.Reparse(previous, []byte(newSource), 10, 15, 1)
	if err != nil {
		t.Fatal(err)
	}
	changes := Diff(previous, reparsed)
	if len(changes) != 1 {
		t.Fatalf("Diff produced %d changes; want 1:\n%v", len(changes), changes)
	}
	if diff := cmp.Diff([]int{2, 0}, changes[0].Path); diff != "" {
		t.Errorf("Path (-want +got):\n%s", diff)
	}
	if text, ok := changes[0].New.(*Text); !ok || text.Content != "3" {
		t.Errorf("New = %#v; want text %q", changes[0].New, "3")
	}
}
