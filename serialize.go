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
	"encoding/json"
	"fmt"
)

// ToJSON serializes a node to a deterministic JSON document: the same
// tree always produces byte-identical output, because map keys
// marshal in sorted order.
func ToJSON(n Node) ([]byte, error) {
	m := ToMap(n)
	out, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("serialize markdown ast: %w", err)
	}
	return out, nil
}

// FromJSON reconstructs a node from its JSON serialization.
func FromJSON(data []byte) (Node, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("deserialize markdown ast: %w", err)
	}
	n, err := FromMap(m)
	if err != nil {
		return nil, fmt.Errorf("deserialize markdown ast: %w", err)
	}
	return n, nil
}

// RestoreDocument reconstructs a document from its JSON serialization
// and re-attaches the source text it was parsed from, so fenced code
// blocks that store content by offset stay readable.
func RestoreDocument(data, source []byte, file string) (*Document, error) {
	n, err := FromJSON(data)
	if err != nil {
		return nil, err
	}
	doc, ok := n.(*Document)
	if !ok {
		return nil, fmt.Errorf("deserialize markdown ast: root is %T, not a document", n)
	}
	doc.source = NewSourceBuffer(source, file)
	return doc, nil
}

// ToMap converts a node into a plain map representation with a _type
// discriminator per node, suitable for JSON or any other codec.
func ToMap(n Node) map[string]any {
	m := map[string]any{"location": locToMap(n.Location())}
	switch n := n.(type) {
	case *Document:
		m["_type"] = "document"
		m["children"] = blocksToMaps(n.Children)
		if len(n.References) > 0 {
			refs := make(map[string]any, len(n.References))
			for label, def := range n.References {
				refs[label] = map[string]any{
					"destination":   def.Destination,
					"title":         def.Title,
					"title_present": def.TitlePresent,
				}
			}
			m["references"] = refs
		}
	case *Heading:
		m["_type"] = "heading"
		m["level"] = n.Level
		m["style"] = n.Style.String()
		m["children"] = inlinesToMaps(n.Children)
		if n.ExplicitID != "" {
			m["explicit_id"] = n.ExplicitID
		}
	case *Paragraph:
		m["_type"] = "paragraph"
		m["children"] = inlinesToMaps(n.Children)
	case *FencedCode:
		m["_type"] = "fenced_code"
		m["info"] = n.Info
		m["marker"] = string(n.Marker)
		m["fence_indent"] = n.FenceIndent
		m["source_start"] = n.SourceStart
		m["source_end"] = n.SourceEnd
		m["has_override"] = n.HasOverride
		if n.HasOverride {
			m["override"] = n.Override
		}
	case *IndentedCode:
		m["_type"] = "indented_code"
		m["code"] = n.Code
	case *BlockQuote:
		m["_type"] = "block_quote"
		m["children"] = blocksToMaps(n.Children)
	case *List:
		m["_type"] = "list"
		m["ordered"] = n.Ordered
		m["start"] = n.Start
		m["tight"] = n.Tight
		items := make([]any, len(n.Items))
		for i, item := range n.Items {
			items[i] = ToMap(item)
		}
		m["items"] = items
	case *ListItem:
		m["_type"] = "list_item"
		m["checked"] = int(n.Checked)
		m["children"] = blocksToMaps(n.Children)
	case *ThematicBreak:
		m["_type"] = "thematic_break"
	case *HTMLBlock:
		m["_type"] = "html_block"
		m["html"] = n.HTML
	case *LinkReferenceDef:
		m["_type"] = "link_reference_def"
		m["label"] = n.Label
		m["destination"] = n.Destination
		m["title"] = n.Title
		m["has_title"] = n.HasTitle
	case *Table:
		m["_type"] = "table"
		if n.Head != nil {
			m["head"] = ToMap(n.Head)
		}
		body := make([]any, len(n.Body))
		for i, row := range n.Body {
			body[i] = ToMap(row)
		}
		m["body"] = body
		aligns := make([]any, len(n.Alignments))
		for i, a := range n.Alignments {
			aligns[i] = int(a)
		}
		m["alignments"] = aligns
	case *TableRow:
		m["_type"] = "table_row"
		m["is_header"] = n.IsHeader
		cells := make([]any, len(n.Cells))
		for i, cell := range n.Cells {
			cells[i] = ToMap(cell)
		}
		m["cells"] = cells
	case *TableCell:
		m["_type"] = "table_cell"
		m["is_header"] = n.IsHeader
		m["align"] = int(n.Align)
		m["children"] = inlinesToMaps(n.Children)
	case *MathBlock:
		m["_type"] = "math_block"
		m["content"] = n.Content
	case *FootnoteDef:
		m["_type"] = "footnote_def"
		m["identifier"] = n.Identifier
		m["children"] = blocksToMaps(n.Children)
	case *Directive:
		m["_type"] = "directive"
		m["name"] = n.Name
		m["title"] = n.Title
		if len(n.Options) > 0 {
			opts := make(map[string]any, len(n.Options))
			for k, v := range n.Options {
				opts[k] = v
			}
			m["options"] = opts
		}
		m["children"] = blocksToMaps(n.Children)
		if n.RawContent != "" {
			m["raw_content"] = n.RawContent
		}
	case *Text:
		m["_type"] = "text"
		m["content"] = n.Content
	case *Emphasis:
		m["_type"] = "emphasis"
		m["children"] = inlinesToMaps(n.Children)
	case *Strong:
		m["_type"] = "strong"
		m["children"] = inlinesToMaps(n.Children)
	case *Strikethrough:
		m["_type"] = "strikethrough"
		m["children"] = inlinesToMaps(n.Children)
	case *CodeSpan:
		m["_type"] = "code_span"
		m["code"] = n.Code
	case *Link:
		m["_type"] = "link"
		m["url"] = n.URL
		m["title"] = n.Title
		m["title_present"] = n.TitlePresent
		m["children"] = inlinesToMaps(n.Children)
	case *Image:
		m["_type"] = "image"
		m["url"] = n.URL
		m["alt"] = n.Alt
		m["title"] = n.Title
		m["title_present"] = n.TitlePresent
	case *SoftBreak:
		m["_type"] = "soft_break"
	case *HardBreak:
		m["_type"] = "hard_break"
	case *HTMLInline:
		m["_type"] = "html_inline"
		m["html"] = n.HTML
	case *Math:
		m["_type"] = "math"
		m["content"] = n.Content
	case *FootnoteRef:
		m["_type"] = "footnote_ref"
		m["identifier"] = n.Identifier
	case *Role:
		m["_type"] = "role"
		m["name"] = n.Name
		m["content"] = n.Content
		m["target"] = n.Target
	default:
		panic(fmt.Sprintf("unknown node type %T", n))
	}
	return m
}

func blocksToMaps(blocks []Block) []any {
	out := make([]any, len(blocks))
	for i, b := range blocks {
		out[i] = ToMap(b)
	}
	return out
}

func inlinesToMaps(inlines []Inline) []any {
	out := make([]any, len(inlines))
	for i, n := range inlines {
		out[i] = ToMap(n)
	}
	return out
}

func locToMap(loc SourceLocation) map[string]any {
	m := map[string]any{
		"line":       loc.Line,
		"column":     loc.Column,
		"offset":     loc.Offset,
		"end_offset": loc.EndOffset,
	}
	if loc.File != "" {
		m["file"] = loc.File
	}
	return m
}

// FromMap reconstructs a node from its map representation.
// An unknown or missing _type is an error; missing scalar fields
// default to their zero values.
func FromMap(m map[string]any) (Node, error) {
	d := &mapDecoder{m: m}
	typ := d.str("_type")
	if typ == "" {
		return nil, fmt.Errorf("node map is missing _type")
	}
	loc := locFromMap(m["location"])

	var n Node
	switch typ {
	case "document":
		doc := &Document{Loc: loc, References: make(ReferenceMap)}
		blocks, err := d.blocks("children")
		if err != nil {
			return nil, err
		}
		doc.Children = blocks
		if refs, ok := m["references"].(map[string]any); ok {
			for label, v := range refs {
				rd := &mapDecoder{m: asMap(v)}
				doc.References[label] = LinkDefinition{
					Destination:  rd.str("destination"),
					Title:        rd.str("title"),
					TitlePresent: rd.boolean("title_present"),
				}
			}
		}
		n = doc
	case "heading":
		children, err := d.inlines("children")
		if err != nil {
			return nil, err
		}
		style := ATXHeading
		if d.str("style") == "setext" {
			style = SetextHeading
		}
		n = &Heading{Loc: loc, Level: d.num("level"), Style: style, Children: children, ExplicitID: d.str("explicit_id")}
	case "paragraph":
		children, err := d.inlines("children")
		if err != nil {
			return nil, err
		}
		n = &Paragraph{Loc: loc, Children: children}
	case "fenced_code":
		marker := byte('`')
		if s := d.str("marker"); s != "" {
			marker = s[0]
		}
		n = &FencedCode{
			Loc:         loc,
			Info:        d.str("info"),
			Marker:      marker,
			FenceIndent: d.num("fence_indent"),
			SourceStart: d.num("source_start"),
			SourceEnd:   d.num("source_end"),
			HasOverride: d.boolean("has_override"),
			Override:    d.str("override"),
		}
	case "indented_code":
		n = &IndentedCode{Loc: loc, Code: d.str("code")}
	case "block_quote":
		children, err := d.blocks("children")
		if err != nil {
			return nil, err
		}
		n = &BlockQuote{Loc: loc, Children: children}
	case "list":
		list := &List{Loc: loc, Ordered: d.boolean("ordered"), Start: d.num("start"), Tight: d.boolean("tight")}
		for _, v := range asSlice(m["items"]) {
			child, err := FromMap(asMap(v))
			if err != nil {
				return nil, err
			}
			item, ok := child.(*ListItem)
			if !ok {
				return nil, fmt.Errorf("list items must be list_item nodes, got %T", child)
			}
			list.Items = append(list.Items, item)
		}
		n = list
	case "list_item":
		children, err := d.blocks("children")
		if err != nil {
			return nil, err
		}
		n = &ListItem{Loc: loc, Children: children, Checked: TaskState(d.num("checked"))}
	case "thematic_break":
		n = &ThematicBreak{Loc: loc}
	case "html_block":
		n = &HTMLBlock{Loc: loc, HTML: d.str("html")}
	case "link_reference_def":
		n = &LinkReferenceDef{
			Loc:         loc,
			Label:       d.str("label"),
			Destination: d.str("destination"),
			Title:       d.str("title"),
			HasTitle:    d.boolean("has_title"),
		}
	case "table":
		t := &Table{Loc: loc}
		if head, ok := m["head"].(map[string]any); ok {
			child, err := FromMap(head)
			if err != nil {
				return nil, err
			}
			if row, ok := child.(*TableRow); ok {
				t.Head = row
			}
		}
		for _, v := range asSlice(m["body"]) {
			child, err := FromMap(asMap(v))
			if err != nil {
				return nil, err
			}
			if row, ok := child.(*TableRow); ok {
				t.Body = append(t.Body, row)
			}
		}
		for _, v := range asSlice(m["alignments"]) {
			t.Alignments = append(t.Alignments, Alignment(asInt(v)))
		}
		n = t
	case "table_row":
		row := &TableRow{Loc: loc, IsHeader: d.boolean("is_header")}
		for _, v := range asSlice(m["cells"]) {
			child, err := FromMap(asMap(v))
			if err != nil {
				return nil, err
			}
			if cell, ok := child.(*TableCell); ok {
				row.Cells = append(row.Cells, cell)
			}
		}
		n = row
	case "table_cell":
		children, err := d.inlines("children")
		if err != nil {
			return nil, err
		}
		n = &TableCell{Loc: loc, Children: children, IsHeader: d.boolean("is_header"), Align: Alignment(d.num("align"))}
	case "math_block":
		n = &MathBlock{Loc: loc, Content: d.str("content")}
	case "footnote_def":
		children, err := d.blocks("children")
		if err != nil {
			return nil, err
		}
		n = &FootnoteDef{Loc: loc, Identifier: d.str("identifier"), Children: children}
	case "directive":
		children, err := d.blocks("children")
		if err != nil {
			return nil, err
		}
		dir := &Directive{
			Loc:        loc,
			Name:       d.str("name"),
			Title:      d.str("title"),
			Children:   children,
			RawContent: d.str("raw_content"),
		}
		if opts, ok := m["options"].(map[string]any); ok {
			dir.Options = make(map[string]string, len(opts))
			for k, v := range opts {
				dir.Options[k] = fmt.Sprint(v)
			}
		}
		n = dir
	case "text":
		n = &Text{Loc: loc, Content: d.str("content")}
	case "emphasis":
		children, err := d.inlines("children")
		if err != nil {
			return nil, err
		}
		n = &Emphasis{Loc: loc, Children: children}
	case "strong":
		children, err := d.inlines("children")
		if err != nil {
			return nil, err
		}
		n = &Strong{Loc: loc, Children: children}
	case "strikethrough":
		children, err := d.inlines("children")
		if err != nil {
			return nil, err
		}
		n = &Strikethrough{Loc: loc, Children: children}
	case "code_span":
		n = &CodeSpan{Loc: loc, Code: d.str("code")}
	case "link":
		children, err := d.inlines("children")
		if err != nil {
			return nil, err
		}
		n = &Link{Loc: loc, URL: d.str("url"), Title: d.str("title"), TitlePresent: d.boolean("title_present"), Children: children}
	case "image":
		n = &Image{Loc: loc, URL: d.str("url"), Alt: d.str("alt"), Title: d.str("title"), TitlePresent: d.boolean("title_present")}
	case "soft_break":
		n = &SoftBreak{Loc: loc}
	case "hard_break":
		n = &HardBreak{Loc: loc}
	case "html_inline":
		n = &HTMLInline{Loc: loc, HTML: d.str("html")}
	case "math":
		n = &Math{Loc: loc, Content: d.str("content")}
	case "footnote_ref":
		n = &FootnoteRef{Loc: loc, Identifier: d.str("identifier")}
	case "role":
		n = &Role{Loc: loc, Name: d.str("name"), Content: d.str("content"), Target: d.str("target")}
	default:
		return nil, fmt.Errorf("unknown node type %q", typ)
	}
	return n, nil
}

type mapDecoder struct {
	m map[string]any
}

func (d *mapDecoder) str(key string) string {
	s, _ := d.m[key].(string)
	return s
}

func (d *mapDecoder) num(key string) int {
	return asInt(d.m[key])
}

func (d *mapDecoder) boolean(key string) bool {
	b, _ := d.m[key].(bool)
	return b
}

func (d *mapDecoder) blocks(key string) ([]Block, error) {
	var out []Block
	for _, v := range asSlice(d.m[key]) {
		child, err := FromMap(asMap(v))
		if err != nil {
			return nil, err
		}
		b, ok := child.(Block)
		if !ok {
			return nil, fmt.Errorf("expected a block node, got %T", child)
		}
		out = append(out, b)
	}
	return out, nil
}

func (d *mapDecoder) inlines(key string) ([]Inline, error) {
	var out []Inline
	for _, v := range asSlice(d.m[key]) {
		child, err := FromMap(asMap(v))
		if err != nil {
			return nil, err
		}
		n, ok := child.(Inline)
		if !ok {
			return nil, fmt.Errorf("expected an inline node, got %T", child)
		}
		out = append(out, n)
	}
	return out, nil
}

func locFromMap(v any) SourceLocation {
	m := asMap(v)
	if m == nil {
		return SourceLocation{}
	}
	d := &mapDecoder{m: m}
	return SourceLocation{
		Line:      d.num("line"),
		Column:    d.num("column"),
		Offset:    d.num("offset"),
		EndOffset: d.num("end_offset"),
		File:      d.str("file"),
	}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asInt(v any) int {
	switch v := v.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}
