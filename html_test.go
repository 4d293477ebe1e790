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

func renderString(t *testing.T, r *HTMLRenderer, doc *Document) string {
	t.Helper()
	return string(r.AppendDocument(nil, doc))
}

func TestRenderSoftBreakBehavior(t *testing.T) {
	doc := Parse([]byte("a\nb\n"))
	tests := []struct {
		behavior SoftBreakBehavior
		want     string
	}{
		{SoftBreakPreserve, "<p>a\nb</p>\n"},
		{SoftBreakSpace, "<p>a b</p>\n"},
		{SoftBreakHarden, "<p>a<br>\nb</p>\n"},
	}
	for _, test := range tests {
		t.Run(test.behavior.String(), func(t *testing.T) {
			r := &HTMLRenderer{SoftBreakBehavior: test.behavior}
			if got := renderString(t, r, doc); got != test.want {
				t.Errorf("rendered %q; want %q", got, test.want)
			}
		})
	}
}

func TestRenderIgnoreRaw(t *testing.T) {
	doc := Parse([]byte("<div>\nx\n</div>\n\na <b> c\n"))
	r := &HTMLRenderer{IgnoreRaw: true}
	got := renderString(t, r, doc)
	want := "\n<p>a  c</p>\n"
	if got != want {
		t.Errorf("rendered %q; want %q", got, want)
	}
}

func TestRenderFilterTag(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "InlineScript",
			input: "foo <script>alert(1)</script>\n",
			want:  "<p>foo &lt;script>alert(1)&lt;/script></p>\n",
		},
		{
			name:  "AllowedTagUntouched",
			input: "foo <b>bar</b>\n",
			want:  "<p>foo <b>bar</b></p>\n",
		},
		{
			name:  "CaseInsensitive",
			input: "foo <ScRiPt>\n",
			want:  "<p>foo &lt;ScRiPt></p>\n",
		},
		{
			name:  "CommentPassesThrough",
			input: "foo <!-- <script> -->\n",
			want:  "<p>foo <!-- <script> --></p>\n",
		},
	}
	r := &HTMLRenderer{FilterTag: FilterTagGFM}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := Parse([]byte(test.input))
			if got := renderString(t, r, doc); got != test.want {
				t.Errorf("rendered %q; want %q", got, test.want)
			}
		})
	}
}

func TestRenderHeadingID(t *testing.T) {
	doc := Parse([]byte("# Title {#custom-id}\n"))
	got := renderString(t, new(HTMLRenderer), doc)
	want := "<h1 id=\"custom-id\">Title</h1>\n"
	if got != want {
		t.Errorf("rendered %q; want %q", got, want)
	}
}

func TestRenderTable(t *testing.T) {
	p, err := NewParser(Config{Tables: true})
	if err != nil {
		t.Fatal(err)
	}
	doc := p.Parse([]byte("| a | b |\n| :-- | --: |\n| c | d |\n"))
	got := renderString(t, new(HTMLRenderer), doc)
	want := "<table>\n<thead>\n<tr>\n" +
		"<th align=\"left\">a</th>\n<th align=\"right\">b</th>\n" +
		"</tr>\n</thead>\n<tbody>\n<tr>\n" +
		"<td align=\"left\">c</td>\n<td align=\"right\">d</td>\n" +
		"</tr>\n</tbody>\n</table>\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered table (-want +got):\n%s", diff)
	}
}

func TestRenderTaskList(t *testing.T) {
	p, err := NewParser(Config{TaskLists: true})
	if err != nil {
		t.Fatal(err)
	}
	doc := p.Parse([]byte("- [x] done\n- [ ] open\n"))
	got := renderString(t, new(HTMLRenderer), doc)
	want := "<ul>\n" +
		"<li><input type=\"checkbox\" disabled=\"\" checked=\"\"> done</li>\n" +
		"<li><input type=\"checkbox\" disabled=\"\"> open</li>\n" +
		"</ul>\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered task list (-want +got):\n%s", diff)
	}
}

func TestRenderFootnotes(t *testing.T) {
	p, err := NewParser(Config{Footnotes: true})
	if err != nil {
		t.Fatal(err)
	}
	doc := p.Parse([]byte("a[^1]\n\n[^1]: note\n"))
	got := renderString(t, new(HTMLRenderer), doc)
	want := "<p>a<sup><a href=\"#fn-1\">1</a></sup></p>\n" +
		"<div class=\"footnote\" id=\"fn-1\">\n<p>note</p>\n</div>\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered footnotes (-want +got):\n%s", diff)
	}
}

func TestRenderMath(t *testing.T) {
	p, err := NewParser(Config{Math: true})
	if err != nil {
		t.Fatal(err)
	}
	doc := p.Parse([]byte("$$\nx < y\n$$\n\ninline $a+b$\n"))
	got := renderString(t, new(HTMLRenderer), doc)
	want := "<div class=\"math\">x &lt; y</div>\n" +
		"<p>inline <span class=\"math\">a+b</span></p>\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered math (-want +got):\n%s", diff)
	}
}

func TestRenderDirective(t *testing.T) {
	p, err := NewParser(Config{Directives: DirectiveMap{"note": BlockDirective{}}})
	if err != nil {
		t.Fatal(err)
	}
	doc := p.Parse([]byte(":::{note} Heads up\nbody\n:::\n"))
	got := renderString(t, new(HTMLRenderer), doc)
	want := "<div class=\"directive directive-note\">\n" +
		"<p class=\"directive-title\">Heads up</p>\n" +
		"<p>body</p>\n</div>\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered directive (-want +got):\n%s", diff)
	}
}

func TestRenderRole(t *testing.T) {
	p, err := NewParser(Config{Roles: RoleMap{"ref": struct{}{}}})
	if err != nil {
		t.Fatal(err)
	}
	doc := p.Parse([]byte("see {ref}`target`\n"))
	got := renderString(t, new(HTMLRenderer), doc)
	want := "<p>see <span class=\"role role-ref\">target</span></p>\n"
	if got != want {
		t.Errorf("rendered %q; want %q", got, want)
	}
}

func TestAppendBlock(t *testing.T) {
	doc := Parse([]byte("first\n\nsecond\n"))
	r := new(HTMLRenderer)
	got := string(r.AppendBlock(nil, doc.Children[1]))
	if want := "<p>second</p>\n"; got != want {
		t.Errorf("AppendBlock = %q; want %q", got, want)
	}
}

func TestRenderSourceOverride(t *testing.T) {
	const input = "```\ncode\n```\n"
	doc := Parse([]byte(input))
	data, err := ToJSON(doc)
	if err != nil {
		t.Fatal(err)
	}
	// A deserialized document has no buffer of its own; the renderer
	// must use the override.
	restored, err := FromJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	r := &HTMLRenderer{Source: NewSourceBuffer([]byte(input), "")}
	got := renderString(t, r, restored.(*Document))
	if want := "<pre><code>code\n</code></pre>\n"; got != want {
		t.Errorf("rendered %q; want %q", got, want)
	}
}

func TestNormalizeURI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/url", "/url"},
		{"/my url", "/my%20url"},
		{"foo?bar=baz#frag", "foo?bar=baz#frag"},
		{"%20", "%20"},
		{"%2x", "%252x"},
		{"café", "caf%C3%A9"},
		{"a\"b", "a%22b"},
	}
	for _, test := range tests {
		if got := NormalizeURI(test.in); got != test.want {
			t.Errorf("NormalizeURI(%q) = %q; want %q", test.in, got, test.want)
		}
	}
}
