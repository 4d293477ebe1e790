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

package normhtml

import "testing"

func TestNormalizeHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"TabsCollapse", "<p>a  \t b</p>", "<p>a b</p>"},
		{"NewlinesCollapse", "<p>a  \t\nb</p>", "<p>a b</p>"},
		{"SpacesCollapse", "<p>a  b</p>", "<p>a b</p>"},
		{"LeadingSpaceDropped", " <p>a  b</p>", "<p>a b</p>"},
		{"TrailingSpaceDropped", "<p>a  b</p> ", "<p>a b</p>"},
		{"SurroundingWhitespace", "\n\t<p>\n\t\ta  b\t\t</p>\n\t", "<p>a b</p>"},
		{"InlineTagKeepsTrailingSpace", "<i>a  b</i> ", "<i>a b</i> "},
		{"SelfClosingRewritten", "<br />", "<br>"},
		{"HrRewritten", "<hr />\n", "<hr>"},
		{"AttributesSorted", `<a title="bar" HREF="foo">x</a>`, `<a href="foo" title="bar">x</a>`},
		{"EntitiesDecoded", "&forall;&amp;&gt;&lt;&quot;", "∀&amp;&gt;&lt;&quot;"},
		{"PreKeepsWhitespace", "<pre><code>a  b\n</code></pre>", "<pre><code>a  b\n</code></pre>"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := NormalizeHTML([]byte(test.in)); string(got) != test.want {
				t.Errorf("NormalizeHTML(%q) = %q; want %q", test.in, got, test.want)
			}
		})
	}
}
