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

// An inlineWork entry is one node of the builder's working list.
// Entries for delimiter runs carry matching metadata until the
// resolver either pairs them or demotes them to their literal text.
type inlineWork struct {
	prev, next *inlineWork

	node Inline

	delim     byte
	count     int // delimiter characters not yet consumed
	origCount int
	canOpen   bool
	canClose  bool
}

func (w *inlineWork) isDelim() bool { return w.delim != 0 }

// openerKey buckets openers so that a failed backward search for one
// closer shape is never repeated. The original run length modulo 3
// participates because of the multiple-of-3 pairing rule.
type openerKey struct {
	delim   byte
	lenMod3 int
	canOpen bool
}

// processEmphasis pairs delimiter runs into Emphasis, Strong and
// Strikethrough nodes over the working list. Closers are taken left to
// right; for each closer the nearest matching opener wins, consuming
// two characters per side when both runs have two or more, else one.
// The openersBottom index makes the whole pass linear in the number of
// delimiters.
func processEmphasis(head *inlineWork) *inlineWork {
	openersBottom := make(map[openerKey]*inlineWork)

	closer := head
	for closer != nil {
		if !closer.isDelim() || !closer.canClose {
			closer = closer.next
			continue
		}

		key := openerKey{closer.delim, closer.origCount % 3, closer.canOpen}
		bottom := openersBottom[key]

		opener := closer.prev
		found := false
		for opener != nil && opener != bottom {
			if opener.isDelim() && opener.canOpen && opener.delim == closer.delim &&
				opener.count > 0 && delimsCanPair(opener, closer) {
				found = true
				break
			}
			opener = opener.prev
		}

		if !found {
			// Nothing to the left can ever match this shape.
			openersBottom[key] = closer.prev
			if !closer.canOpen {
				closer.demote()
			}
			closer = closer.next
			continue
		}

		use := 1
		if opener.count >= 2 && closer.count >= 2 {
			use = 2
		}
		var wrapped Inline
		loc := spanInlineLoc(opener, closer)
		children := spliceBetween(opener, closer)
		switch {
		case closer.delim == '~':
			wrapped = &Strikethrough{Loc: loc, Children: children}
			use = 2
		case use == 2:
			wrapped = &Strong{Loc: loc, Children: children}
		default:
			wrapped = &Emphasis{Loc: loc, Children: children}
		}

		opener.count -= use
		closer.count -= use
		opener.refreshText()
		closer.refreshText()

		// Insert the wrapped node between opener and closer.
		w := &inlineWork{node: wrapped, prev: opener, next: closer}
		opener.next = w
		closer.prev = w

		if opener.count == 0 {
			if head == opener {
				head = opener.remove()
			} else {
				opener.remove()
			}
		}
		if closer.count == 0 {
			next := closer.next
			closer.remove()
			closer = next
		}
	}

	// Leftover delimiter runs keep their literal text.
	for w := head; w != nil; w = w.next {
		if w.isDelim() {
			w.demote()
		}
	}
	return head
}

// delimsCanPair applies the multiple-of-3 rule: a run that can both
// open and close (on either side) may not pair when the combined
// original lengths are a multiple of 3, unless both lengths are.
func delimsCanPair(opener, closer *inlineWork) bool {
	if opener.delim == '~' {
		return opener.count == 2 && closer.count == 2
	}
	if !opener.canClose && !closer.canOpen {
		return true
	}
	if (opener.origCount+closer.origCount)%3 != 0 {
		return true
	}
	return opener.origCount%3 == 0 && closer.origCount%3 == 0
}

// spliceBetween removes all entries strictly between opener and closer
// and returns their nodes. Unpaired delimiters inside become text.
func spliceBetween(opener, closer *inlineWork) []Inline {
	var children []Inline
	for w := opener.next; w != closer; {
		if w.isDelim() {
			w.demote()
		}
		if w.node != nil {
			children = append(children, w.node)
		}
		next := w.next
		w.prev, w.next = nil, nil
		w = next
	}
	opener.next = closer
	closer.prev = opener
	return mergeTextNodes(children)
}

// demote turns an unpaired delimiter run into its literal text.
func (w *inlineWork) demote() {
	if t, ok := w.node.(*Text); ok && w.count != w.origCount {
		t.Content = strings.Repeat(string(w.delim), w.count)
	}
	w.delim = 0
}

// refreshText shrinks the run's text node after partial consumption.
// The opener keeps its leading bytes, so only content length matters
// for rendering; offsets tighten toward the run's inner edge.
func (w *inlineWork) refreshText() {
	if t, ok := w.node.(*Text); ok {
		t.Content = strings.Repeat(string(w.delim), w.count)
	}
}

// remove unlinks the entry and returns its successor.
func (w *inlineWork) remove() *inlineWork {
	if w.prev != nil {
		w.prev.next = w.next
	}
	if w.next != nil {
		w.next.prev = w.prev
	}
	next := w.next
	w.prev, w.next = nil, nil
	return next
}

func spanInlineLoc(opener, closer *inlineWork) SourceLocation {
	loc := opener.node.Location()
	loc.EndOffset = closer.node.Location().EndOffset
	return loc
}

func mergeTextNodes(nodes []Inline) []Inline {
	var out []Inline
	for _, n := range nodes {
		if t, ok := n.(*Text); ok {
			if t.Content == "" {
				continue
			}
			if len(out) > 0 {
				if prev, ok := out[len(out)-1].(*Text); ok {
					prev.Content += t.Content
					prev.Loc.EndOffset = t.Loc.EndOffset
					continue
				}
			}
		}
		out = append(out, n)
	}
	return out
}
