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

// ChangeKind classifies one structural difference between two trees.
type ChangeKind uint8

const (
	// ChangeInsert is a node present only in the new tree.
	ChangeInsert ChangeKind = 1 + iota
	// ChangeDelete is a node present only in the old tree.
	ChangeDelete
	// ChangeReplace is a node whose structure differs between trees.
	ChangeReplace
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInsert:
		return "insert"
	case ChangeDelete:
		return "delete"
	case ChangeReplace:
		return "replace"
	}
	return fmt.Sprintf("ChangeKind(%d)", uint8(k))
}

// A Change is one structural difference found by Diff.
// Path addresses the changed child by position: each element is an
// index into the children of the node above it, starting at the
// document. For inserts the path names the position in the new tree;
// for deletes, the position in the old tree.
type Change struct {
	Kind ChangeKind
	Path []int
	Old  Node // nil for inserts
	New  Node // nil for deletes
}

// Diff computes the positional structural difference between two
// documents. Nodes compare by Equal, so source locations never produce
// changes; identical pointers short-circuit, which makes diffing a
// document against its incremental re-parse proportional to the edited
// window rather than the whole tree.
//
// The diff is positional, not a minimum edit script: when the k-th
// top-level block changes, blocks are matched index by index with a
// common prefix and suffix trimmed, and the remainder reported as
// replaces plus inserts or deletes. Diff(a, a) is always empty.
func Diff(old, new *Document) []Change {
	if old == new {
		return nil
	}
	return diffBlockList(nil, old.Children, new.Children)
}

func diffBlockList(path []int, old, new []Block) []Change {
	oldNodes := make([]Node, len(old))
	for i, b := range old {
		oldNodes[i] = b
	}
	newNodes := make([]Node, len(new))
	for i, b := range new {
		newNodes[i] = b
	}
	return diffNodeList(path, oldNodes, newNodes)
}

func diffInlineList(path []int, old, new []Inline) []Change {
	oldNodes := make([]Node, len(old))
	for i, n := range old {
		oldNodes[i] = n
	}
	newNodes := make([]Node, len(new))
	for i, n := range new {
		newNodes[i] = n
	}
	return diffNodeList(path, oldNodes, newNodes)
}

func diffNodeList(path []int, old, new []Node) []Change {
	prefix := 0
	for prefix < len(old) && prefix < len(new) && Equal(old[prefix], new[prefix]) {
		prefix++
	}
	oldEnd, newEnd := len(old), len(new)
	for oldEnd > prefix && newEnd > prefix && Equal(old[oldEnd-1], new[newEnd-1]) {
		oldEnd--
		newEnd--
	}

	var changes []Change
	i, j := prefix, prefix
	for i < oldEnd && j < newEnd {
		changes = append(changes, diffNode(childPath(path, j), old[i], new[j])...)
		i++
		j++
	}
	for ; i < oldEnd; i++ {
		changes = append(changes, Change{Kind: ChangeDelete, Path: childPath(path, i), Old: old[i]})
	}
	for ; j < newEnd; j++ {
		changes = append(changes, Change{Kind: ChangeInsert, Path: childPath(path, j), New: new[j]})
	}
	return changes
}

// diffNode compares two positionally matched nodes. Containers of the
// same kind recurse into their children so the report points at the
// deepest changed positions; everything else is a whole-node replace.
func diffNode(path []int, old, new Node) []Change {
	if old == new || Equal(old, new) {
		return nil
	}
	switch o := old.(type) {
	case *BlockQuote:
		if n, ok := new.(*BlockQuote); ok {
			return diffBlockList(path, o.Children, n.Children)
		}
	case *ListItem:
		if n, ok := new.(*ListItem); ok && o.Checked == n.Checked {
			return diffBlockList(path, o.Children, n.Children)
		}
	case *List:
		if n, ok := new.(*List); ok && o.Ordered == n.Ordered && o.Start == n.Start && o.Tight == n.Tight {
			oldItems := make([]Node, len(o.Items))
			for i, item := range o.Items {
				oldItems[i] = item
			}
			newItems := make([]Node, len(n.Items))
			for i, item := range n.Items {
				newItems[i] = item
			}
			return diffNodeList(path, oldItems, newItems)
		}
	case *FootnoteDef:
		if n, ok := new.(*FootnoteDef); ok && o.Identifier == n.Identifier {
			return diffBlockList(path, o.Children, n.Children)
		}
	case *Paragraph:
		if n, ok := new.(*Paragraph); ok {
			return diffInlineList(path, o.Children, n.Children)
		}
	case *Heading:
		if n, ok := new.(*Heading); ok && o.Level == n.Level && o.Style == n.Style && o.ExplicitID == n.ExplicitID {
			return diffInlineList(path, o.Children, n.Children)
		}
	case *Emphasis:
		if n, ok := new.(*Emphasis); ok {
			return diffInlineList(path, o.Children, n.Children)
		}
	case *Strong:
		if n, ok := new.(*Strong); ok {
			return diffInlineList(path, o.Children, n.Children)
		}
	case *Strikethrough:
		if n, ok := new.(*Strikethrough); ok {
			return diffInlineList(path, o.Children, n.Children)
		}
	case *Link:
		if n, ok := new.(*Link); ok && o.URL == n.URL && o.Title == n.Title && o.TitlePresent == n.TitlePresent {
			return diffInlineList(path, o.Children, n.Children)
		}
	}
	return []Change{{Kind: ChangeReplace, Path: path, Old: old, New: new}}
}

// childPath appends an index to a path without sharing the backing
// array between sibling changes.
func childPath(path []int, idx int) []int {
	out := make([]int, len(path)+1)
	copy(out, path)
	out[len(path)] = idx
	return out
}
