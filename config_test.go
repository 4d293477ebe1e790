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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "Zero", config: Config{}},
		{name: "AllExtensions", config: Config{
			Strikethrough: true,
			Tables:        true,
			TaskLists:     true,
			Footnotes:     true,
			Math:          true,
		}},
		{name: "NegativeMaxNesting", config: Config{MaxNesting: -1}, wantErr: true},
		{name: "ExplicitMaxNesting", config: Config{MaxNesting: 16}},
		{name: "StrictWithoutRegistries", config: Config{Strict: true}, wantErr: true},
		{name: "StrictWithDirectives", config: Config{
			Strict:     true,
			Directives: DirectiveMap{"note": BlockDirective{}},
		}},
		{name: "StrictWithRoles", config: Config{
			Strict: true,
			Roles:  RoleMap{"ref": struct{}{}},
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.config.Validate()
			if test.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewParser(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		p, err := NewParser(Config{Tables: true})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.True(t, p.Config().Tables)
		assert.False(t, p.Config().Footnotes)
	})
	t.Run("Invalid", func(t *testing.T) {
		p, err := NewParser(Config{MaxNesting: -3})
		assert.Nil(t, p)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestParserConcurrent(t *testing.T) {
	p, err := NewParser(Config{Strikethrough: true})
	require.NoError(t, err)
	const workers = 8
	done := make(chan *Document, workers)
	for i := 0; i < workers; i++ {
		go func() {
			done <- p.Parse([]byte("a ~~b~~ *c*\n"))
		}()
	}
	want := p.Parse([]byte("a ~~b~~ *c*\n"))
	for i := 0; i < workers; i++ {
		got := <-done
		assert.True(t, Equal(want, got))
	}
}

func TestParseNamedRecordsFile(t *testing.T) {
	p, err := NewParser(Config{})
	require.NoError(t, err)
	doc := p.ParseNamed([]byte("hello\n"), "README.md")
	assert.Equal(t, "README.md", doc.Loc.File)
	require.Len(t, doc.Children, 1)
	assert.Equal(t, "README.md", doc.Children[0].Location().File)
}
