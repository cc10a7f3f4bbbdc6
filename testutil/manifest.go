/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

package testutil

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Manifest describes a packed image fixture declaratively, so a test
// case can live as data instead of a chain of builder calls.
type Manifest struct {
	Files []ManifestFile `yaml:"files"`
}

// ManifestFile is one file entry in a Manifest.
type ManifestFile struct {
	Path    string `yaml:"path"`
	Content string `yaml:"content"`
	Preview bool   `yaml:"preview"`
}

// LoadManifest parses a YAML fixture manifest.
func LoadManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("testutil: parsing manifest: %w", err)
	}
	return &m, nil
}

// BuildFakeProvider materializes the manifest into a FakeProvider.
func (m *Manifest) BuildFakeProvider() *FakeProvider {
	p := NewFakeProvider()
	for _, f := range m.Files {
		if f.Preview {
			p.AddPreviewFile(f.Path, []byte(f.Content))
		} else {
			p.AddFile(f.Path, []byte(f.Content))
		}
	}
	return p
}

// BuildImage materializes the manifest into real packed-image bytes
// via ImageBuilder, for tests exercising the jimage provider.
func (m *Manifest) BuildImage() []byte {
	b := NewImageBuilder()
	for _, f := range m.Files {
		path := f.Path
		if f.Preview {
			path = prefixPreview(path)
		}
		b.AddFilePath(path, []byte(f.Content))
	}
	return b.Build()
}

// prefixPreview rewrites "mod/a/b" into "mod/META-INF/preview/a/b",
// the storage convention package jimage recognizes as the preview
// layer for "mod/a/b".
func prefixPreview(resourcePath string) string {
	for i := 0; i < len(resourcePath); i++ {
		if resourcePath[i] == '/' {
			return resourcePath[:i] + "/META-INF/preview/" + resourcePath[i+1:]
		}
	}
	return resourcePath
}
