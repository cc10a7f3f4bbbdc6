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

// Package testutil provides fixtures for exercising the engine and
// provider packages without a real packed image file, the same role
// the teacher's internal/mapfs plays for fs.FileSystem: a fully
// in-memory stand-in that is quick to construct and cheap to assert
// against.
package testutil

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"jrtfs.dev/jrtfs/provider"
	"jrtfs.dev/jrtfs/vnode"
	"jrtfs.dev/jrtfs/vpath"
)

// FakeProvider is an in-memory provider.ResourceProvider backed by two
// flat maps of resource path to content: one for the base layer, one
// for the preview layer. Directories are implicit — any resource path
// that is a "/"-bounded prefix of a registered file's path is a
// directory. A real packed image records its pseudo-directories
// explicitly instead (see package jimage), so this fake cannot model
// an empty directory.
type FakeProvider struct {
	mu      sync.RWMutex
	base    map[string][]byte
	preview map[string][]byte
}

// NewFakeProvider returns an empty FakeProvider.
func NewFakeProvider() *FakeProvider {
	return &FakeProvider{
		base:    make(map[string][]byte),
		preview: make(map[string][]byte),
	}
}

// AddFile registers a base-layer file at resourcePath (e.g.
// "mod.one/java/foo/Foo.class").
func (p *FakeProvider) AddFile(resourcePath string, content []byte) *FakeProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base[resourcePath] = content
	return p
}

// AddPreviewFile registers a preview-layer file at resourcePath, using
// the same (non-prefixed) resource-path form as AddFile: this fake
// models the provider's already-translated public view, not the
// internal META-INF/preview storage convention a real packed-image
// provider uses (see package jimage for that).
func (p *FakeProvider) AddPreviewFile(resourcePath string, content []byte) *FakeProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.preview[resourcePath] = content
	return p
}

func (p *FakeProvider) layer(preview bool) map[string][]byte {
	if preview {
		return p.preview
	}
	return p.base
}

// GetResource implements provider.ResourceProvider.
func (p *FakeProvider) GetResource(resourcePath string, factory provider.NodeFactory, preview bool) (vnode.Node, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	absPath := vpath.Resolve(vpath.ModulesPrefix, resourcePath)

	if resourcePath == "" {
		return factory.NewDirectory(absPath, resourcePath), true
	}

	m := p.layer(preview)
	if content, ok := m[resourcePath]; ok {
		c := content
		return factory.NewFile(absPath, func() ([]byte, error) { return c, nil }), true
	}
	if p.isDirLocked(resourcePath, preview) {
		return factory.NewDirectory(absPath, resourcePath), true
	}
	return nil, false
}

// ForEachChildOf implements provider.ResourceProvider.
func (p *FakeProvider) ForEachChildOf(factory provider.NodeFactory, resourcePath string, preview bool, sink provider.ChildSink) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	prefix := ""
	if resourcePath != "" {
		prefix = resourcePath + "/"
	}

	m := p.layer(preview)
	emitted := make(map[string]bool)
	for path, content := range m {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		rest := path[len(prefix):]
		if rest == "" {
			continue
		}
		var childRel string
		var isDir bool
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			childRel = prefix + rest[:idx]
			isDir = true
		} else {
			childRel = prefix + rest
			isDir = false
		}
		if emitted[childRel] {
			continue
		}
		emitted[childRel] = true

		absPath := vpath.Resolve(vpath.ModulesPrefix, childRel)
		if isDir {
			sink(factory.NewDirectory(absPath, childRel))
		} else {
			c := content
			sink(factory.NewFile(absPath, func() ([]byte, error) { return c, nil }))
		}
	}
}

// GetAllModuleNames implements provider.ResourceProvider.
func (p *FakeProvider) GetAllModuleNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	mods := make(map[string]bool)
	for path := range p.base {
		mod, _ := vpath.Split(path)
		mods[mod] = true
	}
	for path := range p.preview {
		mod, _ := vpath.Split(path)
		mods[mod] = true
	}
	names := make([]string, 0, len(mods))
	for m := range mods {
		names = append(names, m)
	}
	sort.Strings(names)
	return names
}

// GetPackageNames implements provider.ResourceProvider. A package is
// any ancestor directory of a registered file, excluding the module
// segment itself: for "mod/a/b/File", both "a" and "a/b" are package
// directories.
func (p *FakeProvider) GetPackageNames(preview bool) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make(map[string]bool)
	collect := func(m map[string][]byte) {
		for path := range m {
			for _, dir := range ancestorPackageDirs(path) {
				names[vpath.PathToPackage(dir)] = true
			}
		}
	}
	collect(p.base)
	if preview {
		collect(p.preview)
	}

	result := make([]string, 0, len(names))
	for n := range names {
		result = append(result, n)
	}
	sort.Strings(result)
	return result
}

// PackageExists implements provider.ResourceProvider.
func (p *FakeProvider) PackageExists(module, pkg string, preview bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rel := module + "/" + vpath.PackageToPath(pkg)
	if p.isDirLocked(rel, false) {
		return true
	}
	return preview && p.isDirLocked(rel, true)
}

// GetModulesForPackage implements provider.ResourceProvider.
func (p *FakeProvider) GetModulesForPackage(pkg string, preview bool) []string {
	var mods []string
	for _, mod := range p.GetAllModuleNames() {
		if p.PackageExists(mod, pkg, preview) {
			mods = append(mods, mod)
		}
	}
	return mods
}

func (p *FakeProvider) isDirLocked(resourcePath string, preview bool) bool {
	prefix := resourcePath + "/"
	for path := range p.layer(preview) {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// ancestorPackageDirs returns every strict ancestor directory of path
// beyond the module segment, shallowest first: "mod/a/b/File" yields
// ["a", "a/b"].
func ancestorPackageDirs(path string) []string {
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return nil
	}
	dirs := parts[1 : len(parts)-1]
	result := make([]string, 0, len(dirs))
	for i := 1; i <= len(dirs); i++ {
		result = append(result, strings.Join(dirs[:i], "/"))
	}
	return result
}

// MustContent is a test helper that reads a node's content and fails
// the caller's expectations loudly via panic rather than a *testing.T
// dependency, so it can be used from example code too.
func MustContent(n vnode.Node) []byte {
	data, err := n.GetContent()
	if err != nil {
		panic(fmt.Sprintf("testutil: GetContent(%s): %v", n.Path(), err))
	}
	return data
}
