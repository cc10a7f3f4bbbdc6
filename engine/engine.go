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

// Package engine implements the virtual node engine: the component
// that interprets absolute virtual paths, lazily materializes nodes
// backed by a provider.ResourceProvider, memoizes them under stable
// identity, overlays an optional preview layer, and synthesizes the
// /packages view from module/package metadata the provider supplies.
package engine

import (
	"sort"

	"jrtfs.dev/jrtfs/nodecache"
	"jrtfs.dev/jrtfs/provider"
	"jrtfs.dev/jrtfs/vnode"
	"jrtfs.dev/jrtfs/vpath"
)

// Engine is the public entry point: construct one per provider, then
// call FindNode to resolve virtual paths. An Engine is safe for
// concurrent use by multiple goroutines.
type Engine struct {
	provider provider.ResourceProvider
	preview  bool
	cache    *nodecache.Cache

	packageNames *vnode.Lazy[[]string]
}

// New constructs an Engine over provider. preview is fixed for the
// lifetime of the Engine: true overlays the provider's preview layer
// on top of its base layer wherever the two diverge; false exposes
// only the base layer.
func New(p provider.ResourceProvider, preview bool) *Engine {
	e := &Engine{
		provider: p,
		preview:  preview,
		cache:    nodecache.New(),
	}
	e.packageNames = vnode.NewLazy(func() []string {
		names := e.provider.GetPackageNames(e.preview)
		sorted := append([]string(nil), names...)
		sort.Strings(sorted)
		return sorted
	})
	return e
}

// FindNode resolves an absolute virtual path to a node. It never
// panics or errors: a syntactically invalid or non-existent path
// simply yields (nil, false).
func (e *Engine) FindNode(absPath string) (vnode.Node, bool) {
	if !vpath.IsValidAbsolute(absPath) {
		return nil, false
	}
	if n, ok := e.cache.Get(absPath); ok {
		return n, true
	}
	switch {
	case absPath == "":
		return e.findRoot()
	case vpath.HasPrefix(absPath, vpath.ModulesPrefix):
		return e.findModulesNode(absPath)
	case vpath.HasPrefix(absPath, vpath.PackagesPrefix):
		return e.findPackagesNode(absPath)
	default:
		return nil, false
	}
}

// Close releases resources owned by the Engine itself. The Engine
// holds no file handles — only the provider does — so this is a no-op
// kept for symmetry with the provider's scoped-resource lifecycle;
// idiomatic use still closes the Engine before the provider.
func (e *Engine) Close() error {
	return nil
}

func (e *Engine) findRoot() (vnode.Node, bool) {
	return e.cache.GetOrCreate("", func() (vnode.Node, bool) {
		return vnode.NewDirectory("", func() []vnode.Node {
			modulesRoot, _ := e.FindNode(vpath.ModulesPrefix)
			packagesRoot, _ := e.FindNode(vpath.PackagesPrefix)
			children := []vnode.Node{modulesRoot, packagesRoot}
			sortNodes(children)
			return children
		}), true
	})
}

// sortNodes sorts nodes in place by ascending final-segment name, the
// deterministic ordering every directory's children must obey.
func sortNodes(nodes []vnode.Node) {
	sort.Slice(nodes, func(i, j int) bool {
		return vpath.Base(nodes[i].Path()) < vpath.Base(nodes[j].Path())
	})
}
