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

package engine

import (
	"jrtfs.dev/jrtfs/provider"
	"jrtfs.dev/jrtfs/vnode"
	"jrtfs.dev/jrtfs/vpath"
)

// Engine implements provider.NodeFactory: every node a ResourceProvider
// emits while resolving /modules paths is routed back through here so
// it lands in the engine's cache before any caller sees it.
var _ provider.NodeFactory = (*Engine)(nil)

// NewFile implements provider.NodeFactory.
func (e *Engine) NewFile(absPath string, readContent func() ([]byte, error)) vnode.Node {
	n, _ := e.cache.GetOrCreate(absPath, func() (vnode.Node, bool) {
		return vnode.NewFile(absPath, readContent), true
	})
	return n
}

// NewDirectory implements provider.NodeFactory. The returned
// directory's children are computed by listModuleChildren, which
// applies the preview/base union algorithm independent of whichever
// layer the provider first found resourcePath in.
func (e *Engine) NewDirectory(absPath, resourcePath string) vnode.Node {
	n, _ := e.cache.GetOrCreate(absPath, func() (vnode.Node, bool) {
		return vnode.NewDirectory(absPath, func() []vnode.Node {
			return e.listModuleChildren(resourcePath)
		}), true
	})
	return n
}

// findModulesNode resolves an absolute path under /modules (§4.3).
func (e *Engine) findModulesNode(absPath string) (vnode.Node, bool) {
	rel := vpath.Relativize(vpath.ModulesPrefix, absPath)
	if e.preview {
		if n, ok := e.provider.GetResource(rel, e, true); ok {
			return n, true
		}
	}
	return e.provider.GetResource(rel, e, false)
}

// listModuleChildren implements the §4.5 union-with-precedence
// algorithm for a module-tree directory at resource path rel.
func (e *Engine) listModuleChildren(rel string) []vnode.Node {
	base := func() []vnode.Node {
		var children []vnode.Node
		e.provider.ForEachChildOf(e, rel, false, func(n vnode.Node) {
			children = append(children, n)
		})
		sortNodes(children)
		return children
	}

	if !e.preview {
		return base()
	}

	var preview []vnode.Node
	e.provider.ForEachChildOf(e, rel, true, func(n vnode.Node) {
		preview = append(preview, n)
	})
	if len(preview) == 0 {
		return base()
	}

	seen := make(map[string]bool, len(preview))
	for _, n := range preview {
		seen[vpath.Base(n.Path())] = true
	}

	var baseOnly []vnode.Node
	e.provider.ForEachChildOf(e, rel, false, func(n vnode.Node) {
		if !seen[vpath.Base(n.Path())] {
			baseOnly = append(baseOnly, n)
		}
	})

	merged := make([]vnode.Node, 0, len(preview)+len(baseOnly))
	merged = append(merged, preview...)
	merged = append(merged, baseOnly...)
	sortNodes(merged)
	return merged
}
