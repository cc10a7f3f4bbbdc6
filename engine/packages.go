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
	"sort"

	"jrtfs.dev/jrtfs/vnode"
	"jrtfs.dev/jrtfs/vpath"
)

// findPackagesNode resolves an absolute path under /packages (§4.4).
// Anything deeper than /packages/<pkg>/<mod> is absent.
func (e *Engine) findPackagesNode(absPath string) (vnode.Node, bool) {
	rel := vpath.Relativize(vpath.PackagesPrefix, absPath)
	if rel == "" {
		return e.packagesRoot(), true
	}

	pkg, tail := vpath.Split(rel)
	if tail == "" {
		return e.packageDir(absPath, pkg)
	}

	mod, rest := vpath.Split(tail)
	if rest != "" {
		return nil, false
	}
	return e.packageLink(absPath, pkg, mod)
}

// packagesRoot returns the always-present /packages directory, whose
// children are one directory per known package name.
func (e *Engine) packagesRoot() vnode.Node {
	n, _ := e.cache.GetOrCreate(vpath.PackagesPrefix, func() (vnode.Node, bool) {
		return vnode.NewDirectory(vpath.PackagesPrefix, func() []vnode.Node {
			names := e.packageNames.Get()
			children := make([]vnode.Node, 0, len(names))
			for _, pkg := range names {
				childPath := vpath.Resolve(vpath.PackagesPrefix, pkg)
				if n, ok := e.packageDir(childPath, pkg); ok {
					children = append(children, n)
				}
			}
			sortNodes(children)
			return children
		}), true
	})
	return n
}

// packageDir resolves /packages/<pkg>. It exists iff pkg is a
// syntactically valid dotted identifier present in the memoized
// package-name set; its children are link nodes, one per module that
// contains pkg.
func (e *Engine) packageDir(absPath, pkg string) (vnode.Node, bool) {
	if !vpath.IsValidPackageName(pkg) || !e.hasPackage(pkg) {
		return nil, false
	}
	return e.cache.GetOrCreate(absPath, func() (vnode.Node, bool) {
		return vnode.NewDirectory(absPath, func() []vnode.Node {
			mods := append([]string(nil), e.provider.GetModulesForPackage(pkg, e.preview)...)
			sort.Strings(mods)
			children := make([]vnode.Node, 0, len(mods))
			for _, mod := range mods {
				linkPath := vpath.Resolve(absPath, mod)
				if n, ok := e.packageLink(linkPath, pkg, mod); ok {
					children = append(children, n)
				}
			}
			sortNodes(children)
			return children
		}), true
	})
}

// packageLink resolves /packages/<pkg>/<mod>: a link whose target,
// /modules/<mod>, is resolved lazily so that listing a package
// directory never forces every linked module's root to materialize.
func (e *Engine) packageLink(absPath, pkg, mod string) (vnode.Node, bool) {
	if !vpath.IsValidPackageName(pkg) || !vpath.IsValidModuleName(mod) {
		return nil, false
	}
	if !e.provider.PackageExists(mod, pkg, e.preview) {
		return nil, false
	}
	return e.cache.GetOrCreate(absPath, func() (vnode.Node, bool) {
		targetPath := vpath.Resolve(vpath.ModulesPrefix, mod)
		return vnode.NewLateBoundLink(absPath, func() vnode.Node {
			target, _ := e.FindNode(targetPath)
			return target
		}), true
	})
}

// hasPackage reports whether pkg is in the memoized package-name set.
func (e *Engine) hasPackage(pkg string) bool {
	names := e.packageNames.Get()
	idx := sort.SearchStrings(names, pkg)
	return idx < len(names) && names[idx] == pkg
}
