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

// Package provider defines the contract the node engine depends on to
// materialize nodes under /modules: a ResourceProvider resolves
// resource paths against some backing store (in practice a packed
// runtime image, see package jimage) without the engine ever parsing
// container bytes itself.
package provider

import "jrtfs.dev/jrtfs/vnode"

// NodeFactory is handed to a ResourceProvider by the engine for the
// duration of a single call. Providers must produce nodes only through
// it, never by constructing vnode.Node values directly, so that every
// node the provider emits is inserted into the engine's cache before
// it is returned to a caller. Providers must not retain the factory
// beyond the call in which it was given.
//
// NewDirectory deliberately does not accept a child-listing closure:
// the preview/base union algorithm (how a directory's children are
// computed) is the engine's responsibility, not the provider's. The
// provider only ever tells the factory which resource path a
// directory corresponds to; the factory (the engine) decides how to
// enumerate it, every time it is asked, regardless of which layer
// first produced the directory node.
type NodeFactory interface {
	// NewFile returns the (possibly already-cached) File node at
	// absPath, using readContent to produce its bytes on demand if the
	// node does not already exist.
	NewFile(absPath string, readContent func() ([]byte, error)) vnode.Node
	// NewDirectory returns the (possibly already-cached) Directory node
	// at absPath, representing resourcePath in the module tree.
	NewDirectory(absPath, resourcePath string) vnode.Node
}

// ChildSink receives each immediate child a provider enumerates. It is
// called exactly once per child; order is not significant, since the
// engine sorts and deduplicates afterward.
type ChildSink func(vnode.Node)

// ResourceProvider is the abstract contract the node engine depends on
// to resolve the /modules tree. path == "" always denotes the root of
// the module universe. All methods must be safe for concurrent use.
type ResourceProvider interface {
	// GetResource resolves a resource path to a node in the requested
	// layer (base when preview is false, preview when true), emitting
	// it through factory. Returns (nil, false) if no such resource
	// exists in that layer.
	GetResource(resourcePath string, factory NodeFactory, preview bool) (vnode.Node, bool)

	// ForEachChildOf emits every immediate child of resourcePath in the
	// requested layer, exactly once each, via sink. path == "" emits one
	// directory per module. Implementations must not emit descendants.
	ForEachChildOf(factory NodeFactory, resourcePath string, preview bool, sink ChildSink)

	// GetAllModuleNames returns every known module name, including
	// modules that only carry preview content. Order is unspecified but
	// stable within a single call.
	GetAllModuleNames() []string

	// GetPackageNames returns every dotted package name visible in the
	// requested layer. The engine calls this at most once per layer and
	// memoizes the result itself.
	GetPackageNames(preview bool) []string

	// PackageExists reports whether module contains pkg in the
	// requested layer.
	PackageExists(module, pkg string, preview bool) bool

	// GetModulesForPackage returns every module name that contains pkg
	// in the requested layer.
	GetModulesForPackage(pkg string, preview bool) []string
}
