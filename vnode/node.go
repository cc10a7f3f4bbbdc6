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

// Package vnode defines the closed family of virtual filesystem nodes
// — Directory, File, and Link — shared by the engine and every
// resource provider. Node identity, equality, and display all derive
// from a node's absolute virtual path; constructing the same path
// twice is the cache's job, not this package's.
package vnode

import (
	"errors"
	"fmt"
)

// ErrNotDirectory is returned by GetChildren on a File or Link node.
var ErrNotDirectory = errors.New("vnode: not a directory")

// ErrNotFile is returned by GetContent on a Directory or Link node.
var ErrNotFile = errors.New("vnode: not a file")

// Kind distinguishes the three node variants.
type Kind int

const (
	KindDirectory Kind = iota
	KindFile
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// Node is the common contract satisfied by Directory, File, and Link
// nodes. Equality and hashing are defined on Path alone: two Node
// values with the same Path are interchangeable, and a compliant cache
// never hands out two distinct Node objects for the same path.
type Node interface {
	fmt.Stringer

	// Path returns the absolute virtual path identifying this node.
	Path() string
	// Kind reports which of the three concrete variants this is.
	Kind() Kind
	IsDirectory() bool
	IsLink() bool
	// GetChildren returns this directory's children in ascending
	// final-segment order. Returns ErrNotDirectory for File and Link.
	GetChildren() ([]Node, error)
	// GetContent returns this file's bytes, possibly failing with an
	// I/O error from the backing provider. Returns ErrNotFile for
	// Directory and Link.
	GetContent() ([]byte, error)
	// ResolveLink follows a Link's target. recursive chases a chain of
	// links transitively (never more than one hop in this design);
	// non-Link nodes return themselves unchanged.
	ResolveLink(recursive bool) (Node, error)
}

// Equal reports whether a and b identify the same virtual path. This
// is the canonical equality for Node: two nodes are equal iff their
// paths are equal, regardless of object identity.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Path() == b.Path()
}

// directory is the Directory variant: a node whose children are
// produced lazily and memoized for the node's lifetime.
type directory struct {
	path     string
	children *Lazy[[]Node]
}

// NewDirectory constructs a Directory node at path whose children are
// computed on first access by produce. produce must be side-effect
// free with respect to anything other than node construction (which
// itself routes through a cache), since it may run more than once
// under a benign race.
func NewDirectory(path string, produce func() []Node) Node {
	return &directory{path: path, children: NewLazy(produce)}
}

func (d *directory) Path() string       { return d.path }
func (d *directory) Kind() Kind         { return KindDirectory }
func (d *directory) IsDirectory() bool  { return true }
func (d *directory) IsLink() bool       { return false }
func (d *directory) String() string     { return d.path }
func (d *directory) GetChildren() ([]Node, error) {
	return d.children.Get(), nil
}
func (d *directory) GetContent() ([]byte, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotFile, d.path)
}
func (d *directory) ResolveLink(bool) (Node, error) {
	return d, nil
}

// file is the File variant: a node whose content is read fresh from
// its producer on every call; the node itself never caches a payload.
type file struct {
	path    string
	content func() ([]byte, error)
}

// NewFile constructs a File node at path whose content is produced by
// readContent on every call to GetContent.
func NewFile(path string, readContent func() ([]byte, error)) Node {
	return &file{path: path, content: readContent}
}

func (f *file) Path() string      { return f.path }
func (f *file) Kind() Kind        { return KindFile }
func (f *file) IsDirectory() bool { return false }
func (f *file) IsLink() bool      { return false }
func (f *file) String() string    { return f.path }
func (f *file) GetChildren() ([]Node, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotDirectory, f.path)
}
func (f *file) GetContent() ([]byte, error) {
	return f.content()
}
func (f *file) ResolveLink(bool) (Node, error) {
	return f, nil
}

// link is the Link variant. Its target is either handed in directly
// (NewResolvedLink) or resolved lazily through resolve on first access
// (NewLateBoundLink), storing only a descriptor (the module name) until
// then so that building a package directory never forces every linked
// module's root to materialize.
type link struct {
	path   string
	target *Lazy[Node]
}

// NewResolvedLink constructs a Link whose target is already known.
func NewResolvedLink(path string, target Node) Node {
	return &link{path: path, target: NewLazy(func() Node { return target })}
}

// NewLateBoundLink constructs a Link whose target is resolved lazily
// by calling resolve the first time ResolveLink is invoked.
func NewLateBoundLink(path string, resolve func() Node) Node {
	return &link{path: path, target: NewLazy(resolve)}
}

func (l *link) Path() string      { return l.path }
func (l *link) Kind() Kind        { return KindLink }
func (l *link) IsDirectory() bool { return false }
func (l *link) IsLink() bool      { return true }
func (l *link) String() string    { return l.path }
func (l *link) GetChildren() ([]Node, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotDirectory, l.path)
}
func (l *link) GetContent() ([]byte, error) {
	return nil, fmt.Errorf("%w: %s", ErrNotFile, l.path)
}
func (l *link) ResolveLink(recursive bool) (Node, error) {
	target := l.target.Get()
	if target == nil {
		return nil, fmt.Errorf("vnode: link %s has no resolvable target", l.path)
	}
	if recursive && target.IsLink() {
		return target.ResolveLink(true)
	}
	return target, nil
}
