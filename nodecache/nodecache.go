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

// Package nodecache provides the engine's concurrent, compute-if-absent
// cache from absolute virtual path to vnode.Node. Unlike the teacher's
// bounded, LRU-evicting package.json caches, this cache grows
// monotonically for the lifetime of an engine: node identity must hold
// forever, so nothing is ever evicted.
package nodecache

import (
	"sync"

	"jrtfs.dev/jrtfs/vnode"
)

// Cache is a concurrent map keyed by absolute virtual path, guaranteeing
// that at most one Node object exists per path for the life of the
// cache.
type Cache struct {
	entries sync.Map // string -> vnode.Node
}

// New creates an empty node cache.
func New() *Cache {
	return &Cache{}
}

// Get returns the cached node for path, if any.
func (c *Cache) Get(path string) (vnode.Node, bool) {
	v, ok := c.entries.Load(path)
	if !ok {
		return nil, false
	}
	return v.(vnode.Node), true
}

// GetOrCreate returns the cached node for path if present; otherwise it
// calls create, inserts the result, and returns it. If two goroutines
// race to create the same path, only one node object wins the insert —
// the other is discarded before it is ever observed by a caller.
//
// create may return (nil, false) to indicate the path does not resolve
// to a node; this result is not cached, since absence is not a stable
// fact about a pluggable provider's state.
func (c *Cache) GetOrCreate(path string, create func() (vnode.Node, bool)) (vnode.Node, bool) {
	if v, ok := c.entries.Load(path); ok {
		return v.(vnode.Node), true
	}
	n, ok := create()
	if !ok {
		return nil, false
	}
	actual, _ := c.entries.LoadOrStore(path, n)
	return actual.(vnode.Node), true
}

// Size returns the number of cached nodes. Intended for diagnostics.
func (c *Cache) Size() int {
	n := 0
	c.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
