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

package vnode

import "sync/atomic"

// Lazy is a one-shot memoizing value holder. The first caller to reach
// an unpublished value runs the producer and publishes the result; a
// second caller racing the first may also run the producer, but only
// one published result ever wins, and every caller, past or future,
// observes that same result thereafter. The read path takes no locks.
type Lazy[T any] struct {
	produce atomic.Pointer[func() T]
	value   atomic.Pointer[T]
}

// NewLazy wraps produce so it runs at most effectively once: it may be
// invoked more than once under concurrent first access, but the
// published result is stable and producer is released after
// publication.
func NewLazy[T any](produce func() T) *Lazy[T] {
	l := &Lazy[T]{}
	l.produce.Store(&produce)
	return l
}

// Get returns the memoized value, computing it via the wrapped
// producer on first access.
func (l *Lazy[T]) Get() T {
	if v := l.value.Load(); v != nil {
		return *v
	}
	p := l.produce.Load()
	if p == nil {
		// A racing caller already published; spin briefly for it to land.
		for {
			if v := l.value.Load(); v != nil {
				return *v
			}
		}
	}
	result := (*p)()
	l.value.CompareAndSwap(nil, &result)
	l.produce.Store(nil)
	return *l.value.Load()
}
