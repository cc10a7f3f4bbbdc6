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

package engine_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jrtfs.dev/jrtfs/engine"
	"jrtfs.dev/jrtfs/testutil"
	"jrtfs.dev/jrtfs/vnode"
)

func names(nodes []vnode.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Path()
	}
	return out
}

// Scenario 1: basic lazy creation.
func TestBasicLazyCreation(t *testing.T) {
	p := testutil.NewFakeProvider().
		AddFile("mod.one/java/foo/Foo.class", []byte("foo")).
		AddFile("mod.two/java/bar/Bar.class", []byte("bar"))
	e := engine.New(p, false)

	fooFile, ok := e.FindNode("/modules/mod.one/java/foo/Foo.class")
	require.True(t, ok)
	assert.True(t, fooFile.Kind() == vnode.KindFile)

	fooDir, ok := e.FindNode("/modules/mod.one/java/foo")
	require.True(t, ok)

	modulesRoot, ok := e.FindNode("/modules")
	require.True(t, ok)
	children, err := modulesRoot.GetChildren()
	require.NoError(t, err)
	modOne := children[0]
	javaDir, err := modOne.GetChildren()
	require.NoError(t, err)
	fooDirAgain, err := javaDir[0].GetChildren()
	require.NoError(t, err)
	assert.Same(t, fooDir, fooDirAgain[0])

	link, ok := e.FindNode("/packages/java.bar/mod.two")
	require.True(t, ok)
	assert.True(t, link.IsLink())
	target, err := link.ResolveLink(false)
	require.NoError(t, err)
	modTwo, ok := e.FindNode("/modules/mod.two")
	require.True(t, ok)
	assert.Same(t, modTwo, target)
}

// Scenario 2: preview file replace.
func TestPreviewFileReplace(t *testing.T) {
	base := testutil.NewFakeProvider().
		AddFile("a/b/c/First", []byte("base-first")).
		AddFile("a/b/c/Second", []byte("base-second")).
		AddFile("a/b/c/Third", []byte("base-third")).
		AddPreviewFile("a/b/c/Second", []byte("preview-second"))

	on := engine.New(base, true)
	dir, ok := on.FindNode("/modules/a/b/c")
	require.True(t, ok)
	children, err := dir.GetChildren()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/modules/a/b/c/First",
		"/modules/a/b/c/Second",
		"/modules/a/b/c/Third",
	}, names(children))

	second, ok := on.FindNode("/modules/a/b/c/Second")
	require.True(t, ok)
	content, err := second.GetContent()
	require.NoError(t, err)
	assert.Equal(t, "preview-second", string(content))

	off := engine.New(base, false)
	secondOff, ok := off.FindNode("/modules/a/b/c/Second")
	require.True(t, ok)
	contentOff, err := secondOff.GetContent()
	require.NoError(t, err)
	assert.Equal(t, "base-second", string(contentOff))
}

// Scenario 3: preview file addition.
func TestPreviewFileAddition(t *testing.T) {
	base := testutil.NewFakeProvider().
		AddFile("a/b/c/First", []byte("1")).
		AddFile("a/b/c/Third", []byte("3")).
		AddPreviewFile("a/b/c/Second", []byte("2")).
		AddPreviewFile("a/b/c/Xtra", []byte("x"))

	on := engine.New(base, true)
	dir, ok := on.FindNode("/modules/a/b/c")
	require.True(t, ok)
	children, err := dir.GetChildren()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/modules/a/b/c/First",
		"/modules/a/b/c/Second",
		"/modules/a/b/c/Third",
		"/modules/a/b/c/Xtra",
	}, names(children))

	off := engine.New(base, false)
	_, ok = off.FindNode("/modules/a/b/c/Second")
	assert.False(t, ok)
}

// Scenario 4: preview directory addition.
func TestPreviewDirectoryAddition(t *testing.T) {
	base := testutil.NewFakeProvider().
		AddFile("a/b/c/First", []byte("1")).
		AddFile("a/b/c/Second", []byte("2")).
		AddPreviewFile("a/b/c/bar/SubDirFile", []byte("s")).
		AddPreviewFile("a/b/gus/OtherDirFile", []byte("o"))

	on := engine.New(base, true)
	dir, ok := on.FindNode("/modules/a/b/c")
	require.True(t, ok)
	children, err := dir.GetChildren()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/modules/a/b/c/First",
		"/modules/a/b/c/Second",
		"/modules/a/b/c/bar",
	}, names(children))

	link, ok := on.FindNode("/packages/b.gus/a")
	require.True(t, ok)
	target, err := link.ResolveLink(false)
	require.NoError(t, err)
	assert.Equal(t, "/modules/a", target.Path())

	off := engine.New(base, false)
	_, ok = off.FindNode("/modules/a/b/c/bar")
	assert.False(t, ok)
	_, ok = off.FindNode("/modules/a/b/gus")
	assert.False(t, ok)
	_, ok = off.FindNode("/packages/b.gus/a")
	assert.False(t, ok)
}

// Scenario 5: bad and good paths.
func TestPathValidation(t *testing.T) {
	p := testutil.NewFakeProvider().
		AddFile("a/b/c/First", []byte("1")).
		AddFile("a/b/c/Second", []byte("2"))
	e := engine.New(p, false)

	bad := []string{
		".", "..", "//", "/modules/", "/modules/.", "/modules/a..b",
		"/modules/.a", "/modules/a.", "/modules/not.here",
		"/packages/", "/packages/a..b", "/packages/not.here",
		"/packages/b.c/missing", "/modules/a/b/c/First/xxx",
		"/packages/b.c/a/xxx",
	}
	for _, s := range bad {
		_, ok := e.FindNode(s)
		assert.Falsef(t, ok, "expected %q to be absent", s)
	}

	good := []string{
		"", "/modules", "/modules/a", "/modules/a/b", "/modules/a/b/c",
		"/modules/a/b/c/First", "/packages", "/packages/b.c",
		"/packages/b.c/a",
	}
	for _, s := range good {
		_, ok := e.FindNode(s)
		assert.Truef(t, ok, "expected %q to be present", s)
	}
}

// Scenario 6: package links uniformity.
func TestPackageLinksUniformity(t *testing.T) {
	p := testutil.NewFakeProvider().
		AddFile("one/j/foo/F", []byte("f")).
		AddFile("two/j/bar/B", []byte("b")).
		AddPreviewFile("three/j/foo/preview/P", []byte("p"))

	e := engine.New(p, true)
	dir, ok := e.FindNode("/packages/j.foo")
	require.True(t, ok)
	children, err := dir.GetChildren()
	require.NoError(t, err)

	targets := make(map[string]bool)
	for _, c := range children {
		require.True(t, c.IsLink())
		target, err := c.ResolveLink(false)
		require.NoError(t, err)
		targets[target.Path()] = true
	}
	assert.Equal(t, map[string]bool{
		"/modules/one":   true,
		"/modules/three": true,
	}, targets)
}

// Identity: repeated lookups of the same path return the same object.
func TestIdentity(t *testing.T) {
	p := testutil.NewFakeProvider().AddFile("m/a/b/File", []byte("x"))
	e := engine.New(p, false)

	n1, ok := e.FindNode("/modules/m/a/b/File")
	require.True(t, ok)
	n2, ok := e.FindNode("/modules/m/a/b/File")
	require.True(t, ok)
	assert.Same(t, n1, n2)

	d1, ok := e.FindNode("/modules/m/a")
	require.True(t, ok)
	children, err := d1.GetChildren()
	require.NoError(t, err)
	d2, ok := e.FindNode("/modules/m/a/b")
	require.True(t, ok)
	assert.Same(t, d2, children[0])
}

// Determinism of ordering: children come back sorted, every time.
func TestChildOrderingDeterministic(t *testing.T) {
	p := testutil.NewFakeProvider().
		AddFile("m/z", []byte("z")).
		AddFile("m/a", []byte("a")).
		AddFile("m/m", []byte("m"))
	e := engine.New(p, false)

	dir, ok := e.FindNode("/modules/m")
	require.True(t, ok)
	children, err := dir.GetChildren()
	require.NoError(t, err)
	assert.Equal(t, []string{"/modules/m/a", "/modules/m/m", "/modules/m/z"}, names(children))
}

// Concurrency: racing FindNode calls for the same path converge on one node.
func TestConcurrentFindNodeConvergesOnOneNode(t *testing.T) {
	p := testutil.NewFakeProvider().AddFile("m/a/b/File", []byte("x"))
	e := engine.New(p, false)

	const workers = 32
	results := make([]vnode.Node, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		go func(i int) {
			defer wg.Done()
			n, ok := e.FindNode("/modules/m/a/b/File")
			require.True(t, ok)
			results[i] = n
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestInvalidOperationsReturnErrors(t *testing.T) {
	p := testutil.NewFakeProvider().AddFile("m/a/File", []byte("x"))
	e := engine.New(p, false)

	file, ok := e.FindNode("/modules/m/a/File")
	require.True(t, ok)
	_, err := file.GetChildren()
	assert.ErrorIs(t, err, vnode.ErrNotDirectory)

	dir, ok := e.FindNode("/modules/m/a")
	require.True(t, ok)
	_, err = dir.GetContent()
	assert.ErrorIs(t, err, vnode.ErrNotFile)
}

func TestRootHasExactlyTwoChildren(t *testing.T) {
	p := testutil.NewFakeProvider().AddFile("m/a/File", []byte("x"))
	e := engine.New(p, false)

	root, ok := e.FindNode("")
	require.True(t, ok)
	children, err := root.GetChildren()
	require.NoError(t, err)
	assert.Equal(t, []string{"/modules", "/packages"}, names(children))
}
