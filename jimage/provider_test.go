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

package jimage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jrtfs.dev/jrtfs/engine"
	"jrtfs.dev/jrtfs/internal/mapfs"
	"jrtfs.dev/jrtfs/jimage"
	"jrtfs.dev/jrtfs/testutil"
)

func buildImage(t *testing.T) []byte {
	t.Helper()
	return testutil.NewImageBuilder().
		AddFilePath("mod.one/java/lang/Object.class", []byte("object-bytes")).
		AddFilePath("mod.one/java/lang/String.class", []byte("string-bytes")).
		AddFilePath("mod.two/java/util/List.class", []byte("list-bytes")).
		AddFilePath("mod.one/META-INF/preview/java/lang/Object.class", []byte("preview-object-bytes")).
		Build()
}

func TestOpenBytesAndFindNode(t *testing.T) {
	data := buildImage(t)
	p, err := jimage.OpenBytes(data)
	require.NoError(t, err)
	defer p.Close()

	e := engine.New(p, false)

	n, ok := e.FindNode("/modules/mod.one/java/lang/Object.class")
	require.True(t, ok)
	content, err := n.GetContent()
	require.NoError(t, err)
	assert.Equal(t, "object-bytes", string(content))

	dir, ok := e.FindNode("/modules/mod.one/java/lang")
	require.True(t, ok)
	children, err := dir.GetChildren()
	require.NoError(t, err)
	require.Len(t, children, 2)

	mods := p.GetAllModuleNames()
	assert.Equal(t, []string{"mod.one", "mod.two"}, mods)
}

func TestPreviewOverlay(t *testing.T) {
	data := buildImage(t)
	p, err := jimage.OpenBytes(data)
	require.NoError(t, err)
	defer p.Close()

	off := engine.New(p, false)
	n, ok := off.FindNode("/modules/mod.one/java/lang/Object.class")
	require.True(t, ok)
	content, err := n.GetContent()
	require.NoError(t, err)
	assert.Equal(t, "object-bytes", string(content))

	on := engine.New(p, true)
	n, ok = on.FindNode("/modules/mod.one/java/lang/Object.class")
	require.True(t, ok)
	content, err = n.GetContent()
	require.NoError(t, err)
	assert.Equal(t, "preview-object-bytes", string(content))

	_, ok = on.FindNode("/modules/mod.one/java/lang/String.class")
	require.True(t, ok)
}

func TestOpenFSFromInMemoryFilesystem(t *testing.T) {
	data := buildImage(t)
	mfs := mapfs.New()
	mfs.AddFile("/boot.jimage", string(data), 0o644)

	p, err := jimage.OpenFS(mfs, "/boot.jimage")
	require.NoError(t, err)
	defer p.Close()

	e := engine.New(p, false)
	n, ok := e.FindNode("/modules/mod.two/java/util/List.class")
	require.True(t, ok)
	content, err := n.GetContent()
	require.NoError(t, err)
	assert.Equal(t, "list-bytes", string(content))
}

func TestPackageLookupAcrossModules(t *testing.T) {
	data := buildImage(t)
	p, err := jimage.OpenBytes(data)
	require.NoError(t, err)
	defer p.Close()

	mods := p.GetModulesForPackage("java.lang", false)
	assert.Equal(t, []string{"mod.one"}, mods)

	e := engine.New(p, false)
	link, ok := e.FindNode("/packages/java.lang/mod.one")
	require.True(t, ok)
	target, err := link.ResolveLink(false)
	require.NoError(t, err)
	assert.Equal(t, "/modules/mod.one", target.Path())
}
