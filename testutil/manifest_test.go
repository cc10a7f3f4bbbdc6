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

package testutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jrtfs.dev/jrtfs/engine"
	"jrtfs.dev/jrtfs/jimage"
	"jrtfs.dev/jrtfs/testutil"
)

const manifestYAML = `
files:
  - path: one/a/b/First
    content: "1"
  - path: one/a/b/Second
    content: "2"
    preview: true
`

func TestLoadManifestBuildsFakeProvider(t *testing.T) {
	m, err := testutil.LoadManifest([]byte(manifestYAML))
	require.NoError(t, err)
	require.Len(t, m.Files, 2)

	e := engine.New(m.BuildFakeProvider(), true)
	n, ok := e.FindNode("/modules/one/a/b/First")
	require.True(t, ok)
	content, err := n.GetContent()
	require.NoError(t, err)
	assert.Equal(t, "1", string(content))

	preview, ok := e.FindNode("/modules/one/a/b/Second")
	require.True(t, ok)
	content, err = preview.GetContent()
	require.NoError(t, err)
	assert.Equal(t, "2", string(content))
}

func TestManifestBuildImageRoundTripsThroughJimage(t *testing.T) {
	m, err := testutil.LoadManifest([]byte(manifestYAML))
	require.NoError(t, err)

	p, err := jimage.OpenBytes(m.BuildImage())
	require.NoError(t, err)
	defer p.Close()

	e := engine.New(p, true)
	n, ok := e.FindNode("/modules/one/a/b/Second")
	require.True(t, ok)
	content, err := n.GetContent()
	require.NoError(t, err)
	assert.Equal(t, "2", string(content))
}
