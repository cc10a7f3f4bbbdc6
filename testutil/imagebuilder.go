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

package testutil

import (
	"encoding/binary"
	"strings"

	"jrtfs.dev/jrtfs/internal/imagefmt"
)

// ImageBuilder assembles a packed-image byte stream matching the
// layout internal/imagefmt.Open expects, for integration tests of the
// jimage provider that want real byte-level decoding rather than the
// FakeProvider's shortcut. Build synthesizes a pseudo-directory
// location (module offset == offset("modules")) for every implied
// directory in the file tree, each one's content a child-offset array,
// exactly as a real packed image stores them — so tests exercise
// imagefmt.ChildOffsets, not just flat file lookups.
type ImageBuilder struct {
	order     binary.ByteOrder
	strings   []byte
	strOff    map[string]uint32
	locs      []location
	filePaths []string // full resource path per entry in locs, in the same order
	content   []byte
}

type location struct {
	module, parent, base, ext uint32
	hasExt                    bool
	contentOffset, length     uint32
}

// NewImageBuilder returns a builder using little-endian byte order.
func NewImageBuilder() *ImageBuilder {
	b := &ImageBuilder{
		order:  binary.LittleEndian,
		strOff: make(map[string]uint32),
	}
	b.intern("") // offset 0 is always the empty string
	b.intern("modules")
	return b
}

func (b *ImageBuilder) intern(s string) uint32 {
	if off, ok := b.strOff[s]; ok {
		return off
	}
	off := uint32(len(b.strings))
	b.strings = append(b.strings, []byte(s)...)
	b.strings = append(b.strings, 0)
	b.strOff[s] = off
	return off
}

// AddFile registers a file entry at "<module>/<parent>/<base>.<ext>"
// (parent may be ""; ext may be "" for an extensionless file).
func (b *ImageBuilder) AddFile(module, parent, base, ext string, content []byte) *ImageBuilder {
	loc := location{
		module:        b.intern(module),
		parent:        b.intern(parent),
		base:          b.intern(base),
		contentOffset: uint32(len(b.content)),
		length:        uint32(len(content)),
	}
	name := base
	if ext != "" {
		loc.ext = b.intern(ext)
		loc.hasExt = true
		name = base + "." + ext
	} else {
		loc.ext = imagefmt.NoExtension
	}
	b.content = append(b.content, content...)
	b.locs = append(b.locs, loc)

	segs := []string{module}
	if parent != "" {
		segs = append(segs, parent)
	}
	segs = append(segs, name)
	b.filePaths = append(b.filePaths, strings.Join(segs, "/"))
	return b
}

// AddFilePath is a convenience wrapper over AddFile that splits a
// resource path of the form "module/parent/base.ext" (parent optional,
// ext optional) on its final "." and "/" boundaries.
func (b *ImageBuilder) AddFilePath(resourcePath string, content []byte) *ImageBuilder {
	idx := strings.IndexByte(resourcePath, '/')
	module, rest := resourcePath, ""
	if idx >= 0 {
		module, rest = resourcePath[:idx], resourcePath[idx+1:]
	}
	parent, name := "", rest
	if slash := strings.LastIndexByte(rest, '/'); slash >= 0 {
		parent, name = rest[:slash], rest[slash+1:]
	}
	base, ext := name, ""
	if dot := strings.LastIndexByte(name, '.'); dot > 0 {
		base, ext = name[:dot], name[dot+1:]
	}
	return b.AddFile(module, parent, base, ext, content)
}

// dirEntry is one implied pseudo-directory discovered from the file
// tree: its parent directory's path (empty for a top-level module
// directory), its own final segment, and the full resource paths of its
// immediate children (files or subdirectories), in first-seen order.
type dirEntry struct {
	parent, base string
	children     []string
}

// buildDirectories walks every registered file path, materializes the
// implied directory tree (every strict ancestor directory, including
// each module's own root), and appends one pseudo-directory location
// per directory to b.locs, each holding its children's location-table
// offsets as content — the same discriminator and child-offset
// encoding internal/imagefmt.Open expects.
func (b *ImageBuilder) buildDirectories() {
	dirs := make(map[string]*dirEntry)
	var order []string

	var ensureDir func(path string) *dirEntry
	ensureDir = func(path string) *dirEntry {
		if d, ok := dirs[path]; ok {
			return d
		}
		parent, base := splitDirPath(path)
		d := &dirEntry{parent: parent, base: base}
		dirs[path] = d
		order = append(order, path)
		if parent != "" {
			pd := ensureDir(parent)
			pd.children = append(pd.children, path)
		}
		return d
	}

	for _, filePath := range b.filePaths {
		dirPath, _ := splitDirPath(filePath)
		d := ensureDir(dirPath)
		d.children = append(d.children, filePath)
	}

	childIndex := make(map[string]int, len(b.filePaths))
	for i, p := range b.filePaths {
		childIndex[p] = i
	}

	dirIndex := make(map[string]int, len(order))
	base := len(b.locs)
	for i, path := range order {
		dirIndex[path] = base + i
	}

	resolveIndex := func(childPath string) (int, bool) {
		if i, ok := childIndex[childPath]; ok {
			return i, true
		}
		if i, ok := dirIndex[childPath]; ok {
			return i, true
		}
		return 0, false
	}

	modulesOff := b.strOff["modules"]
	for _, path := range order {
		d := dirs[path]
		contentBytes := make([]byte, 0, len(d.children)*4)
		for _, child := range d.children {
			idx, ok := resolveIndex(child)
			if !ok {
				continue
			}
			offBuf := make([]byte, 4)
			b.order.PutUint32(offBuf, imagefmt.LocationOffsetByIndex(idx))
			contentBytes = append(contentBytes, offBuf...)
		}
		contentOffset := uint32(len(b.content))
		b.content = append(b.content, contentBytes...)

		b.locs = append(b.locs, location{
			module:        modulesOff,
			parent:        b.intern(d.parent),
			base:          b.intern(d.base),
			ext:           imagefmt.NoExtension,
			contentOffset: contentOffset,
			length:        uint32(len(contentBytes)),
		})
	}
}

// splitDirPath splits a resource path into its containing directory
// and its own final segment: "mod/a/b" -> ("mod/a", "b"); "mod" ->
// ("", "mod").
func splitDirPath(path string) (parent, base string) {
	idx := strings.LastIndexByte(path, '/')
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

// Build serializes the accumulated entries into a packed-image byte
// stream: header, length-prefixed string table, length-prefixed
// location table (files first, then one synthesized pseudo-directory
// per implied directory), length-prefixed content area.
func (b *ImageBuilder) Build() []byte {
	b.buildDirectories()

	var out []byte
	header := make([]byte, 8)
	b.order.PutUint32(header[0:4], 0xCAFEFEED)
	b.order.PutUint32(header[4:8], 1)
	out = append(out, header...)
	out = append(out, 0, 0, 0, 0) // padding to headerSize

	out = appendUint32Prefixed(out, b.order, b.strings)

	locBytes := make([]byte, 0, len(b.locs)*24)
	for _, l := range b.locs {
		rec := make([]byte, 24)
		b.order.PutUint32(rec[0:4], l.module)
		b.order.PutUint32(rec[4:8], l.parent)
		b.order.PutUint32(rec[8:12], l.base)
		b.order.PutUint32(rec[12:16], l.ext)
		b.order.PutUint32(rec[16:20], l.contentOffset)
		b.order.PutUint32(rec[20:24], l.length)
		locBytes = append(locBytes, rec...)
	}
	out = appendUint32Prefixed(out, b.order, locBytes)

	out = appendUint32Prefixed(out, b.order, b.content)
	return out
}

func appendUint32Prefixed(dst []byte, order binary.ByteOrder, data []byte) []byte {
	lenBuf := make([]byte, 4)
	order.PutUint32(lenBuf, uint32(len(data)))
	dst = append(dst, lenBuf...)
	return append(dst, data...)
}
