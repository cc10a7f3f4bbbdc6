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

// Package imagefmt decodes the byte-level layout of a packed runtime
// image: a small header, a deduplicated string table, a fixed-size
// location table indexed by byte offset, and a content area holding
// file bytes and pseudo-directory child-offset arrays. It is a narrow
// collaborator consumed only by package jimage; nothing here knows
// about virtual paths, modules, or packages as concepts — only bytes,
// offsets, and records.
package imagefmt

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic identifies a packed runtime image container.
const Magic = uint32(0xCAFEFEED)

// Version is the only container version this package understands.
const Version = uint32(1)

// NoExtension is the sentinel ExtOffset value meaning "no extension".
const NoExtension = ^uint32(0)

const headerSize = 4 + 4 + 4 // magic, version, 4 reserved bytes
const locationSize = 4 * 6   // six uint32 fields, see Location

// ErrBadMagic is returned by Open when the leading magic number does
// not match Magic.
var ErrBadMagic = errors.New("imagefmt: bad magic number")

// ErrUnsupportedVersion is returned by Open when the container's
// version field is not one this package understands.
var ErrUnsupportedVersion = errors.New("imagefmt: unsupported version")

// ErrTruncated is returned when a table or record runs past the end
// of the supplied bytes.
var ErrTruncated = errors.New("imagefmt: truncated image")

// Location is one record in the location table: either a file entry
// or, when ModuleOffset equals the image's modules-pseudo-module
// offset, a pseudo-directory entry.
type Location struct {
	ModuleOffset  uint32
	ParentOffset  uint32
	BaseOffset    uint32
	ExtOffset     uint32 // NoExtension if the entry has no extension
	ContentOffset uint32
	ContentLength uint32
}

// HasExtension reports whether the location names an extension.
func (l Location) HasExtension() bool {
	return l.ExtOffset != NoExtension
}

// Image is a decoded, read-only view over a packed runtime image's
// byte layout. It does not interpret what the records mean — that is
// package jimage's job — it only resolves offsets to bytes.
type Image struct {
	order     binary.ByteOrder
	strings   []byte
	locations []byte // raw location-table bytes, locationSize per record
	content   []byte

	modulesPseudoModuleOffset uint32
}

// Open decodes a packed image from its raw bytes. The byte order is
// taken from how the leading magic number reads. The returned Image
// keeps sub-slices of data rather than copies, so data must stay alive
// and unmodified for as long as the Image is in use.
func Open(data []byte) (*Image, error) {
	if len(data) < headerSize {
		return nil, ErrTruncated
	}
	if binary.BigEndian.Uint32(data[0:4]) != Magic && binary.LittleEndian.Uint32(data[0:4]) != Magic {
		return nil, ErrBadMagic
	}

	var order binary.ByteOrder = binary.LittleEndian
	if binary.BigEndian.Uint32(data[0:4]) == Magic {
		order = binary.BigEndian
	}

	version := order.Uint32(data[4:8])
	if version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}

	off := headerSize

	stringsLen, next, err := readUint32Prefixed(data, off, order)
	if err != nil {
		return nil, err
	}
	stringTable := data[next : next+int(stringsLen)]
	off = next + int(stringsLen)

	locCount, next, err := readUint32Prefixed(data, off, order)
	if err != nil {
		return nil, err
	}
	locBytes := int(locCount) * locationSize
	if next+locBytes > len(data) {
		return nil, ErrTruncated
	}
	locationTable := data[next : next+locBytes]
	off = next + locBytes

	contentLen, next, err := readUint32Prefixed(data, off, order)
	if err != nil {
		return nil, err
	}
	content := data[next : next+int(contentLen)]

	img := &Image{
		order:     order,
		strings:   stringTable,
		locations: locationTable,
		content:   content,
	}
	img.modulesPseudoModuleOffset = img.findString("modules")
	return img, nil
}

func readUint32Prefixed(data []byte, off int, order binary.ByteOrder) (value uint32, next int, err error) {
	if off+4 > len(data) {
		return 0, 0, ErrTruncated
	}
	v := order.Uint32(data[off : off+4])
	next = off + 4
	if next+int(v) > len(data) {
		return 0, 0, ErrTruncated
	}
	return v, next, nil
}

// ByteOrder reports the image's declared byte order.
func (img *Image) ByteOrder() binary.ByteOrder {
	return img.order
}

// String resolves a string-table offset to its value. Strings are
// NUL-terminated; offset must point at the first byte.
func (img *Image) String(offset uint32) (string, error) {
	if int(offset) > len(img.strings) {
		return "", ErrTruncated
	}
	end := offset
	for int(end) < len(img.strings) && img.strings[end] != 0 {
		end++
	}
	if int(end) >= len(img.strings) {
		return "", ErrTruncated
	}
	return string(img.strings[offset:end]), nil
}

// findString returns the offset of s in the string table, or
// NoExtension (used here only as an "absent" sentinel of the same
// type) if s is not present.
func (img *Image) findString(s string) uint32 {
	target := []byte(s)
	for i := 0; i+len(target) <= len(img.strings); i++ {
		if i > 0 && img.strings[i-1] != 0 {
			continue
		}
		if string(img.strings[i:i+len(target)]) == s && (i+len(target) == len(img.strings) || img.strings[i+len(target)] == 0) {
			return uint32(i)
		}
	}
	return NoExtension
}

// ModulesPseudoModuleOffset is the string-table offset of the fixed
// string "modules". A Location whose ModuleOffset equals this value is
// a pseudo-directory entry, per the container's discriminator rule.
func (img *Image) ModulesPseudoModuleOffset() uint32 {
	return img.modulesPseudoModuleOffset
}

// LocationCount returns the number of records in the location table.
func (img *Image) LocationCount() int {
	return len(img.locations) / locationSize
}

// LocationAt decodes the location record at the given byte offset
// into the location table.
func (img *Image) LocationAt(offset uint32) (Location, error) {
	if offset%locationSize != 0 || int(offset)+locationSize > len(img.locations) {
		return Location{}, ErrTruncated
	}
	rec := img.locations[offset : offset+locationSize]
	return Location{
		ModuleOffset:  img.order.Uint32(rec[0:4]),
		ParentOffset:  img.order.Uint32(rec[4:8]),
		BaseOffset:    img.order.Uint32(rec[8:12]),
		ExtOffset:     img.order.Uint32(rec[12:16]),
		ContentOffset: img.order.Uint32(rec[16:20]),
		ContentLength: img.order.Uint32(rec[20:24]),
	}, nil
}

// LocationOffsetByIndex converts a record index into the byte offset
// LocationAt expects. Exposed for builders that assemble a location
// table index-by-index.
func LocationOffsetByIndex(index int) uint32 {
	return uint32(index * locationSize)
}

// IsPseudoDirectory reports whether loc is a pseudo-directory entry:
// its module-name offset equals the offset of the fixed string
// "modules".
func (img *Image) IsPseudoDirectory(loc Location) bool {
	return loc.ModuleOffset == img.modulesPseudoModuleOffset
}

// ResourceReader exposes a location's content bytes. Decompression of
// individual resource bytes is out of scope for this package — content
// is returned exactly as stored; a wrapping layer that understands a
// particular compression scheme may sit in front of this.
type ResourceReader interface {
	Open() ([]byte, error)
}

type rawContentReader struct {
	data []byte
}

func (r rawContentReader) Open() ([]byte, error) {
	return r.data, nil
}

// Content returns a ResourceReader over loc's raw content bytes.
func (img *Image) Content(loc Location) (ResourceReader, error) {
	start, end := int(loc.ContentOffset), int(loc.ContentOffset)+int(loc.ContentLength)
	if start < 0 || end > len(img.content) || start > end {
		return nil, ErrTruncated
	}
	return rawContentReader{data: img.content[start:end]}, nil
}

// ChildOffsets decodes a pseudo-directory's content as a sequence of
// 32-bit location-table offsets, one per immediate child, in the
// image's declared byte order.
func (img *Image) ChildOffsets(loc Location) ([]uint32, error) {
	reader, err := img.Content(loc)
	if err != nil {
		return nil, err
	}
	data, err := reader.Open()
	if err != nil {
		return nil, err
	}
	if len(data)%4 != 0 {
		return nil, ErrTruncated
	}
	offsets := make([]uint32, len(data)/4)
	for i := range offsets {
		offsets[i] = img.order.Uint32(data[i*4 : i*4+4])
	}
	return offsets, nil
}
