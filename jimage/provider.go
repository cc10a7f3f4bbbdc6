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

// Package jimage implements provider.ResourceProvider over a packed
// runtime image decoded by internal/imagefmt. It is the bridge between
// the byte-level container format and the engine's resource-path
// vocabulary: translating location-table records into files and
// pseudo-directories by walking the format's own child-offset records,
// and recognizing the reserved "<mod>/META-INF/preview/..." subtree as
// the preview layer for whatever real path it shadows.
package jimage

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"jrtfs.dev/jrtfs/fs"
	"jrtfs.dev/jrtfs/internal/imagefmt"
	"jrtfs.dev/jrtfs/provider"
	"jrtfs.dev/jrtfs/vnode"
)

const previewSegment = "META-INF/preview"

// Provider is a provider.ResourceProvider backed by a decoded packed
// image. A Provider is safe for concurrent use.
type Provider struct {
	img *imagefmt.Image

	mu      sync.RWMutex
	byPath  map[string]imagefmt.Location // resource path -> file location
	dirs    map[string]imagefmt.Location // resource path -> pseudo-directory location
	modules map[string]*moduleInfo

	closer func() error
}

type moduleInfo struct {
	previewPaths map[string]bool // resource paths (module-relative, preview-stripped) with a preview entry
}

// Open reads the full packed image at path off the real filesystem and
// decodes it. It is a thin convenience wrapper over OpenFS using
// fs.NewOSFileSystem.
func Open(path string) (*Provider, error) {
	return OpenFS(fs.NewOSFileSystem(), path)
}

// OpenFS reads the full packed image at path via osfs and decodes it.
// Passing an internal/mapfs.MapFileSystem lets tests exercise this
// path without touching the real filesystem.
func OpenFS(osfs fs.FileSystem, path string) (*Provider, error) {
	data, err := osfs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("jimage: open %s: %w", path, err)
	}
	return newProvider(data, nil)
}

// OpenBytes decodes a packed image already resident in memory, such as
// one built in-process or received over the wire. The caller retains
// ownership of data.
func OpenBytes(data []byte) (*Provider, error) {
	return newProvider(data, nil)
}

func newProvider(data []byte, closer func() error) (*Provider, error) {
	img, err := imagefmt.Open(data)
	if err != nil {
		return nil, fmt.Errorf("jimage: decode: %w", err)
	}
	p := &Provider{
		img:     img,
		byPath:  make(map[string]imagefmt.Location),
		dirs:    make(map[string]imagefmt.Location),
		modules: make(map[string]*moduleInfo),
		closer:  closer,
	}
	if err := p.index(); err != nil {
		return nil, err
	}
	return p, nil
}

// Close runs the provider's release hook, if it has one. Providers
// created by Open, OpenFS and OpenBytes have none: the image is held
// fully in memory and no file handle stays open, so Close returns nil
// and does not invalidate the provider or its nodes; content reads
// still succeed after Close.
func (p *Provider) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

// index walks every location in the image once, building the
// file-path index, the pseudo-directory index, and discovering each
// module's preview subtree. Pseudo-directory locations are recorded by
// the resource path they name, not discarded: ForEachChildOf later
// decodes their content as a child-offset array via
// imagefmt.ChildOffsets, rather than inferring directory-ness from
// which file paths happen to share a prefix.
func (p *Provider) index() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := 0; i < p.img.LocationCount(); i++ {
		offset := imagefmt.LocationOffsetByIndex(i)
		loc, err := p.img.LocationAt(offset)
		if err != nil {
			return fmt.Errorf("jimage: location %d: %w", i, err)
		}

		if p.img.IsPseudoDirectory(loc) {
			dirPath, err := p.pseudoDirectoryPath(loc)
			if err != nil {
				return fmt.Errorf("jimage: directory path at location %d: %w", i, err)
			}
			p.dirs[dirPath] = loc
			continue
		}

		modName, err := p.img.String(loc.ModuleOffset)
		if err != nil {
			return fmt.Errorf("jimage: module name at location %d: %w", i, err)
		}
		full, err := p.fullResourcePath(loc)
		if err != nil {
			return fmt.Errorf("jimage: resource path at location %d: %w", i, err)
		}

		p.byPath[full] = loc
		p.ensureModule(modName)

		if rest, ok := previewRelative(modName, full); ok {
			p.modules[modName].previewPaths[rest] = true
		}
	}
	return nil
}

func (p *Provider) ensureModule(name string) {
	if _, ok := p.modules[name]; !ok {
		p.modules[name] = &moduleInfo{previewPaths: make(map[string]bool)}
	}
}

// previewRelative reports whether full (a module-relative resource
// path, "<mod>/...") falls under "<mod>/META-INF/preview/", returning
// the path with that prefix stripped — the path it shadows when
// preview mode is active.
func previewRelative(mod, full string) (string, bool) {
	prefix := mod + "/" + previewSegment + "/"
	if !strings.HasPrefix(full, prefix) {
		return "", false
	}
	return full[len(prefix):], true
}

// isReservedPreviewPath reports whether path is, or falls under, the
// reserved "<mod>/META-INF/preview" storage subtree. Such paths must
// never resolve or enumerate while preview is disabled, regardless of
// whether they happen to share a prefix with an ordinary directory
// like "<mod>/META-INF".
func isReservedPreviewPath(path string) bool {
	idx := strings.IndexByte(path, '/')
	if idx < 0 {
		return false
	}
	rest := path[idx+1:]
	return rest == previewSegment || strings.HasPrefix(rest, previewSegment+"/")
}

// pseudoDirectoryPath reconstructs the resource path a pseudo-directory
// location names: its parent path plus its own base segment, joined,
// or the bare base segment when the directory has no parent (a
// top-level module directory).
func (p *Provider) pseudoDirectoryPath(loc imagefmt.Location) (string, error) {
	parent, err := p.img.String(loc.ParentOffset)
	if err != nil {
		return "", err
	}
	base, err := p.img.String(loc.BaseOffset)
	if err != nil {
		return "", err
	}
	if parent == "" {
		return base, nil
	}
	return parent + "/" + base, nil
}

func (p *Provider) fullResourcePath(loc imagefmt.Location) (string, error) {
	mod, err := p.img.String(loc.ModuleOffset)
	if err != nil {
		return "", err
	}
	parent, err := p.img.String(loc.ParentOffset)
	if err != nil {
		return "", err
	}
	base, err := p.img.String(loc.BaseOffset)
	if err != nil {
		return "", err
	}
	name := base
	if loc.HasExtension() {
		ext, err := p.img.String(loc.ExtOffset)
		if err != nil {
			return "", err
		}
		name = base + "." + ext
	}
	segs := []string{mod}
	if parent != "" {
		segs = append(segs, parent)
	}
	segs = append(segs, name)
	return strings.Join(segs, "/"), nil
}

// childName decodes the leaf (final-segment) name of a location,
// independent of whether it denotes a file or a pseudo-directory: both
// store their own name in BaseOffset (plus ExtOffset for a file).
func (p *Provider) childName(loc imagefmt.Location) (string, error) {
	base, err := p.img.String(loc.BaseOffset)
	if err != nil {
		return "", err
	}
	if p.img.IsPseudoDirectory(loc) || !loc.HasExtension() {
		return base, nil
	}
	ext, err := p.img.String(loc.ExtOffset)
	if err != nil {
		return "", err
	}
	return base + "." + ext, nil
}

// previewResourcePath maps a "public" resource path to the internal
// META-INF/preview path that shadows it: "mod/a/b" -> "mod/META-INF/preview/a/b",
// and a bare module name "mod" -> "mod/META-INF/preview".
func previewResourcePath(resourcePath string) (string, bool) {
	if resourcePath == "" {
		return "", false
	}
	idx := strings.IndexByte(resourcePath, '/')
	if idx < 0 {
		return resourcePath + "/" + previewSegment, true
	}
	mod, rest := resourcePath[:idx], resourcePath[idx+1:]
	return mod + "/" + previewSegment + "/" + rest, true
}

// GetResource implements provider.ResourceProvider. When preview is
// true, only the preview-layer storage path is consulted — a miss
// returns false rather than falling back to base, matching the
// engine's own two-call fallback in findModulesNode. When preview is
// false, the reserved preview subtree is excluded outright: no path
// under it is ever visible outside preview mode.
func (p *Provider) GetResource(resourcePath string, factory provider.NodeFactory, preview bool) (vnode.Node, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	absPath := resolveModulesPath(resourcePath)

	if resourcePath == "" {
		return factory.NewDirectory(absPath, resourcePath), true
	}

	if preview {
		pp, ok := previewResourcePath(resourcePath)
		if !ok {
			return nil, false
		}
		if loc, ok := p.byPath[pp]; ok {
			return factory.NewFile(absPath, p.contentReader(loc)), true
		}
		if _, ok := p.dirs[pp]; ok {
			return factory.NewDirectory(absPath, resourcePath), true
		}
		return nil, false
	}

	if isReservedPreviewPath(resourcePath) {
		return nil, false
	}
	if loc, ok := p.byPath[resourcePath]; ok {
		return factory.NewFile(absPath, p.contentReader(loc)), true
	}
	if _, ok := p.dirs[resourcePath]; ok {
		return factory.NewDirectory(absPath, resourcePath), true
	}
	return nil, false
}

func (p *Provider) contentReader(loc imagefmt.Location) func() ([]byte, error) {
	return func() ([]byte, error) {
		reader, err := p.img.Content(loc)
		if err != nil {
			return nil, err
		}
		return reader.Open()
	}
}

// ForEachChildOf implements provider.ResourceProvider by decoding the
// target directory's pseudo-directory record and walking its
// child-offset array (imagefmt.ChildOffsets), one LocationAt lookup per
// child — the packed format's own enumeration mechanism, not a
// heuristic over which file paths share a prefix. The top-level
// "" directory (the /modules root) has no location of its own in the
// image; its children are the known module names.
func (p *Provider) ForEachChildOf(factory provider.NodeFactory, resourcePath string, preview bool, sink provider.ChildSink) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if preview {
		pp, ok := previewResourcePath(resourcePath)
		if !ok {
			return
		}
		dirLoc, ok := p.dirs[pp]
		if !ok {
			return
		}
		p.emitChildrenLocked(factory, dirLoc, resourcePath, sink)
		return
	}

	if isReservedPreviewPath(resourcePath) {
		return
	}

	if resourcePath == "" {
		for _, name := range p.sortedModuleNamesLocked() {
			sink(factory.NewDirectory(resolveModulesPath(name), name))
		}
		return
	}

	dirLoc, ok := p.dirs[resourcePath]
	if !ok {
		return
	}
	p.emitChildrenLocked(factory, dirLoc, resourcePath, sink)
}

// emitChildrenLocked decodes dirLoc's child-offset array and sinks one
// node per child, named as parentVirtual+"/"+leaf so a preview-layer
// child is reported under its public path rather than its internal
// META-INF/preview storage path. Caller must hold p.mu.
func (p *Provider) emitChildrenLocked(factory provider.NodeFactory, dirLoc imagefmt.Location, parentVirtual string, sink provider.ChildSink) {
	offsets, err := p.img.ChildOffsets(dirLoc)
	if err != nil {
		return
	}
	for _, off := range offsets {
		childLoc, err := p.img.LocationAt(off)
		if err != nil {
			continue
		}
		name, err := p.childName(childLoc)
		if err != nil {
			continue
		}
		virtual := name
		if parentVirtual != "" {
			virtual = parentVirtual + "/" + name
		}
		if isReservedPreviewPath(virtual) {
			continue
		}
		absPath := resolveModulesPath(virtual)
		if p.img.IsPseudoDirectory(childLoc) {
			sink(factory.NewDirectory(absPath, virtual))
		} else {
			sink(factory.NewFile(absPath, p.contentReader(childLoc)))
		}
	}
}

func (p *Provider) sortedModuleNamesLocked() []string {
	names := make([]string, 0, len(p.modules))
	for name := range p.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAllModuleNames implements provider.ResourceProvider.
func (p *Provider) GetAllModuleNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.sortedModuleNamesLocked()
}

// GetPackageNames implements provider.ResourceProvider. The base pass
// excludes any path under a module's reserved META-INF/preview
// subtree, so a disabled preview layer can never leak a package name
// that exists only there; the preview pass (gated on preview) adds
// package names discovered under that subtree, translated back to
// their public, preview-stripped form via each module's previewPaths.
func (p *Provider) GetPackageNames(preview bool) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make(map[string]bool)
	for path := range p.byPath {
		if isReservedPreviewPath(path) {
			continue
		}
		for _, dir := range ancestorPackageDirs(path) {
			names[strings.ReplaceAll(dir, "/", ".")] = true
		}
	}
	if preview {
		for mod, info := range p.modules {
			for rest := range info.previewPaths {
				full := mod + "/" + rest
				for _, dir := range ancestorPackageDirs(full) {
					names[strings.ReplaceAll(dir, "/", ".")] = true
				}
			}
		}
	}

	result := make([]string, 0, len(names))
	for n := range names {
		result = append(result, n)
	}
	sort.Strings(result)
	return result
}

// PackageExists implements provider.ResourceProvider.
func (p *Provider) PackageExists(module, pkg string, preview bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rel := module + "/" + strings.ReplaceAll(pkg, ".", "/")
	if _, ok := p.dirs[rel]; ok {
		return true
	}
	if !preview {
		return false
	}
	previewRel, ok := previewResourcePath(rel)
	if !ok {
		return false
	}
	_, ok = p.dirs[previewRel]
	return ok
}

// GetModulesForPackage implements provider.ResourceProvider.
func (p *Provider) GetModulesForPackage(pkg string, preview bool) []string {
	var mods []string
	for _, mod := range p.GetAllModuleNames() {
		if p.PackageExists(mod, pkg, preview) {
			mods = append(mods, mod)
		}
	}
	return mods
}

// ancestorPackageDirs returns every strict ancestor directory of path
// beyond the module segment, shallowest first.
func ancestorPackageDirs(path string) []string {
	parts := strings.Split(path, "/")
	if len(parts) < 3 {
		return nil
	}
	dirs := parts[1 : len(parts)-1]
	result := make([]string, 0, len(dirs))
	for i := 1; i <= len(dirs); i++ {
		result = append(result, strings.Join(dirs[:i], "/"))
	}
	return result
}

func resolveModulesPath(resourcePath string) string {
	if resourcePath == "" {
		return "/modules"
	}
	return "/modules/" + resourcePath
}
