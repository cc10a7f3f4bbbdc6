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

// Package vpath validates and manipulates the two flavors of path this
// module deals with: absolute virtual paths (as seen by callers of the
// engine, e.g. "/modules/java.base/java/lang/Object.class") and resource
// paths (the module-relative form passed to a ResourceProvider, e.g.
// "java.base/java/lang/Object.class").
package vpath

import "strings"

// ModulesPrefix and PackagesPrefix are the two normalized top-level
// segments recognized under the hierarchy root.
const (
	ModulesPrefix  = "/modules"
	PackagesPrefix = "/packages"
)

// IsValidAbsolute reports whether s is a legal absolute virtual path:
// empty (the hierarchy root), or beginning with "/" and obeying the
// same segment rules as IsValidRelative.
func IsValidAbsolute(s string) bool {
	if s == "" {
		return true
	}
	if s[0] != '/' {
		return false
	}
	return isValidSegmented(s[1:])
}

// IsValidRelative reports whether s is a legal, non-empty relative
// virtual path: no leading "/", no trailing "/", no "//" , no segment
// equal to "." or "..", no segment starting or ending with ".".
func IsValidRelative(s string) bool {
	if s == "" {
		return false
	}
	return isValidSegmented(s)
}

// isValidSegmented validates the segment-rules portion of a path with
// any leading slash already stripped. An empty string is valid here
// (it represents the root when called from IsValidAbsolute).
func isValidSegmented(s string) bool {
	if s == "" {
		return true
	}
	if s[0] == '/' || s[len(s)-1] == '/' || s[len(s)-1] == '.' {
		return false
	}
	if strings.Contains(s, "//") {
		return false
	}
	if strings.Contains(s, "..") {
		return false
	}
	for _, seg := range strings.Split(s, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
		if strings.HasPrefix(seg, ".") || strings.HasSuffix(seg, ".") {
			return false
		}
	}
	return true
}

// HasPrefix reports whether abs identifies the given normalized prefix
// ("/modules" or "/packages"), either as an exact match or a
// "/"-bounded match. "/modulesX" does not identify "/modules".
func HasPrefix(abs, prefix string) bool {
	if abs == prefix {
		return true
	}
	return strings.HasPrefix(abs, prefix+"/")
}

// Resolve joins a normalized prefix with a relative resource path.
// Resolve(prefix, "") == prefix; otherwise prefix + "/" + rel.
func Resolve(prefix, rel string) string {
	if rel == "" {
		return prefix
	}
	return prefix + "/" + rel
}

// Relativize strips prefix + "/" from abs, returning the trailing
// segment(s). If abs equals prefix exactly, returns "".
func Relativize(prefix, abs string) string {
	if abs == prefix {
		return ""
	}
	return strings.TrimPrefix(abs, prefix+"/")
}

// Split divides a relative resource path into its first segment (the
// module name) and the remainder (possibly empty).
func Split(rel string) (head, tail string) {
	if idx := strings.IndexByte(rel, '/'); idx >= 0 {
		return rel[:idx], rel[idx+1:]
	}
	return rel, ""
}

// Base returns the final segment of an absolute or relative path. For
// the root ("" or a path with no "/"), it returns the whole string.
func Base(p string) string {
	if idx := strings.LastIndexByte(p, '/'); idx >= 0 {
		return p[idx+1:]
	}
	return p
}

// PackageToPath converts a dotted package name ("a.b.c") into its path
// form ("a/b/c").
func PackageToPath(pkg string) string {
	return strings.ReplaceAll(pkg, ".", "/")
}

// PathToPackage converts a path-form package name ("a/b/c") into its
// dotted form ("a.b.c").
func PathToPackage(p string) string {
	return strings.ReplaceAll(p, "/", ".")
}

// IsValidPackageName reports whether pkg is a syntactically legal
// dotted package identifier: non-empty, "."-separated, no empty
// component.
func IsValidPackageName(pkg string) bool {
	if pkg == "" {
		return false
	}
	for _, part := range strings.Split(pkg, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// IsValidModuleName reports whether mod is a syntactically legal
// module identifier: non-empty, contains no "/".
func IsValidModuleName(mod string) bool {
	return mod != "" && !strings.Contains(mod, "/")
}
