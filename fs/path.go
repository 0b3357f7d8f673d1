package fs

import (
	"strings"
)

// Path separator and the special segments recognized during parsing.
const (
	Separator = "/"
	parentDir = ".."
	currentDir = "."
)

// Path is an immutable, structured representation of a location in a file
// system. It is an ordered sequence of non-empty segments plus a flag that
// records whether the path is anchored at the root. All methods that derive a
// new location return a fresh Path and leave the receiver untouched.
//
// Unlike path.Clean, a Path keeps leading ".." segments: a ".." that has no
// preceding concrete segment to cancel is preserved in place, so relative
// paths such as "../foo" survive a round trip through Resolve.
type Path struct {
	segments []string
	absolute bool
}

// Root returns the absolute path with no segments ("/").
func Root() Path {
	return Path{absolute: true}
}

// NewPath builds a path from a list of segments. The segment list is
// normalized: ".." cancels the nearest preceding concrete segment.
func NewPath(segments []string, absolute bool) Path {
	return Path{segments: normalize(segments), absolute: absolute}
}

// ParsePath parses a string into a path. Empty fragments and "." fragments
// are discarded; the path is absolute when the string is empty or starts
// with the separator.
func ParsePath(s string) Path {
	s = strings.TrimSpace(s)
	return Path{
		segments: normalize(splitSegments(s)),
		absolute: s == "" || strings.HasPrefix(s, Separator),
	}
}

// IsAbsolute reports whether the path is anchored at the root.
func (p Path) IsAbsolute() bool {
	return p.absolute
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Join resolves other against p. An absolute argument replaces p outright;
// a relative argument's segments are appended and the result is normalized.
func (p Path) Join(other Path) Path {
	if other.absolute {
		return other
	}
	merged := make([]string, 0, len(p.segments)+len(other.segments))
	merged = append(merged, p.segments...)
	merged = append(merged, other.segments...)
	return Path{segments: normalize(merged), absolute: p.absolute}
}

// Resolve resolves a path string against p. A string starting with the
// separator is parsed as an absolute path and replaces p; anything else is
// split into segments and appended.
//
// Resolve deliberately does not route the empty string through ParsePath:
// parsing "" yields the root, but resolving "" against a directory must keep
// that directory.
func (p Path) Resolve(s string) Path {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, Separator) {
		return ParsePath(s)
	}
	return p.Join(Path{segments: normalize(splitSegments(s))})
}

// Parent returns the path one level up from p.
func (p Path) Parent() Path {
	return p.Join(Path{segments: []string{parentDir}})
}

// Base returns the last segment of the path, or "" for the root.
func (p Path) Base() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Escapes reports whether the path still points above its origin after
// normalization, that is, whether it retains a leading ".." segment.
func (p Path) Escapes() bool {
	return len(p.segments) > 0 && p.segments[0] == parentDir
}

// Equal reports whether two paths have the same flag and segment sequence.
func (p Path) Equal(other Path) bool {
	if p.absolute != other.absolute || len(p.segments) != len(other.segments) {
		return false
	}
	for i, seg := range p.segments {
		if other.segments[i] != seg {
			return false
		}
	}
	return true
}

// String renders the path. The absolute empty path is the root "/"; the
// relative empty path is "".
func (p Path) String() string {
	var out strings.Builder
	if p.absolute {
		out.WriteString(Separator)
	}
	for i, seg := range p.segments {
		if i > 0 {
			out.WriteString(Separator)
		}
		out.WriteString(seg)
	}
	return out.String()
}

// splitSegments splits a string on the separator, dropping empty fragments,
// whitespace-only fragments and "." fragments.
func splitSegments(s string) []string {
	var parts []string
	for _, frag := range strings.Split(s, Separator) {
		frag = strings.TrimSpace(frag)
		if frag == "" || frag == currentDir {
			continue
		}
		parts = append(parts, frag)
	}
	return parts
}

// normalize applies the ".." cancellation rule: each ".." cancels the
// nearest preceding concrete segment; a ".." with nothing left to cancel is
// kept in place.
func normalize(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == parentDir && len(out) > 0 && out[len(out)-1] != parentDir {
			out = out[:len(out)-1]
			continue
		}
		out = append(out, seg)
	}
	return out
}
