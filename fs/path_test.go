package fs

import (
	"math/rand"
	"strings"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		absolute bool
	}{
		{
			name:     "empty string is the root",
			input:    "",
			expected: "/",
			absolute: true,
		},
		{
			name:     "root",
			input:    "/",
			expected: "/",
			absolute: true,
		},
		{
			name:     "simple absolute path",
			input:    "/foo/bar",
			expected: "/foo/bar",
			absolute: true,
		},
		{
			name:     "simple relative path",
			input:    "foo/bar",
			expected: "foo/bar",
			absolute: false,
		},
		{
			name:     "repeated separators collapse",
			input:    "/foo//bar///baz",
			expected: "/foo/bar/baz",
			absolute: true,
		},
		{
			name:     "trailing separator ignored",
			input:    "/foo/bar/",
			expected: "/foo/bar",
			absolute: true,
		},
		{
			name:     "dot fragments dropped",
			input:    "./foo/./bar",
			expected: "foo/bar",
			absolute: false,
		},
		{
			name:     "parent cancels nearest segment",
			input:    "/foo/../bar",
			expected: "/bar",
			absolute: true,
		},
		{
			name:     "parent cancels across several levels",
			input:    "a/b/c/../../d",
			expected: "a/d",
			absolute: false,
		},
		{
			name:     "leading parent preserved",
			input:    "../foo",
			expected: "../foo",
			absolute: false,
		},
		{
			name:     "stacked leading parents preserved",
			input:    "../../foo",
			expected: "../../foo",
			absolute: false,
		},
		{
			name:     "parent then concrete then parent",
			input:    "../a/..",
			expected: "..",
			absolute: false,
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  /foo/bar  ",
			expected: "/foo/bar",
			absolute: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePath(tt.input)
			if got := p.String(); got != tt.expected {
				t.Errorf("ParsePath(%q).String() = %q, want %q", tt.input, got, tt.expected)
			}
			if p.IsAbsolute() != tt.absolute {
				t.Errorf("ParsePath(%q).IsAbsolute() = %v, want %v", tt.input, p.IsAbsolute(), tt.absolute)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		arg      string
		expected string
	}{
		{
			name:     "relative appends",
			base:     "/foo",
			arg:      "bar",
			expected: "/foo/bar",
		},
		{
			name:     "absolute replaces",
			base:     "/foo",
			arg:      "/baz",
			expected: "/baz",
		},
		{
			name:     "empty keeps base",
			base:     "/foo/bar",
			arg:      "",
			expected: "/foo/bar",
		},
		{
			name:     "parent climbs",
			base:     "/foo/bar",
			arg:      "..",
			expected: "/foo",
		},
		{
			name:     "parent then descend",
			base:     "/foo/bar",
			arg:      "../baz",
			expected: "/foo/baz",
		},
		{
			name:     "climb past root keeps parents",
			base:     "a",
			arg:      "../../b",
			expected: "../b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePath(tt.base).Resolve(tt.arg).String()
			if got != tt.expected {
				t.Errorf("ParsePath(%q).Resolve(%q) = %q, want %q", tt.base, tt.arg, got, tt.expected)
			}
		})
	}
}

func TestJoinAbsoluteReplaces(t *testing.T) {
	base := ParsePath("/a/b")
	abs := ParsePath("/c")
	if got := base.Join(abs).String(); got != "/c" {
		t.Errorf("Join with absolute path = %q, want %q", got, "/c")
	}
}

func TestParentAndBase(t *testing.T) {
	p := ParsePath("/a/b/c")
	if got := p.Parent().String(); got != "/a/b" {
		t.Errorf("Parent() = %q, want %q", got, "/a/b")
	}
	if got := p.Base(); got != "c" {
		t.Errorf("Base() = %q, want %q", got, "c")
	}
	if got := Root().Base(); got != "" {
		t.Errorf("Root().Base() = %q, want empty", got)
	}
}

func TestEscapes(t *testing.T) {
	if !ParsePath("../a").Escapes() {
		t.Error("expected ../a to escape")
	}
	if ParsePath("a/../b").Escapes() {
		t.Error("did not expect a/../b to escape")
	}
	if Root().Escapes() {
		t.Error("did not expect the root to escape")
	}
}

func TestEqual(t *testing.T) {
	if !ParsePath("/a/b").Equal(ParsePath("/a//b/")) {
		t.Error("expected equivalent spellings to compare equal")
	}
	if ParsePath("/a/b").Equal(ParsePath("a/b")) {
		t.Error("absolute and relative must not compare equal")
	}
	if ParsePath("/a/b").Equal(ParsePath("/a/c")) {
		t.Error("different segments must not compare equal")
	}
}

func TestImmutability(t *testing.T) {
	p := ParsePath("/a/b")
	p.Resolve("c")
	p.Parent()
	segs := p.Segments()
	segs[0] = "mutated"
	if got := p.String(); got != "/a/b" {
		t.Errorf("path mutated to %q", got)
	}
}

// refNormalize is an independent model of the cancellation rule, used to
// cross-check normalization on random inputs.
func refNormalize(segments []string) []string {
	var stack []string
	for _, seg := range segments {
		if seg == ".." {
			if n := len(stack); n > 0 && stack[n-1] != ".." {
				stack = stack[:n-1]
				continue
			}
		}
		stack = append(stack, seg)
	}
	return stack
}

func TestNormalizeRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	alphabet := []string{"a", "b", "c", ".."}
	for i := 0; i < 1000; i++ {
		n := rng.Intn(8)
		segs := make([]string, n)
		for j := range segs {
			segs[j] = alphabet[rng.Intn(len(alphabet))]
		}
		got := NewPath(segs, false).String()
		want := strings.Join(refNormalize(segs), "/")
		if got != want {
			t.Fatalf("NewPath(%v) = %q, want %q", segs, got, want)
		}
	}
}
