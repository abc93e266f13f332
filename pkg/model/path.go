package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a field by its sibling index at each depth. The empty path
// addresses the root forest.
type Path []int

// ParsePath decodes the dotted form produced by Path.String ("0.2.1"). An
// empty string yields the root path.
func ParsePath(raw string) (Path, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Path{}, nil
	}
	parts := strings.Split(raw, ".")
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("%w: invalid segment %q in %q", ErrPathNotFound, part, raw)
		}
		out = append(out, idx)
	}
	return out, nil
}

func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// Child returns a new path pointing at the index-th child of p.
func (p Path) Child(index int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, index)
}

// Split separates a non-root path into its parent path and the last index.
func (p Path) Split() (Path, int, bool) {
	if len(p) == 0 {
		return nil, 0, false
	}
	parent := make(Path, len(p)-1)
	copy(parent, p[:len(p)-1])
	return parent, p[len(p)-1], true
}

// Depth reports how many levels below the root forest p points.
func (p Path) Depth() int {
	return len(p)
}
