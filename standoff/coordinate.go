package standoff

import (
	"strconv"
	"strings"

	"github.com/wippyai/parse-bridge/errors"
)

// Coordinate addresses a node by the child indices on the path from the
// root. The root is the empty coordinate.
type Coordinate []int

// IsPrefixOf reports whether c is a prefix of other, that is whether the node
// at other lies in the subtree at c.
func (c Coordinate) IsPrefixOf(other Coordinate) bool {
	if len(c) > len(other) {
		return false
	}
	for i, v := range c {
		if other[i] != v {
			return false
		}
	}
	return true
}

// Child returns the coordinate of the i-th child.
func (c Coordinate) Child(i int) Coordinate {
	out := make(Coordinate, len(c)+1)
	copy(out, c)
	out[len(c)] = i
	return out
}

// String renders the coordinate as dotted indices, "0.1.1".
func (c Coordinate) String() string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ".")
}

// ParseCoordinate reads a dotted coordinate. The empty string is the root.
func ParseCoordinate(s string) (Coordinate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Coordinate{}, nil
	}
	parts := strings.Split(s, ".")
	c := make(Coordinate, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return nil, errors.InvalidInput(errors.PhaseBracket, "bad coordinate "+strconv.Quote(s))
		}
		c[i] = v
	}
	return c, nil
}
