package parser

import (
	"github.com/tighterror/tighterror/internal/source"
)

// nodeKind classifies a value of the markup document.
type nodeKind uint8

const (
	kindOther nodeKind = iota
	kindMap
	kindList
	kindString
	kindBool
)

// node is a markup-neutral view of a decoded document.
// YAML and TOML front-ends lower into it so one reader handles both.
type node struct {
	kind nodeKind
	span source.Span
	// typ names the value type as the markup calls it, for diagnostics.
	typ string

	str     string
	boolean bool
	entries []entry
	items   []*node
}

type entry struct {
	key     string
	keySpan source.Span
	value   *node
}

func (n *node) lookup(key string) (entry, bool) {
	for _, e := range n.entries {
		if e.key == key {
			return e, true
		}
	}
	return entry{}, false
}

func (n *node) has(key string) bool {
	_, ok := n.lookup(key)
	return ok
}

func (k nodeKind) String() string {
	switch k {
	case kindMap:
		return "mapping"
	case kindList:
		return "list"
	case kindString:
		return "string"
	case kindBool:
		return "bool"
	default:
		return "value"
	}
}

// describe returns the markup type name used in "got X" messages.
func (n *node) describe() string {
	if n.typ != "" {
		return n.typ
	}
	return n.kind.String()
}
