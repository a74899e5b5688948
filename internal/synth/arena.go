package synth

import (
	"regexp/syntax"

	"display-generator/internal/capture"
)

// NodeID indexes a node in an Arena.
type NodeID int

// Kind discriminates arena nodes.
type Kind int

const (
	// KindLiteral matches text exactly.
	KindLiteral Kind = iota
	// KindTag matches a variant tag exactly.
	KindTag
	// KindCapture wraps Sub[0] in the named group of Slot.
	KindCapture
	// KindAny is the lazy "anything across lines" fallback.
	KindAny
	// KindHint is a capability-supplied pattern, used verbatim.
	KindHint
	// KindRaw is a rewritten caller-supplied fragment.
	KindRaw
	// KindConcat matches Sub in sequence.
	KindConcat
	// KindOptional matches Sub[0] zero or one time, preferring zero.
	KindOptional
	// KindRepeat matches Sub[0] zero or more times separated by Sub[1].
	KindRepeat
	// KindScope binds the self sentinel inside Sub[0] to Slot.
	KindScope
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindTag:
		return "tag"
	case KindCapture:
		return "capture"
	case KindAny:
		return "any"
	case KindHint:
		return "hint"
	case KindRaw:
		return "raw"
	case KindConcat:
		return "concat"
	case KindOptional:
		return "optional"
	case KindRepeat:
		return "repeat"
	case KindScope:
		return "scope"
	default:
		return "unknown"
	}
}

// Node is one element of a pattern tree.
type Node struct {
	Kind Kind
	Text string
	Slot capture.Slot
	Sub  []NodeID
	Re   *syntax.Regexp
}

// Arena owns the nodes of the patterns of one compiled unit. Nodes are
// immutable once added and refer to each other by index.
type Arena struct {
	nodes []Node
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

func (a *Arena) add(n Node) NodeID {
	a.nodes = append(a.nodes, n)
	return NodeID(len(a.nodes) - 1)
}

// Node returns the node with the given id.
func (a *Arena) Node(id NodeID) Node {
	return a.nodes[id]
}

// Len returns the number of nodes.
func (a *Arena) Len() int {
	return len(a.nodes)
}

// Literal adds an exact-text node.
func (a *Arena) Literal(text string) NodeID {
	return a.add(Node{Kind: KindLiteral, Text: text})
}

// Tag adds a variant tag node.
func (a *Arena) Tag(text string) NodeID {
	return a.add(Node{Kind: KindTag, Text: text})
}

// Any adds the lazy fallback node.
func (a *Arena) Any() NodeID {
	return a.add(Node{Kind: KindAny})
}

// Hint adds a capability pattern. The pattern must not contain named groups.
func (a *Arena) Hint(pattern string) NodeID {
	return a.add(Node{Kind: KindHint, Text: pattern})
}

// Capture adds a named capture of body.
func (a *Arena) Capture(slot capture.Slot, body NodeID) NodeID {
	return a.add(Node{Kind: KindCapture, Slot: slot, Sub: []NodeID{body}})
}

// Concat adds a sequence.
func (a *Arena) Concat(ids ...NodeID) NodeID {
	return a.add(Node{Kind: KindConcat, Sub: append([]NodeID(nil), ids...)})
}

// Optional adds a zero-or-one occurrence of body.
func (a *Arena) Optional(body NodeID) NodeID {
	return a.add(Node{Kind: KindOptional, Sub: []NodeID{body}})
}

// Repeat adds a delimited list of elem.
func (a *Arena) Repeat(elem, delim NodeID) NodeID {
	return a.add(Node{Kind: KindRepeat, Sub: []NodeID{elem, delim}})
}

// Scope makes self references inside body capture into slot.
func (a *Arena) Scope(slot capture.Slot, body NodeID) NodeID {
	return a.add(Node{Kind: KindScope, Slot: slot, Sub: []NodeID{body}})
}

// LiteralText returns the exact text matched by id when the tree holds
// only literals, tags and sequences of them.
func (a *Arena) LiteralText(id NodeID) (string, bool) {
	n := a.nodes[id]

	switch n.Kind {
	case KindLiteral, KindTag:
		return n.Text, true
	case KindConcat:
		var out string

		for _, sub := range n.Sub {
			s, ok := a.LiteralText(sub)
			if !ok {
				return "", false
			}

			out += s
		}

		return out, true
	case KindScope:
		return a.LiteralText(n.Sub[0])
	case KindRaw:
		return literalOf(n.Re)
	default:
		return "", false
	}
}

// Slots returns the slots captured under id in emission order.
func (a *Arena) Slots(id NodeID) []capture.Slot {
	var out []capture.Slot

	seen := map[capture.Slot]bool{}
	a.walkSlots(id, capture.Self, false, seen, &out)

	return out
}

func (a *Arena) walkSlots(id NodeID, self capture.Slot, inScope bool, seen map[capture.Slot]bool, out *[]capture.Slot) {
	n := a.nodes[id]

	add := func(s capture.Slot) {
		if s == capture.Self && inScope {
			s = self
		}

		if !seen[s] {
			seen[s] = true
			*out = append(*out, s)
		}
	}

	switch n.Kind {
	case KindCapture:
		add(n.Slot)
	case KindScope:
		for _, sub := range n.Sub {
			a.walkSlots(sub, n.Slot, true, seen, out)
		}

		return
	case KindRaw:
		for _, name := range captureNames(n.Re, nil) {
			if s, ok := capture.ParseName(name); ok {
				add(s)
			}
		}
	default:
	}

	for _, sub := range n.Sub {
		a.walkSlots(sub, self, inScope, seen, out)
	}
}

func literalOf(re *syntax.Regexp) (string, bool) {
	switch re.Op {
	case syntax.OpLiteral:
		if re.Flags&syntax.FoldCase != 0 {
			return "", false
		}

		return string(re.Rune), true
	case syntax.OpEmptyMatch:
		return "", true
	case syntax.OpConcat:
		var out string

		for _, sub := range re.Sub {
			s, ok := literalOf(sub)
			if !ok {
				return "", false
			}

			out += s
		}

		return out, true
	default:
		return "", false
	}
}

// captureNames lists group names in left-to-right order. Rewritten trees do
// not carry valid capture indexes, so syntax.Regexp.CapNames cannot be used.
func captureNames(re *syntax.Regexp, out []string) []string {
	if re.Op == syntax.OpCapture && re.Name != "" {
		out = append(out, re.Name)
	}

	for _, sub := range re.Sub {
		out = captureNames(sub, out)
	}

	return out
}
