package synth

import (
	"regexp"
	"regexp/syntax"
	"strings"

	"display-generator/internal/capture"
)

// AnyPattern is the default field fragment body.
const AnyPattern = `(?s:.*?)`

// Anchor wraps a pattern so it must match the whole input.
func Anchor(body string) string {
	return "^(?:" + body + ")$"
}

// Emit returns the unanchored pattern of the tree rooted at id.
//
// A slot is captured at its first occurrence only; later occurrences of the
// same slot are emitted as non-capturing groups.
func (a *Arena) Emit(id NodeID) string {
	e := &emitter{arena: a, emitted: map[string]bool{}}
	e.emit(id)

	return e.sb.String()
}

// Pattern returns the anchored pattern of the tree rooted at id.
func (a *Arena) Pattern(id NodeID) string {
	return Anchor(a.Emit(id))
}

// MatchesEmpty reports whether the tree rooted at id accepts the empty string.
func (a *Arena) MatchesEmpty(id NodeID) bool {
	re, err := regexp.Compile(a.Pattern(id))
	if err != nil {
		return false
	}

	return re.MatchString("")
}

type emitter struct {
	arena   *Arena
	sb      strings.Builder
	emitted map[string]bool
	self    []capture.Slot
}

func (e *emitter) groupName(slot capture.Slot) string {
	if slot == capture.Self && len(e.self) > 0 {
		return e.self[len(e.self)-1].Name()
	}

	return slot.Name()
}

// claim returns true the first time a group name is emitted.
func (e *emitter) claim(name string) bool {
	if e.emitted[name] {
		return false
	}

	e.emitted[name] = true

	return true
}

func (e *emitter) emit(id NodeID) {
	n := e.arena.nodes[id]

	switch n.Kind {
	case KindLiteral, KindTag:
		e.sb.WriteString(regexp.QuoteMeta(n.Text))
	case KindAny:
		e.sb.WriteString(AnyPattern)
	case KindHint:
		e.sb.WriteString("(?:" + n.Text + ")")
	case KindCapture:
		name := e.groupName(n.Slot)
		if e.claim(name) {
			e.sb.WriteString("(?P<" + name + ">")
		} else {
			e.sb.WriteString("(?:")
		}

		e.emit(n.Sub[0])
		e.sb.WriteByte(')')
	case KindRaw:
		e.sb.WriteString("(?:" + e.renameRaw(n.Re).String() + ")")
	case KindConcat:
		for _, sub := range n.Sub {
			e.emit(sub)
		}
	case KindOptional:
		e.sb.WriteString("(?:")
		e.emit(n.Sub[0])
		e.sb.WriteString("){0,1}?")
	case KindRepeat:
		e.sb.WriteString("(?:")
		e.emit(n.Sub[0])
		e.sb.WriteString("(?:")
		e.emit(n.Sub[1])
		e.emit(n.Sub[0])
		e.sb.WriteString(")*)?")
	case KindScope:
		e.self = append(e.self, n.Slot)
		e.emit(n.Sub[0])
		e.self = e.self[:len(e.self)-1]
	}
}

// renameRaw binds self references to the enclosing scope and drops repeated
// captures, returning a copy of re.
func (e *emitter) renameRaw(re *syntax.Regexp) *syntax.Regexp {
	if re.Op == syntax.OpCapture && re.Name != "" {
		name := re.Name
		if name == capture.SelfName {
			name = e.groupName(capture.Self)
		}

		if !e.claim(name) {
			return e.renameRaw(re.Sub[0])
		}

		return captureNode(name, e.renameRaw(re.Sub[0]))
	}

	if len(re.Sub) == 0 {
		return re
	}

	n := *re
	n.Sub0 = [1]*syntax.Regexp{}
	n.Sub = make([]*syntax.Regexp, len(re.Sub))

	for i, sub := range re.Sub {
		n.Sub[i] = e.renameRaw(sub)
	}

	return &n
}
