package bounds

import (
	"slices"
	"strings"

	"display-generator/schema"
)

// Capability is a set of required capabilities.
type Capability uint8

const (
	Render Capability = 1 << iota
	Parse

	None Capability = 0
)

func (c Capability) String() string {
	var parts []string

	if c&Render != 0 {
		parts = append(parts, "render")
	}

	if c&Parse != 0 {
		parts = append(parts, "parse")
	}

	if len(parts) == 0 {
		return "none"
	}

	return strings.Join(parts, " + ")
}

// Predicate is a requirement on a type the propagator cannot see through,
// such as an instantiated generic type outside the schema.
type Predicate struct {
	Type schema.TypeRef
	Caps Capability
	// Path is set when the requirement is on a sub-path of Type.
	Path string
}

func (p Predicate) String() string {
	subject := p.Type.String()
	if p.Path != "" {
		subject += "." + p.Path
	}

	return subject + ": " + p.Caps.String()
}

// Set accumulates bounds for one scope.
type Set struct {
	params     map[string]Capability
	predicates []Predicate
	explicit   []string
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{params: map[string]Capability{}}
}

// Add requires caps of a type parameter.
func (s *Set) Add(param string, caps Capability) {
	if caps == None {
		return
	}

	s.params[param] |= caps
}

// AddPredicate records an opaque requirement, merging repeated subjects.
func (s *Set) AddPredicate(p Predicate) {
	if p.Caps == None {
		return
	}

	key := p.Type.String() + "." + p.Path

	for i := range s.predicates {
		q := &s.predicates[i]
		if q.Type.String()+"."+q.Path == key {
			q.Caps |= p.Caps
			return
		}
	}

	s.predicates = append(s.predicates, p)
}

// AddExplicit records caller-supplied bounds.
func (s *Set) AddExplicit(items ...string) {
	for _, it := range items {
		if !slices.Contains(s.explicit, it) {
			s.explicit = append(s.explicit, it)
		}
	}
}

// Merge adds everything in other.
func (s *Set) Merge(other *Set) {
	for p, c := range other.params {
		s.Add(p, c)
	}

	for _, p := range other.predicates {
		s.AddPredicate(p)
	}

	s.AddExplicit(other.explicit...)
}

// Requires returns the capabilities required of param.
func (s *Set) Requires(param string) Capability {
	return s.params[param]
}

// Predicates returns opaque requirements in insertion order.
func (s *Set) Predicates() []Predicate {
	return s.predicates
}

// Explicit returns the explicit bounds in insertion order.
func (s *Set) Explicit() []string {
	return s.explicit
}

// IsEmpty returns true if nothing is required.
func (s *Set) IsEmpty() bool {
	for _, c := range s.params {
		if c != None {
			return false
		}
	}

	return len(s.predicates) == 0 && len(s.explicit) == 0
}

type frame struct {
	set        *Set
	extensible bool
}

// Stack is the scoped accumulator used while walking a type. A popped scope
// is merged into its parent only when the parent is extensible.
type Stack struct {
	frames []frame
}

// NewStack returns a stack holding the root scope.
func NewStack(extensible bool) *Stack {
	return &Stack{frames: []frame{{set: NewSet(), extensible: extensible}}}
}

// Push opens a child scope.
func (s *Stack) Push(extensible bool) {
	s.frames = append(s.frames, frame{set: NewSet(), extensible: extensible})
}

// Top returns the innermost scope.
func (s *Stack) Top() *Set {
	return s.frames[len(s.frames)-1].set
}

// Depth returns the number of open scopes, the root included.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Pop closes the innermost scope and returns it. The root is never popped.
func (s *Stack) Pop() *Set {
	if len(s.frames) == 1 {
		return s.Top()
	}

	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]

	if parent := s.frames[len(s.frames)-1]; parent.extensible {
		parent.set.Merge(top.set)
	}

	return top.set
}
