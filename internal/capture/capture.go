package capture

import (
	"errors"
	"fmt"
	"strconv"

	"display-generator/internal/match"
	"display-generator/schema"
)

var (
	// ErrUnknownField is wrapped by *UnknownFieldError.
	ErrUnknownField = errors.New("unknown field")
	// ErrSelfOutsideField is returned when the empty path is requested
	// outside a field occurrence.
	ErrSelfOutsideField = errors.New("empty path outside a field occurrence")
)

// Slot identifies one capturing group. Slots start at 1; slot 0 is the self
// sentinel used by empty paths inside a field occurrence.
type Slot int

// Self is the reserved sentinel slot.
const Self Slot = 0

// SelfName is the group name of the self sentinel.
const SelfName = "v0"

// Name returns the regex group name of the slot.
func (s Slot) Name() string {
	return "v" + strconv.Itoa(int(s))
}

// ParseName returns the slot of a generated group name.
func ParseName(name string) (Slot, bool) {
	if len(name) < 2 || name[0] != 'v' {
		return 0, false
	}

	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 0 || strconv.Itoa(n) != name[1:] {
		return 0, false
	}

	return Slot(n), true
}

// DeepCapture is a slot bound to a sub-path below a top-level field.
type DeepCapture struct {
	// Path is the tail below the field, never empty.
	Path schema.FieldPath
	Slot Slot
}

// Entry is the capture state of one top-level field.
type Entry struct {
	Key   schema.FieldKey
	Field *schema.Field
	// Slot is the top-level slot; valid when HasSlot.
	Slot    Slot
	HasSlot bool
	// Deep lists deep captures in allocation order.
	Deep       []DeepCapture
	UseDefault bool

	deepIndex map[string]Slot
}

// IsCaptured returns true if the field or one of its sub-paths has a slot.
func (e *Entry) IsCaptured() bool {
	return e.HasSlot || len(e.Deep) > 0
}

// Allocator assigns slots to field paths within one compiled unit.
type Allocator struct {
	next    Slot
	entries []*Entry
	byKey   map[schema.FieldKey]*Entry
	paths   map[Slot]schema.FieldPath
}

// New creates an allocator over the fields of one type or variant. When
// defaultAll is set every field is marked as use-default.
func New(fields []schema.Field, defaultAll bool) (*Allocator, error) {
	a := &Allocator{
		next:  1,
		byKey: make(map[schema.FieldKey]*Entry, len(fields)),
		paths: make(map[Slot]schema.FieldPath),
	}

	for i := range fields {
		f := &fields[i]

		key, err := f.Key()
		if err != nil {
			return nil, err
		}

		if _, dup := a.byKey[key]; dup {
			return nil, fmt.Errorf("duplicate field %q", key)
		}

		e := &Entry{Key: key, Field: f, UseDefault: defaultAll || f.Default}
		a.entries = append(a.entries, e)
		a.byKey[key] = e
	}

	return a, nil
}

// Request returns the slot of path, allocating one on first use. The empty
// path is only meaningful inside a field occurrence, see Scope.
func (a *Allocator) Request(path schema.FieldPath) (Slot, error) {
	if path.IsEmpty() {
		return 0, ErrSelfOutsideField
	}

	head, tail := path.Head()

	e, ok := a.byKey[head]
	if !ok {
		return 0, a.unknown(path, head)
	}

	if tail.IsEmpty() {
		if !e.HasSlot {
			e.Slot = a.alloc(path)
			e.HasSlot = true
		}

		return e.Slot, nil
	}

	k := tail.String()
	if s, ok := e.deepIndex[k]; ok {
		return s, nil
	}

	s := a.alloc(path)

	if e.deepIndex == nil {
		e.deepIndex = make(map[string]Slot)
	}

	e.deepIndex[k] = s
	e.Deep = append(e.Deep, DeepCapture{Path: append(schema.FieldPath(nil), tail...), Slot: s})

	return s, nil
}

func (a *Allocator) alloc(path schema.FieldPath) Slot {
	s := a.next
	a.next++
	a.paths[s] = append(schema.FieldPath(nil), path...)

	return s
}

func (a *Allocator) unknown(path schema.FieldPath, head schema.FieldKey) error {
	var names []string

	for _, e := range a.entries {
		names = append(names, e.Key.String())
	}

	return &UnknownFieldError{
		Path:        path,
		Key:         head,
		Suggestions: match.Suggest(head.String(), names, 3),
	}
}

// Lookup returns the entry of the head of path without allocating.
func (a *Allocator) Lookup(path schema.FieldPath) (*Entry, error) {
	if path.IsEmpty() {
		return nil, ErrSelfOutsideField
	}

	head, _ := path.Head()

	e, ok := a.byKey[head]
	if !ok {
		return nil, a.unknown(path, head)
	}

	return e, nil
}

// Entry returns the entry of a top-level field.
func (a *Allocator) Entry(key schema.FieldKey) (*Entry, bool) {
	e, ok := a.byKey[key]
	return e, ok
}

// Entries returns entries in field declaration order.
func (a *Allocator) Entries() []*Entry {
	return a.entries
}

// PathOf returns the full path bound to slot.
func (a *Allocator) PathOf(s Slot) (schema.FieldPath, bool) {
	p, ok := a.paths[s]
	return p, ok
}

// Count returns the number of allocated slots.
func (a *Allocator) Count() int {
	return int(a.next) - 1
}

// Scope returns a request scope for occurrences of the field at prefix.
func (a *Allocator) Scope(prefix schema.FieldPath) *Scope {
	return &Scope{alloc: a, prefix: prefix}
}

// Scope resolves paths relative to a field occurrence. The empty path is the
// field itself and maps to the self sentinel.
type Scope struct {
	alloc  *Allocator
	prefix schema.FieldPath
}

// Prefix returns the field path the scope is bound to.
func (s *Scope) Prefix() schema.FieldPath {
	return s.prefix
}

// Request resolves path relative to the scope.
func (s *Scope) Request(path schema.FieldPath) (Slot, error) {
	if path.IsEmpty() {
		return Self, nil
	}

	return s.alloc.Request(s.prefix.Join(path))
}

// UnknownFieldError reports a path whose head is not a field of the type.
type UnknownFieldError struct {
	Path        schema.FieldPath
	Key         schema.FieldKey
	Suggestions []string
}

func (e *UnknownFieldError) Error() string {
	msg := fmt.Sprintf("unknown field %q", e.Key.String())
	if len(e.Path) > 1 {
		msg += fmt.Sprintf(" in path %q", e.Path.String())
	}

	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %q?)", e.Suggestions[0])
	}

	return msg
}

// Unwrap returns ErrUnknownField.
func (e *UnknownFieldError) Unwrap() error {
	return ErrUnknownField
}
