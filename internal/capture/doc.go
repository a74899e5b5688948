// Package capture allocates capture slots for field paths.
//
// Each syntactically distinct path requested within one compiled unit gets a
// unique slot, allocated sequentially from 1; repeated requests return the
// same slot. A path "a.b.c" is recorded on the entry of its head field "a" as
// a deep capture of the tail "b.c". Slot 0 is the self sentinel: inside a
// field occurrence the empty path refers to the field itself.
//
// Slots are exposed to the regex engine as group names "v<slot>". Those are
// the only named groups of a synthesized pattern, so user-supplied group
// names can never collide with them.
package capture
