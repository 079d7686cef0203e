package tracker

import (
	"sort"

	"github.com/sadopc/habitgrid/internal/calendar"
)

// DayRecord maps a sub-cell index to the category marked there.
type DayRecord map[int]CategoryID

func (d DayRecord) clone() DayRecord {
	out := make(DayRecord, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Slots returns the marked slot indexes in ascending order.
func (d DayRecord) Slots() []int {
	slots := make([]int, 0, len(d))
	for k := range d {
		slots = append(slots, k)
	}
	sort.Ints(slots)
	return slots
}

// Records holds every day record keyed by calendar.DateKey. Day records are
// never mutated in place: each change installs a fresh copy, so snapshots
// taken earlier stay valid.
type Records map[string]DayRecord

func (r Records) Get(key string) DayRecord {
	return r[key]
}

// Toggle marks slot with id, or clears it when id is already there. Any
// other category in the slot is overwritten.
func (r Records) Toggle(key string, slot int, id CategoryID) DayRecord {
	next := r[key].clone()
	if next[slot] == id {
		delete(next, slot)
	} else {
		next[slot] = id
	}
	return r.put(key, next)
}

// Erase clears a slot unconditionally. Erasing an empty slot is a no-op.
func (r Records) Erase(key string, slot int) DayRecord {
	cur := r[key]
	if _, ok := cur[slot]; !ok {
		return cur
	}
	next := cur.clone()
	delete(next, slot)
	return r.put(key, next)
}

// Apply paints slot with brush, treating Eraser as an erase.
func (r Records) Apply(key string, slot int, brush CategoryID) DayRecord {
	if brush == Eraser {
		return r.Erase(key, slot)
	}
	return r.Toggle(key, slot, brush)
}

func (r Records) put(key string, d DayRecord) DayRecord {
	if len(d) == 0 {
		delete(r, key)
		return nil
	}
	r[key] = d
	return d
}

// ClearMonth deletes every record whose key falls inside ym and returns how
// many days were removed.
func (r Records) ClearMonth(ym calendar.YearMonth) int {
	n := 0
	for key := range r {
		if calendar.InMonth(key, ym) {
			delete(r, key)
			n++
		}
	}
	return n
}

// Keys returns the record keys in sorted (chronological) order.
func (r Records) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone copies the map. Day records are shared since they are immutable.
func (r Records) Clone() Records {
	out := make(Records, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
