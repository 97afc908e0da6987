package core

import "sort"

// Pool maps object keys to their indirect object slots. A slot is created
// the first time its key is seen, whether that is at the object's
// definition or at a reference to it, and the same slot is returned for
// every later occurrence.
type Pool struct {
	slots map[ObjectKey]*IndirectObject
}

// NewPool creates an empty pool
func NewPool() *Pool {
	return &Pool{slots: make(map[ObjectKey]*IndirectObject)}
}

// GetOrCreate returns the slot for key, creating an unbound one if needed.
func (p *Pool) GetOrCreate(key ObjectKey) *IndirectObject {
	if slot, ok := p.slots[key]; ok {
		return slot
	}
	slot := &IndirectObject{Key: key}
	p.slots[key] = slot
	return slot
}

// Lookup returns the slot for key without creating it
func (p *Pool) Lookup(key ObjectKey) (*IndirectObject, bool) {
	slot, ok := p.slots[key]
	return slot, ok
}

// Bind stores value in slot, replacing any earlier value.
func (p *Pool) Bind(slot *IndirectObject, value Object) {
	slot.Object = value
}

// Len returns the number of slots, bound or not
func (p *Pool) Len() int {
	return len(p.slots)
}

// Keys returns every key in the pool in ascending (number, generation) order.
func (p *Pool) Keys() []ObjectKey {
	keys := make([]ObjectKey, 0, len(p.slots))
	for k := range p.slots {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Number != keys[j].Number {
			return keys[i].Number < keys[j].Number
		}
		return keys[i].Generation < keys[j].Generation
	})
	return keys
}

// Bound returns the number of slots holding a value
func (p *Pool) Bound() int {
	n := 0
	for _, slot := range p.slots {
		if slot.Bound() {
			n++
		}
	}
	return n
}

// ObjectsByType returns, in key order, the bound slots whose value is a
// dictionary or stream with the given /Type.
func (p *Pool) ObjectsByType(typ string) []*IndirectObject {
	var out []*IndirectObject
	for _, key := range p.Keys() {
		slot := p.slots[key]
		if typeOf(slot.Object) == typ {
			out = append(out, slot)
		}
	}
	return out
}

// typeOf returns the /Type name of a dictionary or stream, or "".
func typeOf(obj Object) string {
	var dict Dict
	switch v := Resolve(obj).(type) {
	case Dict:
		dict = v
	case *Stream:
		dict = v.Dict
	default:
		return ""
	}
	name, _ := dict.GetName("Type")
	return string(name)
}

func (p *Pool) clear() {
	p.slots = make(map[ObjectKey]*IndirectObject)
}
