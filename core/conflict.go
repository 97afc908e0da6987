package core

// PendingConflict is a definition of an object whose pool slot was already
// bound when it was parsed. Which definition wins can only be decided once
// the cross-reference table is complete.
type PendingConflict struct {
	Offset int64 // offset of the "N G obj" header
	Key    ObjectKey
	Object Object
}

// ResolveConflicts applies the pending definitions that the xref table
// confirms: a definition replaces the slot's value when some xref entry
// points at its offset. The others are discarded. Replacing the value in
// place keeps every reference to the slot pointing at the new value.
func ResolveConflicts(pool *Pool, xref *XRefTable, conflicts []PendingConflict) (applied, discarded int) {
	for _, c := range conflicts {
		if !xref.ContainsOffset(c.Offset) {
			discarded++
			continue
		}
		pool.Bind(pool.GetOrCreate(c.Key), c.Object)
		applied++
	}
	return applied, discarded
}
