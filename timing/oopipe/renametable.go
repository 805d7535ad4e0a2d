package oopipe

// RenameTable maps a logical register index to the ROB slot index that will
// produce its next value, or NoRename if the register is architectural
// (i.e. no in-flight instruction currently owns it).
type RenameTable struct {
	slots [NumLogicalRegs]int
}

// NewRenameTable returns a table with every logical register mapped to
// NoRename (committed/architectural).
func NewRenameTable() *RenameTable {
	rt := &RenameTable{}
	for i := range rt.slots {
		rt.slots[i] = NoRename
	}
	return rt
}

// Lookup returns the current rename for a logical register.
func (rt *RenameTable) Lookup(reg int) int {
	return rt.slots[reg]
}

// Set overwrites the rename for a logical register, used at rename time
// when an instruction claims a destination register.
func (rt *RenameTable) Set(reg, tag int) {
	rt.slots[reg] = tag
}

// ClearIfMatches invalidates the rename entry for reg only if it still
// points at tag. A later rename of the same logical register must not be
// clobbered by an earlier instruction retiring after it (spec.md §9, Open
// Question 2).
func (rt *RenameTable) ClearIfMatches(reg, tag int) {
	if rt.slots[reg] == tag {
		rt.slots[reg] = NoRename
	}
}
