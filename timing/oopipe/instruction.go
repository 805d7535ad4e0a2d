// Package oopipe implements a cycle-accurate out-of-order superscalar
// pipeline: register renaming onto a reorder buffer, an unordered issue
// queue, and the nine-stage per-instruction cycle bookkeeping used to
// reconstruct per-instruction timing after the run completes.
package oopipe

// NoReg marks a logical register operand as absent ("none").
const NoReg = -1

// NoRename marks a ROB-slot tag as absent (the operand is architectural,
// i.e. already committed, or there is no such operand).
const NoRename = -1

// NumLogicalRegs is the size of the logical register file, per spec: logical
// register indices range over [0, 66].
const NumLogicalRegs = 67

// StagePair is a single (begin, duration) cycle pair for one pipeline stage.
// The sentinel value is (-1, -1), set exactly once when the instruction
// enters the stage and finalized once it leaves.
type StagePair struct {
	Begin    int
	Duration int
}

func newStagePair() StagePair {
	return StagePair{Begin: -1, Duration: -1}
}

// set reports whether this stage pair has been finalized (both fields
// written). The report in cmd/oopipe does not call it: it prints 0 in place
// of each -1 field on its own.
func (s StagePair) set() bool {
	return s.Begin != -1 && s.Duration != -1
}

// Instruction is a single trace record as it travels from fetch to retire.
// It is created once at fetch and lives, via pointer, in exactly one stage
// queue (or the ROB slot it was renamed into) at a time.
type Instruction struct {
	SeqNum int
	PC     uint64
	OpType int

	Dest, Src1, Src2          int
	DestTag, Src1Tag, Src2Tag int
	Src1Ready, Src2Ready      bool

	ExecTimer   int
	ExecLatency int

	FE, DE, RN, RR, DI, IS, EX, WB, RT StagePair
}

func newInstruction(seqNum int, pc uint64, op, dest, src1, src2 int) *Instruction {
	return &Instruction{
		SeqNum:  seqNum,
		PC:      pc,
		OpType:  op,
		Dest:    dest,
		Src1:    src1,
		Src2:    src2,
		DestTag: NoRename,
		Src1Tag: NoRename,
		Src2Tag: NoRename,
		FE:      newStagePair(),
		DE:      newStagePair(),
		RN:      newStagePair(),
		RR:      newStagePair(),
		DI:      newStagePair(),
		IS:      newStagePair(),
		EX:      newStagePair(),
		WB:      newStagePair(),
		RT:      newStagePair(),
	}
}

// execLatency maps op_type to its execute-stage duration in cycles.
func execLatency(opType int) int {
	switch opType {
	case 0:
		return 1
	case 1:
		return 2
	case 2:
		return 5
	default:
		return 1
	}
}
