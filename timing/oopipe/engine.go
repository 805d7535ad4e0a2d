package oopipe

// Engine is the cycle-accurate OoO-Pipe core: nine pipeline stages, a
// reorder buffer, a rename table, and an issue queue, advanced one cycle at
// a time by Run. Engine is not safe for concurrent use — spec.md §5
// specifies a single-threaded, deterministic per-cycle ordering.
type Engine struct {
	reader *TraceReader

	robSize int
	iqSize  int
	width   int

	rob         *ReorderBuffer
	renameTable *RenameTable

	de []*Instruction
	rn []*Instruction
	rr []*Instruction
	di []*Instruction
	iq []*Instruction
	ex []*Instruction
	wb []*Instruction

	completed []*Instruction

	seqCounter   int
	currentCycle int
	traceDone    bool
}

// NewEngine constructs an Engine with the given ROB size, issue-queue size,
// and per-cycle fetch/issue/retire width, reading records from reader.
func NewEngine(robSize, iqSize, width int, reader *TraceReader) *Engine {
	return &Engine{
		reader:      reader,
		robSize:     robSize,
		iqSize:      iqSize,
		width:       width,
		rob:         NewReorderBuffer(robSize),
		renameTable: NewRenameTable(),
	}
}

// Stats holds the aggregate counters printed in the footer.
type Stats struct {
	Cycles       int
	Instructions int
}

// IPC returns instructions-per-cycle, or 0.00 if no cycles elapsed.
func (s Stats) IPC() float64 {
	if s.Cycles == 0 {
		return 0
	}
	return float64(s.Instructions) / float64(s.Cycles)
}

// Stats returns the current aggregate counters.
func (e *Engine) Stats() Stats {
	return Stats{Cycles: e.currentCycle, Instructions: len(e.completed)}
}

// Completed returns every retired instruction in retire order, which is
// always fetch (seq_num) order — spec.md §8.
func (e *Engine) Completed() []*Instruction {
	return e.completed
}

// Run advances the engine cycle by cycle until the trace is exhausted and
// every stage queue and the ROB are empty (spec.md §4.1, Termination).
func (e *Engine) Run() {
	for {
		e.retire()
		e.writeback()
		e.execute()
		e.issue()
		e.dispatch()
		e.regRead()
		e.rename()
		e.decode()
		e.fetch()

		e.currentCycle++

		if e.done() {
			return
		}
	}
}

func (e *Engine) done() bool {
	return e.traceDone &&
		e.rob.Count() == 0 &&
		len(e.de) == 0 && len(e.rn) == 0 && len(e.rr) == 0 &&
		len(e.di) == 0 && len(e.iq) == 0 && len(e.ex) == 0 && len(e.wb) == 0
}
