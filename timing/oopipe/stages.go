package oopipe

import "math"

// fetch reads up to WIDTH records into DE. End-of-trace is sticky: once
// observed, fetch is permanently inactive (spec.md §4.1, Fetch).
func (e *Engine) fetch() {
	if e.traceDone || len(e.de) > 0 {
		return
	}

	for i := 0; i < e.width; i++ {
		rec, ok := e.reader.Next()
		if !ok {
			e.traceDone = true
			break
		}

		inst := newInstruction(e.seqCounter, rec.PC, rec.Op, rec.Dest, rec.Src1, rec.Src2)
		e.seqCounter++

		inst.FE = StagePair{Begin: e.currentCycle, Duration: 1}
		inst.DE.Begin = inst.FE.Begin + inst.FE.Duration

		e.de = append(e.de, inst)
	}
}

// decode drains DE into RN as a whole bundle once RN is empty.
func (e *Engine) decode() {
	if len(e.de) == 0 || len(e.rn) > 0 {
		return
	}

	for _, inst := range e.de {
		inst.DE.Duration = e.currentCycle - inst.DE.Begin + 1
		inst.RN.Begin = inst.DE.Begin + inst.DE.Duration
		e.rn = append(e.rn, inst)
	}
	e.de = nil
}

// rename allocates a ROB slot per instruction, resolves source readiness
// against the rename table, and overwrites the rename table with each
// instruction's own destination tag (spec.md §4.1, Rename).
func (e *Engine) rename() {
	if len(e.rn) == 0 || len(e.rr) > 0 {
		return
	}
	if !e.rob.CanFit(len(e.rn)) {
		return
	}

	for _, inst := range e.rn {
		inst.RN.Duration = e.currentCycle - inst.RN.Begin + 1

		inst.DestTag = e.rob.Allocate(inst)

		if inst.Src1 != NoReg {
			inst.Src1Tag = e.renameTable.Lookup(inst.Src1)
			inst.Src1Ready = inst.Src1Tag == NoRename || e.rob.Ready(inst.Src1Tag)
		} else {
			inst.Src1Tag = NoRename
			inst.Src1Ready = true
		}

		if inst.Src2 != NoReg {
			inst.Src2Tag = e.renameTable.Lookup(inst.Src2)
			inst.Src2Ready = inst.Src2Tag == NoRename || e.rob.Ready(inst.Src2Tag)
		} else {
			inst.Src2Tag = NoRename
			inst.Src2Ready = true
		}

		if inst.Dest != NoReg {
			e.renameTable.Set(inst.Dest, inst.DestTag)
		}

		inst.RR.Begin = inst.RN.Begin + inst.RN.Duration
		e.rr = append(e.rr, inst)
	}
	e.rn = nil
}

// regRead refreshes source readiness against the ROB and drains RR into DI.
func (e *Engine) regRead() {
	if len(e.rr) == 0 || len(e.di) > 0 {
		return
	}

	for _, inst := range e.rr {
		inst.RR.Duration = e.currentCycle - inst.RR.Begin + 1

		if inst.Src1Tag != NoRename {
			inst.Src1Ready = inst.Src1Ready || e.rob.Ready(inst.Src1Tag)
		}
		if inst.Src2Tag != NoRename {
			inst.Src2Ready = inst.Src2Ready || e.rob.Ready(inst.Src2Tag)
		}

		inst.DI.Begin = inst.RR.Begin + inst.RR.Duration
		e.di = append(e.di, inst)
	}
	e.rr = nil
}

// dispatch admits DI's whole bundle into the issue queue, refreshing
// readiness once more, only if the IQ can fit all of it.
func (e *Engine) dispatch() {
	if len(e.di) == 0 {
		return
	}

	availableSlots := e.iqSize - len(e.iq)
	if availableSlots < len(e.di) {
		return
	}

	for _, inst := range e.di {
		inst.DI.Duration = e.currentCycle - inst.DI.Begin + 1

		if inst.Src1Tag != NoRename {
			inst.Src1Ready = inst.Src1Ready || e.rob.Ready(inst.Src1Tag)
		}
		if inst.Src2Tag != NoRename {
			inst.Src2Ready = inst.Src2Ready || e.rob.Ready(inst.Src2Tag)
		}

		inst.IS.Begin = inst.DI.Begin + inst.DI.Duration
		e.iq = append(e.iq, inst)
	}
	e.di = nil
}

// issue selects, up to WIDTH times per cycle, the oldest IQ entry whose
// both operands are ready and moves it to EX (spec.md §4.1, Issue).
func (e *Engine) issue() {
	issued := 0

	for issued < e.width && len(e.iq) > 0 {
		selected := -1
		oldestSeq := math.MaxInt

		for i, inst := range e.iq {
			if inst == nil {
				continue
			}

			op1Ready := inst.Src1Ready
			op2Ready := inst.Src2Ready
			if inst.Src1Tag != NoRename && !op1Ready {
				op1Ready = e.rob.Ready(inst.Src1Tag)
			}
			if inst.Src2Tag != NoRename && !op2Ready {
				op2Ready = e.rob.Ready(inst.Src2Tag)
			}

			if op1Ready && op2Ready && inst.SeqNum < oldestSeq {
				oldestSeq = inst.SeqNum
				selected = i
			}
		}

		if selected == -1 {
			break
		}

		inst := e.iq[selected]
		inst.IS.Duration = e.currentCycle - inst.IS.Begin + 1
		inst.EX.Begin = inst.IS.Begin + inst.IS.Duration
		inst.ExecLatency = execLatency(inst.OpType)
		inst.ExecTimer = inst.ExecLatency
		inst.EX.Duration = inst.ExecLatency

		e.ex = append(e.ex, inst)
		e.iq[selected] = nil
		issued++
	}

	if issued == 0 {
		return
	}

	remaining := e.iq[:0:0]
	for _, inst := range e.iq {
		if inst != nil {
			remaining = append(remaining, inst)
		}
	}
	e.iq = remaining
}

// execute ticks down every in-flight instruction's countdown and, on
// completion, broadcasts the producer's tag to every waiting consumer in
// RR, DI, and IQ — never DE or RN (spec.md §9, Open Question 1).
func (e *Engine) execute() {
	var stillExecuting, completedNow []*Instruction

	for _, inst := range e.ex {
		if inst.EX.Begin > e.currentCycle {
			stillExecuting = append(stillExecuting, inst)
			continue
		}

		inst.ExecTimer--
		if inst.ExecTimer <= 0 {
			completedNow = append(completedNow, inst)
		} else {
			stillExecuting = append(stillExecuting, inst)
		}
	}
	e.ex = stillExecuting

	for _, inst := range completedNow {
		inst.WB.Begin = inst.EX.Begin + inst.EX.Duration
		e.wb = append(e.wb, inst)
		e.broadcastReady(inst.DestTag)
	}
}

func (e *Engine) broadcastReady(tag int) {
	if tag < 0 {
		return
	}

	for _, inst := range e.iq {
		if inst == nil {
			continue
		}
		if inst.Src1Tag == tag {
			inst.Src1Ready = true
		}
		if inst.Src2Tag == tag {
			inst.Src2Ready = true
		}
	}
	for _, inst := range e.di {
		if inst.Src1Tag == tag {
			inst.Src1Ready = true
		}
		if inst.Src2Tag == tag {
			inst.Src2Ready = true
		}
	}
	for _, inst := range e.rr {
		if inst.Src1Tag == tag {
			inst.Src1Ready = true
		}
		if inst.Src2Tag == tag {
			inst.Src2Ready = true
		}
	}
}

// writeback finalizes every completed instruction's WB duration, marks its
// ROB slot ready, and sets rt_begin if this is the first writeback to reach
// it (it can only happen once, but the guard matches the original's
// defensive check).
func (e *Engine) writeback() {
	if len(e.wb) == 0 {
		return
	}

	for _, inst := range e.wb {
		inst.WB.Duration = e.currentCycle - inst.WB.Begin + 1
		e.rob.MarkReady(inst.DestTag)

		if inst.RT.Begin == -1 {
			inst.RT.Begin = inst.WB.Begin + inst.WB.Duration
		}
	}
	e.wb = nil
}

// retire commits up to WIDTH instructions per cycle from the ROB head while
// it is valid and ready (spec.md §4.1, Retire).
func (e *Engine) retire() {
	retired := 0

	for retired < e.width && e.rob.Count() > 0 {
		if !e.rob.HeadValidAndReady() {
			break
		}

		tag := e.rob.HeadTag()
		inst := e.rob.HeadInst()
		inst.RT.Duration = e.currentCycle - inst.RT.Begin + 1

		if inst.Dest != NoReg {
			e.renameTable.ClearIfMatches(inst.Dest, tag)
		}

		e.rob.PopHead()
		e.completed = append(e.completed, inst)
		retired++
	}
}
