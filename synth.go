package seqplayer

// Synth VM contexts, executed in this order every tick.
const (
	synthCtxVolume = iota
	synthCtxPanning
	synthCtxSlide
	synthCtxSpecial
)

// Condition code bits, one word per context.
const (
	ccZ = 1 << iota // zero
	ccN             // negative
	ccV             // overflow
	ccC             // carry
	ccX             // extend (sticky carry)
)

// Execution results of one context run.
const (
	synthOK = iota
	synthDead
)

// maxSynthSteps bounds a single context run so degenerate programs
// cannot stall the tick.
const maxSynthSteps = 256

// synthState is the per-voice VM state shared by the four contexts.
type synthState struct {
	vars [16]uint16
	cc   [4]uint8

	entryPos  [4]uint16
	running   [4]bool
	waitCount [4]uint16
	waitLine  [4]uint16
	waitType  [4]int8 // negative = waiting on context -(waitType+1)
	killCount [4]int32

	stopForbid uint8

	// Waveform-driven modulation cursors and parameters.
	arpWave  uint16
	vibWave  uint16
	tremWave uint16
	panWave  uint16
	arpPos   uint32
	vibPos   uint32
	tremPos  uint32
	panPos   uint32
	arpSpeed  uint8
	vibSpeed  uint8
	tremSpeed uint8
	panSpeed  uint8
	vibDepth  uint8
	tremDepth uint8
	panDepth  uint8

	arpFreq   int32 // frequency adjustments recombined after each op
	vibFreq   int32
	tremVol   int32
	panVal    int32
	portaFreq int32 // portamento accumulator

	curWave uint16 // waveform currently installed by setwave
}

// initSynthState primes the VM for a fresh note. When the new sample
// carries the same program, the keep masks choose what survives.
func initSynthState(p *Player, v *voice, keep bool) {
	sp := v.synth
	if sp == nil {
		v.vm = synthState{}
		return
	}
	old := v.vm
	v.vm = synthState{}
	vm := &v.vm
	for i := range vm.vars {
		if keep && sp.VarKeepMask&(1<<uint(i)) != 0 {
			vm.vars[i] = old.vars[i]
		} else {
			vm.vars[i] = sp.VariableInit[i]
		}
	}
	for c := 0; c < 4; c++ {
		if keep && sp.PosKeepMask&(1<<uint(c)) != 0 {
			vm.entryPos[c] = old.entryPos[c]
		} else {
			vm.entryPos[c] = sp.Entry[c]
		}
		vm.running[c] = true
		vm.killCount[c] = -1
	}
}

// loadSynthEntries installs a sustain/NNA/DNA entry set into the
// contexts selected by the flag byte.
func loadSynthEntries(vm *synthState, entries [4]uint16, flags uint8) {
	for c := 0; c < 4; c++ {
		if flags&(1<<uint(c)) == 0 {
			continue
		}
		vm.entryPos[c] = entries[c]
		vm.running[c] = true
		vm.waitCount[c] = 0
		vm.waitType[c] = 0
	}
}

// executeSynth runs one context for one tick. It returns synthDead
// when the kill countdown expires, which cuts the voice.
func executeSynth(p *Player, v *voice, ctx int) int {
	vm := &v.vm
	sp := v.synth
	if sp == nil {
		return synthOK
	}

	// The kill countdown keeps running even when the context halted.
	if vm.killCount[ctx] > 0 {
		vm.killCount[ctx]--
		if vm.killCount[ctx] == 0 {
			return synthDead
		}
	}
	if !vm.running[ctx] {
		return synthOK
	}

	// A pending wait consumes the tick.
	if vm.waitCount[ctx] > 0 {
		vm.waitCount[ctx]--
		if vm.waitCount[ctx] > 0 {
			return synthOK
		}
	}
	if vm.waitType[ctx] < 0 {
		target := int(-vm.waitType[ctx]) - 1
		if vm.entryPos[target] < vm.waitLine[ctx] {
			return synthOK
		}
		vm.waitType[ctx] = 0
	}

	code := sp.Code
	for steps := 0; steps < maxSynthSteps; steps++ {
		pos := vm.entryPos[ctx]
		if int(pos) >= len(code) {
			vm.running[ctx] = false
			return synthOK
		}
		instr := code[pos]
		vm.entryPos[ctx] = pos + 1

		if instr.Opcode < 0 {
			// Negative opcodes dispatch through the effect table.
			p.synthEffect(v, byte(^instr.Opcode)&0x7F, instr.Data)
			continue
		}
		fn := synthOps[instr.Opcode]
		if fn == nil {
			continue
		}
		r := fn(p, v, ctx, instr.SrcDst, instr.Data)
		switch r {
		case synthYield:
			return synthOK
		case synthKilled:
			return synthDead
		}
		// A jump back onto the same line is an intentional idle
		// loop; give the tick back.
		if vm.entryPos[ctx] == pos {
			return synthOK
		}
	}
	return synthOK
}

// synthEffect invokes a track effect from the VM against the owning
// host channel. The guard keeps effects that re-enter the VM from
// recursing.
func (p *Player) synthEffect(v *voice, cmd byte, data uint16) {
	if p.execFxDepth >= 4 {
		return
	}
	hc := p.voiceHost(v)
	if hc == nil {
		return
	}
	desc := &effectsTable[cmd]
	if desc.fn == nil {
		return
	}
	p.execFxDepth++
	desc.fn(p, hc, cmd, data)
	p.execFxDepth--
}

// applySynthModulation folds the VM modulation results into the
// voice deltas read by the final volume/panning/frequency pass.
func applySynthModulation(v *voice) {
	vm := &v.vm
	v.synthFreqDelta = vm.arpFreq + vm.vibFreq + vm.portaFreq
	v.synthVolDelta = vm.tremVol
	v.synthPanDelta = vm.panVal
}

// waveformAt returns a synth waveform by number, nil when out of
// range.
func (v *voice) waveformAt(num uint16) *SynthWaveform {
	if v.synth == nil || int(num) >= len(v.synth.Waveforms) {
		return nil
	}
	return v.synth.Waveforms[num]
}

// waveSample reads a waveform modulation sample with loop wrap.
func waveSample(w *SynthWaveform, pos uint32) int16 {
	if w == nil || len(w.Data) == 0 {
		return 0
	}
	return w.Data[pos%uint32(len(w.Data))]
}
