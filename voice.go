package seqplayer

// voice is the per-mixer-channel sounding note. It owns sample
// playback state, envelopes and the synth VM contexts.
type voice struct {
	idx        int
	host       int // owning host channel, -1 = free
	allocated  bool
	background bool

	instrument *Instrument
	sample     *Sample
	synth      *SynthProgram

	note     int16
	finetune int8

	frequency uint32 // base frequency, owned by slides and portamento
	freqFrac  uint16 // 256x sub-slide accumulator

	volume      uint8
	subVolume   uint8
	instrVolume uint8

	panning  uint8
	subPan   uint8
	surround bool

	pitchPanSep    int16
	pitchPanCenter uint8

	fadeOut      uint16
	fadeOutCount int32
	fading       bool

	hold      uint16
	holdCount uint16
	decay     uint16

	keyoff bool

	finalVolume  uint8
	finalPanning uint8

	// Envelope runtime state.
	volEnv     playerEnvelope
	panEnv     playerEnvelope
	slideEnv   playerEnvelope
	vibEnv     playerEnvelope
	tremEnv    playerEnvelope
	pannoloEnv playerEnvelope

	// Auto modulation with sweep ramp-in.
	autoVibCount  uint16
	autoVibPos    uint16
	autoTremCount uint16
	autoTremPos   uint16
	autoPanCount  uint16
	autoPanPos    uint16

	// Modulation deltas recomputed every tick.
	vibratoDelta int32
	tremoloDelta int32
	pannoloDelta int32
	synthFreqDelta int32
	synthVolDelta  int32
	synthPanDelta  int32

	// Synth VM state, shared across the four contexts.
	vm synthState

	snap     ChannelSnapshot
	lastSnap ChannelSnapshot
	pushed   bool
}

// readNote resolves the row's note and instrument for a host channel
// and stages the voice trigger, honouring the sentinels, note delay
// and tone portamento.
func (p *Player) readNote(hc *hostChannel, row *Row) {
	hc.rowInstr = row.Instrument

	switch {
	case row.Note == NoteNone && row.Instrument == 0:
		return
	case row.Note == NoteKill || row.Note == NoteOff:
		if v := p.foregroundVoice(hc); v != nil {
			p.cutVoice(v)
		}
		return
	case row.Note == NoteKeyoff:
		if v := p.foregroundVoice(hc); v != nil {
			p.keyoffVoice(v)
		}
		return
	case row.Note == NoteFade:
		if v := p.foregroundVoice(hc); v != nil {
			p.fadeVoice(v)
		}
		return
	case row.Note == NoteHoldDelay:
		// Hold delay repeats: tagged unimplemented, state untouched.
		return
	case row.Note < 0:
		return
	}

	// A bare instrument retriggers volume only, the teacher's MOD
	// semantics generalized: reset volume from the sample without
	// restarting playback.
	if row.Note == NoteNone {
		p.retriggerInstrument(hc, row.Instrument)
		return
	}

	note := int16(row.Octave)*12 + int16(row.Note) - 1
	note += int16(hc.transpose)
	if hc.track != nil {
		note += int16(hc.track.Transpose)
	}
	if e := p.orderEntry(hc); e != nil {
		note += int16(e.Transpose)
	}
	hc.rowNote = note

	if hc.flags&chfTonePorta != 0 {
		// Tone portamento: compute and store the target frequency,
		// never retrigger.
		p.setTonePortaTarget(hc, note, row.Instrument)
		return
	}
	if hc.flags&chfNoteDelay != 0 {
		hc.delayedRow = row
		return
	}
	p.triggerNote(hc, note, row.Instrument)
}

// orderEntry returns the host's current order entry or nil.
func (p *Player) orderEntry(hc *hostChannel) *OrderEntry {
	ol := hc.orderList()
	if hc.order < 0 || hc.order >= len(ol.Entries) {
		return nil
	}
	return ol.Entries[hc.order]
}

// instrumentFor resolves a 1-based instrument number. Out of range
// numbers are ignored per the error model.
func (p *Player) instrumentFor(num uint16, hc *hostChannel) *Instrument {
	if num == 0 || int(num) > len(p.Module.Instruments) {
		if num != 0 {
			p.logf("channel %d: instrument %d out of range", hc.idx, num)
		}
		return nil
	}
	return p.Module.Instruments[num-1]
}

// foregroundVoice returns the host's currently owned voice or nil.
func (p *Player) foregroundVoice(hc *hostChannel) *voice {
	if hc.voice < 0 || hc.voice >= len(p.voices) {
		return nil
	}
	v := &p.voices[hc.voice]
	if !v.allocated || v.host != hc.idx || v.background {
		return nil
	}
	return v
}

// retriggerInstrument handles an instrument number without a note.
func (p *Player) retriggerInstrument(hc *hostChannel, num uint16) {
	in := p.instrumentFor(num, hc)
	v := p.foregroundVoice(hc)
	if in == nil || v == nil || v.sample == nil {
		return
	}
	v.volume = v.sample.Volume
	v.subVolume = v.sample.SubVolume
	v.instrVolume = in.GlobalVolume
}

// setTonePortaTarget computes and stores the tone portamento target
// frequency for the row's note.
func (p *Player) setTonePortaTarget(hc *hostChannel, note int16, num uint16) {
	v := p.foregroundVoice(hc)
	if v == nil {
		// Nothing sliding: fall back to a plain trigger.
		p.triggerNote(hc, note, num)
		return
	}
	smp := v.sample
	if in := p.instrumentFor(num, hc); in != nil {
		if s := in.SampleForNote(uint8(clampNote(note))); s != nil {
			smp = s
		}
		v.instrVolume = in.GlobalVolume
		v.volume = smp.Volume
		v.subVolume = smp.SubVolume
	}
	if smp == nil {
		return
	}
	n := note + int16(smp.Transpose)
	hc.tonePortaTarget = noteFrequency(n, smp.Finetune+hc.finetune, smp.Rate)
}

// triggerNote spawns (or reuses) a voice for a note per the NNA, DCT
// and DNA policies, then initializes it from the instrument/sample.
func (p *Player) triggerNote(hc *hostChannel, note int16, num uint16) {
	in := p.instrumentFor(num, hc)
	if in == nil {
		// A note with no instrument replays the current one.
		if v := p.foregroundVoice(hc); v != nil {
			in = v.instrument
		}
	}
	if in == nil {
		return
	}
	smp := in.SampleForNote(uint8(clampNote(note)))
	if smp == nil {
		return
	}

	v := p.allocateVoice(hc, in, smp, note)
	if v == nil {
		return
	}
	p.initVoice(hc, v, in, smp, note)
}

func clampNote(n int16) int16 {
	if n < 0 {
		return 0
	}
	if n > 127 {
		return 127
	}
	return n
}

// allocateVoice implements the §4.5 policy: reuse an unallocated
// foreground voice, otherwise apply NNA to the old voice, run the
// duplicate checks, then pick a target voice deterministically.
func (p *Player) allocateVoice(hc *hostChannel, in *Instrument, smp *Sample, note int16) *voice {
	old := p.foregroundVoice(hc)
	if old != nil {
		nna := hc.nna
		switch nna {
		case NNACut:
			p.cutVoice(old)
		default:
			old.background = true
			if old.synth != nil && old.synth.UseNNAFlags != 0 {
				loadSynthEntries(&old.vm, old.synth.NNAEntry, old.synth.UseNNAFlags)
			}
			switch nna {
			case NNAKeyoff:
				p.keyoffVoice(old)
			case NNAFade:
				p.fadeVoice(old)
			case NNAContinue:
				// Keep sounding untouched.
			}
		}
	}

	p.duplicateCheck(hc, in, smp, note)

	// Target choice: first voice with neither the allocated flag nor
	// an active mixer play flag, else the quietest background voice
	// under the threshold.
	for i := range p.voices {
		v := &p.voices[i]
		if !v.allocated && v.snap.Flags&SnapPlay == 0 {
			hc.voice = i
			return v
		}
	}
	best := -1
	bestVol := uint16(256)
	for i := range p.voices {
		v := &p.voices[i]
		if v.background && uint16(v.finalVolume) < bestVol {
			best = i
			bestVol = uint16(v.finalVolume)
		}
	}
	if best < 0 {
		return nil
	}
	v := &p.voices[best]
	p.cutVoice(v)
	hc.voice = best
	return v
}

// duplicateCheck walks the voices of this host and applies the DNA to
// any that match the duplicate-check type bitmask. The low nibble is
// OR-combined, the high nibble AND-combined.
func (p *Player) duplicateCheck(hc *hostChannel, in *Instrument, smp *Sample, note int16) {
	dct := hc.dct
	if dct == 0 {
		return
	}
	orMask := dct & 0x0F
	andMask := dct >> 4

	for i := range p.voices {
		v := &p.voices[i]
		if !v.allocated || v.host != hc.idx {
			continue
		}
		m := uint8(0)
		if v.instrument == in && v.note == note {
			m |= DCTInstrNote
		}
		if v.sample == smp && v.note == note {
			m |= DCTSampleNote
		}
		if v.instrument == in {
			m |= DCTInstr
		}
		if v.sample == smp {
			m |= DCTSample
		}
		match := orMask&m != 0
		if andMask != 0 {
			match = match || andMask&m == andMask
		}
		if !match {
			continue
		}
		if v.synth != nil && v.synth.UseDNAFlags != 0 {
			loadSynthEntries(&v.vm, v.synth.DNAEntry, v.synth.UseDNAFlags)
		}
		switch hc.dna {
		case DNACut:
			p.cutVoice(v)
		case DNAKeyoff:
			p.keyoffVoice(v)
		case DNAFade:
			p.fadeVoice(v)
		}
	}
}

// initVoice loads a voice with a fresh note.
func (p *Player) initVoice(hc *hostChannel, v *voice, in *Instrument, smp *Sample, note int16) {
	keepVM := v.synth != nil && v.synth == smp.Synth

	v.host = hc.idx
	v.allocated = true
	v.background = false
	v.instrument = in
	v.sample = smp
	v.synth = smp.Synth
	v.keyoff = false
	v.fading = false
	v.fadeOut = in.FadeOut
	v.fadeOutCount = 65535
	v.hold = in.Hold
	v.holdCount = in.Hold
	v.decay = in.Decay

	n := note + int16(smp.Transpose)
	v.note = note
	v.finetune = smp.Finetune + hc.finetune
	freq := noteFrequency(n, v.finetune, smp.Rate)
	if in.PitchSwing != 0 {
		sw := p.randSwing(in.PitchSwing)
		f := int64(freq) + int64(sw)*int64(freq)/65536
		if f < 1 {
			f = 1
		}
		freq = uint32(f)
	}
	v.frequency = freq
	v.freqFrac = 0

	v.instrVolume = in.GlobalVolume
	v.volume = smp.Volume
	v.subVolume = smp.SubVolume
	if in.VolumeSwing != 0 {
		vol := int32(v.volume) + p.randSwing(in.VolumeSwing)
		v.volume = uint8(clamp32(vol, 0, 255))
	}

	if smp.UsePan {
		v.panning = uint8(int(smp.Panning) + 128)
	} else {
		v.panning = hc.panning
	}
	if in.PanningSwing != 0 {
		pan := int32(v.panning) + p.randSwing(in.PanningSwing)
		v.panning = uint8(clamp32(pan, 0, 255))
	}
	v.surround = hc.surround
	v.pitchPanSep = in.PitchPanSeparation
	v.pitchPanCenter = in.PitchPanCenter

	initEnvelope(&v.volEnv, in.VolumeEnv)
	initEnvelope(&v.panEnv, in.PanningEnv)
	initEnvelope(&v.slideEnv, in.SlideEnv)
	initEnvelope(&v.vibEnv, in.VibratoEnv)
	initEnvelope(&v.tremEnv, in.TremoloEnv)
	initEnvelope(&v.pannoloEnv, in.PannoloEnv)

	v.autoVibCount, v.autoVibPos = 0, 0
	v.autoTremCount, v.autoTremPos = 0, 0
	v.autoPanCount, v.autoPanPos = 0, 0
	v.vibratoDelta, v.tremoloDelta, v.pannoloDelta = 0, 0, 0
	v.synthFreqDelta, v.synthVolDelta, v.synthPanDelta = 0, 0, 0

	initSynthState(p, v, keepVM)

	// Fresh mixer view.
	v.snap = ChannelSnapshot{}
	p.loadSampleView(v, smp)
	v.snap.Position = 0
	if hc.sampleOffsetHi != 0 || hc.sampleOffsetLo != 0 {
		off := uint32(hc.sampleOffsetHi)<<16 | uint32(hc.sampleOffsetLo)
		if off < v.snap.Length {
			v.snap.Position = off
		} else if hc.track == nil || hc.track.CompatFlags&TrackCompatSampleOffset == 0 {
			v.snap.Position = v.snap.Length
		}
		hc.sampleOffsetHi, hc.sampleOffsetLo = 0, 0
	}
	v.snap.Flags |= SnapPlay
	if v.synth != nil {
		v.snap.Flags |= SnapSynth
	}
	v.forceFullPush()
}

// loadSampleView fills the snapshot sample fields, substituting the
// built-in silence waveform when the sample has no usable data.
func (p *Player) loadSampleView(v *voice, smp *Sample) {
	if smp == nil || smp.BitsPerSample == 0 || (len(smp.Data8) == 0 && len(smp.Data16) == 0) {
		smp = silenceSample
		v.snap.Flags |= SnapLoop
	}
	v.snap.Data8 = smp.Data8
	v.snap.Data16 = smp.Data16
	v.snap.BitsPerSample = smp.BitsPerSample
	v.snap.Length = smp.Length
	v.snap.RepeatStart = smp.RepeatStart
	v.snap.RepeatLength = smp.RepeatLength
	v.snap.RepeatCount = smp.RepeatCount
	v.snap.Flags &^= SnapLoop | SnapPingPong | SnapBackwards
	if smp.Flags&SampleLoop != 0 && smp.RepeatLength != 0 {
		v.snap.Flags |= SnapLoop
	}
	if smp.Flags&SamplePingPong != 0 {
		v.snap.Flags |= SnapPingPong
	}
	if smp.Flags&SampleBackwards != 0 {
		v.snap.Flags |= SnapBackwards
	}
}

// forceFullPush marks the whole snapshot dirty so the next voiceTick
// performs a complete SetChannel.
func (v *voice) forceFullPush() { v.pushed = false }

// cutVoice silences and frees a voice immediately.
func (p *Player) cutVoice(v *voice) {
	if v.allocated && !v.background && v.host >= 0 && v.host < len(p.hostChannels) {
		if p.hostChannels[v.host].voice == v.idx {
			p.hostChannels[v.host].voice = -1
		}
	}
	wasPlaying := v.snap.Flags&SnapPlay != 0
	v.allocated = false
	v.background = false
	v.host = -1
	v.frequency = 0
	v.finalVolume = 0
	v.snap.Flags &^= SnapPlay
	if wasPlaying {
		p.mixer.SetChannel(v.idx, &v.snap)
		v.lastSnap = v.snap
		v.pushed = true
	}
}

// keyoffVoice sends key-off: envelopes leave their sustain loops and
// the fadeout starts if the volume envelope does not loop on.
func (p *Player) keyoffVoice(v *voice) {
	if v.keyoff {
		return
	}
	v.keyoff = true
	releaseEnvelope(&v.volEnv)
	releaseEnvelope(&v.panEnv)
	releaseEnvelope(&v.slideEnv)
	releaseEnvelope(&v.vibEnv)
	releaseEnvelope(&v.tremEnv)
	releaseEnvelope(&v.pannoloEnv)
	if v.synth != nil && v.synth.UseSustainFlags != 0 {
		loadSynthEntries(&v.vm, v.synth.SustainEntry, v.synth.UseSustainFlags)
	}
	if v.volEnv.env == nil || v.volEnv.repFlags&EnvLoop == 0 {
		p.fadeVoice(v)
	}
}

// fadeVoice starts the note fade.
func (p *Player) fadeVoice(v *voice) {
	v.fading = true
	if v.fadeOut == 0 {
		v.fadeOut = 65535
	}
}

func clamp32(x, lo, hi int32) int32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
