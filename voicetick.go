package seqplayer

// voiceTick runs phase 5 for one voice: envelopes, fadeout, hold and
// decay, auto modulation, the synth VM, frequency clamping, final
// volume and panning, and the mixer push.
func (p *Player) voiceTick(v *voice) {
	if !v.allocated {
		return
	}
	if v.snap.Flags&SnapPlay == 0 && v.background {
		// The mixer retired a background voice.
		p.cutVoice(v)
		return
	}

	// Hold expiry triggers the automatic key-off, decay the fade.
	if v.hold != 0 && !v.keyoff {
		if v.holdCount > 0 {
			v.holdCount--
		}
		if v.holdCount == 0 {
			p.keyoffVoice(v)
			if v.decay != 0 {
				v.fadeOut = v.decay
				v.fading = true
			}
		}
	}

	// Envelopes.
	envVol := int32(32767)
	if v.volEnv.env != nil {
		ev := int32(p.stepEnvelope(&v.volEnv, v.keyoff))
		if ev < 0 {
			ev = 0
		}
		envVol = ev
		if v.volEnv.flags&epTerminal != 0 && ev == 0 {
			p.cutVoice(v)
			return
		}
	}
	envPan := int32(0)
	if v.panEnv.env != nil {
		envPan = int32(p.stepEnvelope(&v.panEnv, v.keyoff)) >> 7
	}
	if v.slideEnv.env != nil {
		sl := int32(p.stepEnvelope(&v.slideEnv, v.keyoff))
		if sl > 0 {
			v.frequency = p.slideUp(p.voiceHost(v), v.frequency, uint32(sl))
		} else if sl < 0 {
			v.frequency = p.slideDown(p.voiceHost(v), v.frequency, uint32(-sl))
		}
	}

	// Fadeout.
	if v.fading {
		v.fadeOutCount -= int32(v.fadeOut)
		if v.fadeOutCount <= 0 {
			p.cutVoice(v)
			return
		}
	}

	// Auto vibrato / tremolo / pannolo with sweep ramp-in, plus the
	// envelope-driven variants sharing the same accumulators.
	p.autoModulate(v)

	// Channel modulation computed by the effects in phase 4 applies
	// to the foreground voice only.
	fgHost := p.voiceHost(v)
	if fgHost != nil && (v.background || fgHost.voice != v.idx) {
		fgHost = nil
	}
	if fgHost != nil {
		v.vibratoDelta += int32(fgHost.vibratoFreq)
		v.tremoloDelta += fgHost.tremolo.value >> 14
		v.pannoloDelta += fgHost.pannolo.value >> 14
	}

	// Synth VM: volume, panning, slide, special, in that order. A
	// dead context cuts the voice immediately.
	if v.synth != nil {
		for ctx := 0; ctx < 4; ctx++ {
			if executeSynth(p, v, ctx) == synthDead {
				p.cutVoice(v)
				return
			}
		}
		applySynthModulation(v)
	}

	// Output frequency: base plus modulation deltas, clamped to the
	// sample limits. A zero clamp result cuts the voice.
	freq := int64(v.frequency) + int64(v.vibratoDelta) + int64(v.synthFreqDelta)
	if p.relativePitch != 0x10000 {
		freq = freq * int64(p.relativePitch) >> 16
	}
	if freq < 0 {
		freq = 0
	}
	if smp := v.sample; smp != nil {
		if smp.RateMin != 0 && freq < int64(smp.RateMin) {
			freq = int64(smp.RateMin)
		}
		if smp.RateMax != 0 && freq > int64(smp.RateMax) {
			freq = int64(smp.RateMax)
		}
	}
	if freq <= 0 || v.frequency == 0 {
		p.cutVoice(v)
		return
	}
	if freq > 0xFFFFFFFF {
		freq = 0xFFFFFFFF
	}
	v.snap.Rate = uint32(freq)

	// Final volume: host x track x instrument x envelope x global x
	// fadeout, folded stepwise to stay in 32 bits.
	hc := p.voiceHost(v)
	trackVol := int32(255)
	if hc != nil {
		trackVol = int32(hc.trackVolume) + hc.trackTremolo.value>>14
		trackVol = clamp32(trackVol, 0, 255)
	}
	gvol := clamp32(int32(p.globalVolume)+p.globalTremolo.value>>14, 0, 255)
	vol := int64(v.volume) + int64(v.tremoloDelta) + int64(v.synthVolDelta)
	volC := uint32(clamp32(int32(vol), 0, 255))
	if fgHost != nil && fgHost.flags&chfTremorMute != 0 {
		volC = 0
	}
	fv := volC * uint32(v.instrVolume) / 255
	fv = fv * uint32(trackVol) / 255
	fv = fv * uint32(envVol) / 32767
	fv = fv * uint32(gvol) / 255
	fv = fv * uint32(clamp32(v.fadeOutCount, 0, 65535)) / 65535
	if fv > 255 {
		fv = 255
	}
	v.finalVolume = uint8(fv)
	v.snap.Volume = v.finalVolume

	// Final panning with pitch-pan separation, the track and global
	// panning offsets, and surround.
	pan := int32(v.panning) + envPan + v.pannoloDelta + v.synthPanDelta
	if hc != nil {
		pan += int32(hc.trackPanning) - 128 + hc.trackPannolo.value>>14
	}
	pan += int32(p.globalPanning) - 128 + p.globalPannolo.value>>14
	if v.pitchPanSep != 0 {
		pan += int32(v.pitchPanSep) * (int32(v.note) - int32(v.pitchPanCenter)) / 8
	}
	v.finalPanning = uint8(clamp32(pan, 0, 255))
	v.snap.Panning = v.finalPanning
	if v.surround || p.globalSurround {
		v.snap.Flags |= SnapSurround
	} else {
		v.snap.Flags &^= SnapSurround
	}

	p.pushVoice(v)
}

// voiceHost resolves the host channel a voice belongs to. Background
// voices keep their back-reference for track volume and slide mode.
func (p *Player) voiceHost(v *voice) *hostChannel {
	if v.host < 0 || v.host >= len(p.hostChannels) {
		return nil
	}
	return &p.hostChannels[v.host]
}

// autoModulate advances the sample auto-vibrato, auto-tremolo and
// auto-pannolo with their sweep ramps.
func (p *Player) autoModulate(v *voice) {
	smp := v.sample
	if smp == nil {
		return
	}
	v.vibratoDelta = 0
	if smp.VibratoDepth != 0 {
		depth := int32(smp.VibratoDepth)
		if smp.VibratoSweep != 0 && v.autoVibCount < smp.VibratoSweep {
			v.autoVibCount++
			depth = depth * int32(v.autoVibCount) / int32(smp.VibratoSweep)
		}
		v.autoVibPos += uint16(smp.VibratoRate)
		s := int32(sineLUT[v.autoVibPos%360])
		// Scale the sine into a linear slide amount and apply it as
		// a frequency delta around the base.
		amt := s * depth >> 7
		if amt >= 0 {
			v.vibratoDelta = int32(linearSlideUp(v.frequency, uint32(amt))) - int32(v.frequency)
		} else {
			v.vibratoDelta = int32(linearSlideDown(v.frequency, uint32(-amt))) - int32(v.frequency)
		}
	}

	v.tremoloDelta = 0
	if smp.TremoloDepth != 0 {
		depth := int32(smp.TremoloDepth)
		if smp.TremoloSweep != 0 && v.autoTremCount < smp.TremoloSweep {
			v.autoTremCount++
			depth = depth * int32(v.autoTremCount) / int32(smp.TremoloSweep)
		}
		v.autoTremPos += uint16(smp.TremoloRate)
		s := int32(sineLUT[v.autoTremPos%360])
		v.tremoloDelta = s * depth >> 15
	}

	v.pannoloDelta = 0
	if smp.PannoloDepth != 0 {
		depth := int32(smp.PannoloDepth)
		if smp.PannoloSweep != 0 && v.autoPanCount < smp.PannoloSweep {
			v.autoPanCount++
			depth = depth * int32(v.autoPanCount) / int32(smp.PannoloSweep)
		}
		v.autoPanPos += uint16(smp.PannoloRate)
		s := int32(sineLUT[v.autoPanPos%360])
		v.pannoloDelta = s * depth >> 15
	}

	// Envelope-driven vibrato/tremolo/pannolo stack on top.
	if v.vibEnv.env != nil {
		ev := int32(p.stepEnvelope(&v.vibEnv, v.keyoff))
		amt := ev >> 4
		if amt >= 0 {
			v.vibratoDelta += int32(linearSlideUp(v.frequency, uint32(amt))) - int32(v.frequency)
		} else {
			v.vibratoDelta += int32(linearSlideDown(v.frequency, uint32(-amt))) - int32(v.frequency)
		}
	}
	if v.tremEnv.env != nil {
		v.tremoloDelta += int32(p.stepEnvelope(&v.tremEnv, v.keyoff)) >> 7
	}
	if v.pannoloEnv.env != nil {
		v.pannoloDelta += int32(p.stepEnvelope(&v.pannoloEnv, v.keyoff)) >> 7
	}
}

// pushVoice forwards changed snapshot state to the mixer, choosing
// the narrowest call that covers the change.
func (p *Player) pushVoice(v *voice) {
	if !v.pushed {
		p.mixer.SetChannel(v.idx, &v.snap)
		v.lastSnap = v.snap
		v.pushed = true
		return
	}
	ls := &v.lastSnap
	sampleChanged := !sameSlice8(ls.Data8, v.snap.Data8) || !sameSlice16(ls.Data16, v.snap.Data16) ||
		ls.BitsPerSample != v.snap.BitsPerSample || ls.Length != v.snap.Length
	geomChanged := ls.Position != v.snap.Position || ls.RepeatStart != v.snap.RepeatStart ||
		ls.RepeatLength != v.snap.RepeatLength || ls.RepeatCount != v.snap.RepeatCount ||
		ls.Flags != v.snap.Flags
	vppChanged := ls.Volume != v.snap.Volume || ls.Panning != v.snap.Panning || ls.Rate != v.snap.Rate
	filterChanged := ls.FilterCutoff != v.snap.FilterCutoff || ls.FilterDamping != v.snap.FilterDamping

	switch {
	case sampleChanged:
		p.mixer.SetChannel(v.idx, &v.snap)
	case geomChanged && vppChanged:
		p.mixer.SetChannel(v.idx, &v.snap)
	case geomChanged:
		p.mixer.SetChannelPositionRepeatFlags(v.idx, &v.snap)
	case vppChanged:
		p.mixer.SetChannelVolumePanningPitch(v.idx, &v.snap)
	}
	if filterChanged {
		p.mixer.SetChannelFilter(v.idx, &v.snap)
	}
	if sampleChanged || geomChanged || vppChanged || filterChanged {
		v.lastSnap = v.snap
	}
}

func sameSlice8(a, b []int8) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}

func sameSlice16(a, b []int16) bool {
	return len(a) == len(b) && (len(a) == 0 || &a[0] == &b[0])
}
