package seqplayer

// Track flow, instrument/synth control and global effects.

// --- track (0x40 - 0x4D) ------------------------------------------

func efSetTempo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.tempo = data // 0 disables the channel
	if data == 0 {
		hc.flags |= chfSongEnd
	}
}

func efSetRelTempo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	// 8.8 fixed relative speed, 0x0100 = nominal.
	if data == 0 {
		return
	}
	p.relativeSpeed = uint32(data) << 8
	p.announceTempo()
}

func efPatternBreak(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.flags |= chfPatternBreak
	hc.breakRow = data
}

func efPosJump(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.flags |= chfPatternBreak | chfPosJump
	hc.breakOrder = int(data)
	hc.breakRow = 0
}

// efRelPosJump advances the order cursor relative to the current
// position. The source scans with a double increment, so the
// effective forward step is ceil(count/2); kept as is.
func efRelPosJump(p *Player, hc *hostChannel, cmd byte, data uint16) {
	count := int(int16(data))
	ord := hc.order
	if count >= 0 {
		for i := 0; i < count; i++ {
			ord++
			i++
		}
	} else {
		for i := 0; i > count; i-- {
			ord--
			i--
		}
		if ord < 0 {
			ord = 0
		}
	}
	hc.flags |= chfPatternBreak | chfPosJump
	hc.breakOrder = ord
	hc.breakRow = 0
}

func efChangePattern(p *Player, hc *hostChannel, cmd byte, data uint16) {
	if int(data) >= len(p.SubSong.Tracks) {
		return
	}
	hc.flags |= chfChangePattern
	hc.chgTrack = p.SubSong.Tracks[data]
}

func efReversePlay(p *Player, hc *hostChannel, cmd byte, data uint16) {
	switch data {
	case 0:
		hc.flags ^= chfBackwards
	case 1:
		hc.flags |= chfBackwards
	default:
		hc.flags &^= chfBackwards
	}
}

func efPatternDelay(p *Player, hc *hostChannel, cmd byte, data uint16) {
	if hc.patternDelay == 0 {
		hc.patternDelay = data
		hc.patternDelayCount = 0
	}
}

func efFinePattDelay(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.finePatternDelay = data
}

// patternLoopStack selects the per-channel or the shared stack
// depending on the global-loop compat flag.
func (p *Player) patternLoopStack(hc *hostChannel) *[]loopMark {
	if p.SubSong.CompatFlags&CompatGlobalLoop != 0 {
		return &p.globalLoopStack
	}
	return &hc.loopStack
}

func efPatternLoop(p *Player, hc *hostChannel, cmd byte, data uint16) {
	stack := p.patternLoopStack(hc)
	if data == 0 {
		// Push a loop mark; on overflow the newest mark overwrites
		// the oldest slot. Re-marking the row a loop jumped back to
		// keeps the existing counter.
		mark := loopMark{row: uint16(hc.row)}
		if n := len(*stack); n > 0 && (*stack)[n-1].row == mark.row {
			return
		}
		if len(*stack) >= p.loopStackSize {
			copy(*stack, (*stack)[1:])
			(*stack)[len(*stack)-1] = mark
		} else {
			*stack = append(*stack, mark)
		}
		return
	}
	if len(*stack) == 0 {
		return
	}
	top := &(*stack)[len(*stack)-1]
	top.count++
	if top.count <= data {
		hc.flags |= chfPatternLoop
		hc.breakRow = top.row
	} else {
		*stack = (*stack)[:len(*stack)-1]
	}
}

func efGoSub(p *Player, hc *hostChannel, cmd byte, data uint16) {
	// TODO: GoSub is not implemented yet.
}

func efGoSubReturn(p *Player, hc *hostChannel, cmd byte, data uint16) {
	// TODO: GoSub return is not implemented yet.
}

func efChannelSync(p *Player, hc *hostChannel, cmd byte, data uint16) {
	// TODO: channel synchronization is not implemented yet.
}

func efSetSubSlide(p *Player, hc *hostChannel, cmd byte, data uint16) {
	kinds := uint8(data >> 8)
	val := uint8(data)
	if kinds&0x01 != 0 {
		hc.subVolume = val
		if v := p.foregroundVoice(hc); v != nil {
			v.subVolume = val
		}
	}
	if kinds&0x02 != 0 {
		hc.trackSubVol = val
	}
	if kinds&0x04 != 0 {
		hc.subPan = val
	}
	if kinds&0x08 != 0 {
		hc.trackSubPan = val
	}
	if kinds&0x10 != 0 {
		p.globalSubVolume = val
	}
	if kinds&0x20 != 0 {
		p.globalSubPan = val
	}
}

// --- instrument / sample / synth (0x50 - 0x5C) --------------------

func efSampleOffHigh(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.sampleOffsetHi = data
}

func efSampleOffLow(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.sampleOffsetLo = data
	if v := p.foregroundVoice(hc); v != nil && hc.sampleOffsetHi == 0 {
		// Applied immediately when a voice is already sounding.
		off := uint32(data)
		if off < v.snap.Length {
			v.snap.Position = off
		} else if hc.track == nil || hc.track.CompatFlags&TrackCompatSampleOffset == 0 {
			v.snap.Position = v.snap.Length
		}
		hc.sampleOffsetLo = 0
	}
}

func efSetHold(p *Player, hc *hostChannel, cmd byte, data uint16) {
	if v := p.foregroundVoice(hc); v != nil {
		v.hold = data
		v.holdCount = data
	}
}

func efSetDecay(p *Player, hc *hostChannel, cmd byte, data uint16) {
	if v := p.foregroundVoice(hc); v != nil {
		v.decay = data
	}
}

func prSetTranspose(p *Player, hc *hostChannel, data uint16) {
	hc.transpose = int8(data >> 8)
	hc.finetune = int8(data)
}

func efSetTranspose(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.transpose = int8(data >> 8)
	hc.finetune = int8(data)
}

func efInstrCtrl(p *Player, hc *hostChannel, cmd byte, data uint16) {
	// TODO: instrument control is not implemented yet.
}

func efInstrChange(p *Player, hc *hostChannel, cmd byte, data uint16) {
	v := p.foregroundVoice(hc)
	in := p.instrumentFor(data, hc)
	if v == nil || in == nil {
		return
	}
	v.instrument = in
	v.instrVolume = in.GlobalVolume
	v.fadeOut = in.FadeOut
}

func efSynthCtrl(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.synthCtrl = data
	op := uint8(data >> 8)
	if op != 0x00 {
		return
	}
	if v := p.foregroundVoice(hc); v != nil {
		v.vm.stopForbid = uint8(data)
	}
}

func efSetSynthVal(p *Player, hc *hostChannel, cmd byte, data uint16) {
	v := p.foregroundVoice(hc)
	if v == nil || v.synth == nil {
		return
	}
	v.vm.vars[hc.synthCtrl&0x0F] = data
}

func efEnvCtrl(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.envCtrl = data
	hc.envCtrlKind = uint8(data >> 8)
	hc.envCtrlChange = uint8(data)
}

// voiceEnvelope selects a voice envelope by kind.
func voiceEnvelope(v *voice, kind uint8) *playerEnvelope {
	switch kind {
	case EnvKindVolume:
		return &v.volEnv
	case EnvKindPanning:
		return &v.panEnv
	case EnvKindSlide:
		return &v.slideEnv
	case EnvKindVibrato:
		return &v.vibEnv
	case EnvKindTremolo:
		return &v.tremEnv
	case EnvKindPannolo:
		return &v.pannoloEnv
	}
	return nil
}

func efSetEnvVal(p *Player, hc *hostChannel, cmd byte, data uint16) {
	v := p.foregroundVoice(hc)
	if v == nil {
		return
	}
	pe := voiceEnvelope(v, hc.envCtrlKind)
	if pe == nil || pe.env == nil {
		return
	}
	switch hc.envCtrlChange {
	case 0x00: // set position
		last := uint16(len(pe.env.Values) - 1)
		if data > last {
			data = last
		}
		pe.pos = data
		pe.value = envValueAt(pe, pe.pos)
	case 0x01: // set tempo
		pe.tempo = data
		pe.tempoCount = 0
	case 0x02: // restart
		initEnvelope(pe, pe.env)
	case 0x03: // stop
		pe.flags &^= epActive
	}
}

func efNNACtrl(p *Player, hc *hostChannel, cmd byte, data uint16) {
	op := uint8(data >> 8)
	val := uint8(data)
	switch op {
	case 0x00:
		hc.nna = val & 3
	case 0x01:
		hc.dct = val
	case 0x02:
		hc.dna = val
	}
}

func efLoopCtrl(p *Player, hc *hostChannel, cmd byte, data uint16) {
	// TODO: sample loop control is not implemented yet.
}

// --- global (0x60 - 0x7F) -----------------------------------------

func efSetSpeed(p *Player, hc *hostChannel, cmd byte, data uint16) {
	if data == 0 {
		return
	}
	if p.SubSong.Flags&SongSPDTiming != 0 {
		p.spdSpeed = data
	} else {
		p.bpmSpeed = data
	}
	p.setGlobalTempo()
}

func (p *Player) speedValue() uint16 {
	if p.SubSong.Flags&SongSPDTiming != 0 {
		return p.spdSpeed
	}
	return p.bpmSpeed
}

func (p *Player) setSpeedValue(v uint16) {
	if v == 0 {
		v = 1
	}
	if p.SubSong.Flags&SongSPDTiming != 0 {
		p.spdSpeed = v
	} else {
		p.bpmSpeed = v
	}
	p.setGlobalTempo()
}

func efSpeedSlFast(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&p.speedSlideFaster, data)
	p.setSpeedValue(slide16(p.speedValue(), int32(d)))
}

func efSpeedSlSlow(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&p.speedSlideSlower, data)
	p.setSpeedValue(slide16(p.speedValue(), -int32(d)))
}

func efFSpeedSlFast(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&p.fineSpeedSlFast, data)
	p.setSpeedValue(slide16(p.speedValue(), int32(d)))
}

func efFSpeedSlSlow(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&p.fineSpeedSlSlow, data)
	p.setSpeedValue(slide16(p.speedValue(), -int32(d)))
}

func efSpeedSlideTo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	if data>>8 != 0 {
		p.speedSlideToVal = data >> 8
	}
	rate := data & 0xFF
	if rate != 0 {
		p.speedSlideTo = rate
	}
	p.setSpeedValue(slideTo16(p.speedValue(), p.speedSlideToVal, p.speedSlideTo))
}

func efSpenolo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	// TODO: spenolo is not implemented yet.
}

func efSpenoloOnce(p *Player, hc *hostChannel, cmd byte, data uint16) {
	// TODO: spenolo once is not implemented yet.
}

func efChannelCtrl(p *Player, hc *hostChannel, cmd byte, data uint16) {
	op := uint8(data >> 8)
	val := uint8(data)
	switch op {
	case 0x00:
		if val <= ctrlGlobal {
			hc.ctrlMode = val
		}
	case 0x01:
		hc.ctrlChannel = uint16(val)
	case 0x02:
		hc.ctrlAffect = uint16(val) | uint16(val)<<8
	case 0x03:
		w := int(val) / 64
		for len(hc.ctrlBitmap) <= w {
			hc.ctrlBitmap = append(hc.ctrlBitmap, 0)
		}
		hc.ctrlBitmap[w] |= 1 << uint(val%64)
	case 0x04:
		w := int(val) / 64
		if w < len(hc.ctrlBitmap) {
			hc.ctrlBitmap[w] &^= 1 << uint(val%64)
		}
	default:
		// TODO: remaining channel control sub-ops are not
		// implemented yet.
	}
}

func efSetGVolume(p *Player, hc *hostChannel, cmd byte, data uint16) {
	vol := uint8(data >> 8)
	if p.SubSong.CompatFlags&CompatOldVolumes != 0 {
		v32 := uint32(vol) << 2
		if v32 > 255 {
			v32 = 255
		}
		vol = uint8(v32)
	}
	p.globalVolume, p.globalSubVolume = vol, uint8(data)
}

func (p *Player) globalVol16() uint16 {
	return uint16(p.globalVolume)<<8 | uint16(p.globalSubVolume)
}

func (p *Player) setGlobalVol16(x uint16) {
	p.globalVolume, p.globalSubVolume = uint8(x>>8), uint8(x)
}

func efGVolSlideUp(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := p.oldVolumeScale(mem(&p.globalVolumeSl.up, data))
	p.setGlobalVol16(slide16(p.globalVol16(), int32(d)))
}

func efGVolSlideDown(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := p.oldVolumeScale(mem(&p.globalVolumeSl.down, data))
	p.setGlobalVol16(slide16(p.globalVol16(), -int32(d)))
}

func efFGVolSlideUp(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := p.oldVolumeScale(mem(&p.globalVolumeSl.up, data))
	p.setGlobalVol16(slide16(p.globalVol16(), int32(d)))
}

func efFGVolSlideDn(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := p.oldVolumeScale(mem(&p.globalVolumeSl.down, data))
	p.setGlobalVol16(slide16(p.globalVol16(), -int32(d)))
}

func efGVolSlideTo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	if data>>8 != 0 {
		p.gVolSlideToVal = (data >> 8) << 8
	}
	rate := data & 0xFF
	if rate != 0 {
		p.gVolSlideTo = rate
	}
	p.setGlobalVol16(slideTo16(p.globalVol16(), p.gVolSlideToVal, p.oldVolumeScale(p.gVolSlideTo)))
}

func efGTremolo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	oscAdvance(&p.globalTremolo, uint8(data>>8), uint8(data), false)
}

func efGTremoloOnce(p *Player, hc *hostChannel, cmd byte, data uint16) {
	oscAdvance(&p.globalTremolo, uint8(data>>8), uint8(data), true)
}

func efSetGPanning(p *Player, hc *hostChannel, cmd byte, data uint16) {
	p.globalPanning, p.globalSubPan = uint8(data>>8), uint8(data)
	p.globalSurround = false
}

func (p *Player) globalPan16() uint16 {
	return uint16(p.globalPanning)<<8 | uint16(p.globalSubPan)
}

func (p *Player) setGlobalPan16(x uint16) {
	p.globalPanning, p.globalSubPan = uint8(x>>8), uint8(x)
}

func efGPanSlLeft(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&p.globalPanningSl.up, data)
	p.setGlobalPan16(slide16(p.globalPan16(), -int32(d)))
}

func efGPanSlRight(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&p.globalPanningSl.down, data)
	p.setGlobalPan16(slide16(p.globalPan16(), int32(d)))
}

func efFGPanSlLeft(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&p.globalPanningSl.up, data)
	p.setGlobalPan16(slide16(p.globalPan16(), -int32(d)))
}

func efFGPanSlRight(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&p.globalPanningSl.down, data)
	p.setGlobalPan16(slide16(p.globalPan16(), int32(d)))
}

func efGPanSlideTo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	if data>>8 != 0 {
		p.gPanSlideToVal = (data >> 8) << 8
	}
	rate := data & 0xFF
	if rate != 0 {
		p.gPanSlideTo = rate
	}
	p.setGlobalPan16(slideTo16(p.globalPan16(), p.gPanSlideToVal, p.gPanSlideTo))
}

func efGPannolo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	oscAdvance(&p.globalPannolo, uint8(data>>8), uint8(data), false)
}

func efGPannoloOnce(p *Player, hc *hostChannel, cmd byte, data uint16) {
	oscAdvance(&p.globalPannolo, uint8(data>>8), uint8(data), true)
}

func efUserSync(p *Player, hc *hostChannel, cmd byte, data uint16) {
	if p.userSync != nil {
		p.userSync(p, hc.idx, data)
	}
}
