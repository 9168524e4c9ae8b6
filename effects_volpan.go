package seqplayer

// Volume and panning effects. Slides operate on a 16-bit composite
// value (volume<<8 | sub-volume) saturating at the extremes; the
// old-volume compat mode rescales 0x00..0x40 operands to 0x00..0xFF.

// oldVolumeScale widens an old-range slide operand.
func (p *Player) oldVolumeScale(data uint16) uint16 {
	if p.SubSong.CompatFlags&CompatOldVolumes == 0 {
		return data
	}
	if data < 0x4000 {
		return data << 2
	}
	return 0xFFFF
}

func slide16(value uint16, delta int32) uint16 {
	nv := int32(value) + delta
	if nv < 0 {
		return 0
	}
	if nv > 0xFFFF {
		return 0xFFFF
	}
	return uint16(nv)
}

// slideTo16 moves value toward target by rate, snapping on overshoot.
func slideTo16(value, target uint16, rate uint16) uint16 {
	if value < target {
		nv := slide16(value, int32(rate))
		if nv > target {
			nv = target
		}
		return nv
	}
	nv := slide16(value, -int32(rate))
	if nv < target {
		nv = target
	}
	return nv
}

func (v *voice) volume16() uint16      { return uint16(v.volume)<<8 | uint16(v.subVolume) }
func (v *voice) setVolume16(x uint16)  { v.volume, v.subVolume = uint8(x>>8), uint8(x) }
func (hc *hostChannel) trackVol16() uint16 {
	return uint16(hc.trackVolume)<<8 | uint16(hc.trackSubVol)
}
func (hc *hostChannel) setTrackVol16(x uint16) {
	hc.trackVolume, hc.trackSubVol = uint8(x>>8), uint8(x)
}
func (hc *hostChannel) pan16() uint16 { return uint16(hc.panning)<<8 | uint16(hc.subPan) }
func (hc *hostChannel) setPan16(x uint16) {
	hc.panning, hc.subPan = uint8(x>>8), uint8(x)
}
func (hc *hostChannel) trackPan16() uint16 {
	return uint16(hc.trackPanning)<<8 | uint16(hc.trackSubPan)
}
func (hc *hostChannel) setTrackPan16(x uint16) {
	hc.trackPanning, hc.trackSubPan = uint8(x>>8), uint8(x)
}

// --- volume (0x20 - 0x2F) -----------------------------------------

func efSetVolume(p *Player, hc *hostChannel, cmd byte, data uint16) {
	vol := uint8(data >> 8)
	sub := uint8(data)
	if p.SubSong.CompatFlags&CompatOldVolumes != 0 {
		v32 := uint32(vol) << 2
		if v32 > 255 {
			v32 = 255
		}
		vol = uint8(v32)
	}
	hc.volume, hc.subVolume = vol, sub
	if v := p.foregroundVoice(hc); v != nil {
		v.volume, v.subVolume = vol, sub
	}
}

func efVolSlideUp(p *Player, hc *hostChannel, cmd byte, data uint16) {
	v := p.foregroundVoice(hc)
	if v == nil {
		return
	}
	d := p.oldVolumeScale(mem(&hc.volSlide.up, data))
	v.setVolume16(slide16(v.volume16(), int32(d)))
}

func efVolSlideDown(p *Player, hc *hostChannel, cmd byte, data uint16) {
	v := p.foregroundVoice(hc)
	if v == nil {
		return
	}
	d := p.oldVolumeScale(mem(&hc.volSlide.down, data))
	v.setVolume16(slide16(v.volume16(), -int32(d)))
}

func efFineVolSlUp(p *Player, hc *hostChannel, cmd byte, data uint16) {
	v := p.foregroundVoice(hc)
	if v == nil {
		return
	}
	d := p.oldVolumeScale(mem(&hc.fineVolSlide.up, data))
	v.setVolume16(slide16(v.volume16(), int32(d)))
}

func efFineVolSlDown(p *Player, hc *hostChannel, cmd byte, data uint16) {
	v := p.foregroundVoice(hc)
	if v == nil {
		return
	}
	d := p.oldVolumeScale(mem(&hc.fineVolSlide.down, data))
	v.setVolume16(slide16(v.volume16(), -int32(d)))
}

// prVolSlideTo latches the slide target from the data word high byte
// before the slide starts running.
func prVolSlideTo(p *Player, hc *hostChannel, data uint16) {
	if data>>8 != 0 {
		hc.volSlideToVal = (data >> 8) << 8
	}
}

func efVolSlideTo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	v := p.foregroundVoice(hc)
	if v == nil {
		return
	}
	rate := uint16(data & 0xFF)
	if rate != 0 {
		hc.volSlideTo = rate
	}
	v.setVolume16(slideTo16(v.volume16(), hc.volSlideToVal, p.oldVolumeScale(hc.volSlideTo)))
}

func tremoloCommon(p *Player, hc *hostChannel, data uint16, once bool) {
	hc.flags |= chfTremolo
	oscAdvance(&hc.tremolo, uint8(data>>8), uint8(data), once)
}

func efTremolo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	tremoloCommon(p, hc, data, false)
}

func efTremoloOnce(p *Player, hc *hostChannel, cmd byte, data uint16) {
	tremoloCommon(p, hc, data, true)
}

func efSetTrackVol(p *Player, hc *hostChannel, cmd byte, data uint16) {
	vol := uint8(data >> 8)
	if p.SubSong.CompatFlags&CompatOldVolumes != 0 {
		v32 := uint32(vol) << 2
		if v32 > 255 {
			v32 = 255
		}
		vol = uint8(v32)
	}
	hc.trackVolume, hc.trackSubVol = vol, uint8(data)
}

func efTrackVolSlUp(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := p.oldVolumeScale(mem(&hc.trackVolSl.up, data))
	hc.setTrackVol16(slide16(hc.trackVol16(), int32(d)))
}

func efTrackVolSlDown(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := p.oldVolumeScale(mem(&hc.trackVolSl.down, data))
	hc.setTrackVol16(slide16(hc.trackVol16(), -int32(d)))
}

func efFTrackVolSlUp(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := p.oldVolumeScale(mem(&hc.fineTrackVolSl.up, data))
	hc.setTrackVol16(slide16(hc.trackVol16(), int32(d)))
}

func efFTrackVolSlDn(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := p.oldVolumeScale(mem(&hc.fineTrackVolSl.down, data))
	hc.setTrackVol16(slide16(hc.trackVol16(), -int32(d)))
}

func prTrackVolSlTo(p *Player, hc *hostChannel, data uint16) {
	if data>>8 != 0 {
		hc.trackVolSlToVal = (data >> 8) << 8
	}
}

func efTrackVolSlTo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	rate := uint16(data & 0xFF)
	if rate != 0 {
		hc.trackVolSlTo = rate
	}
	hc.setTrackVol16(slideTo16(hc.trackVol16(), hc.trackVolSlToVal, p.oldVolumeScale(hc.trackVolSlTo)))
}

func efTrackTremolo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.flags |= chfTrackTremolo
	oscAdvance(&hc.trackTremolo, uint8(data>>8), uint8(data), false)
}

func efTrackTremOnce(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.flags |= chfTrackTremolo
	oscAdvance(&hc.trackTremolo, uint8(data>>8), uint8(data), true)
}

// --- panning (0x30 - 0x3F) ----------------------------------------

func efSetPanning(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.panning, hc.subPan = uint8(data>>8), uint8(data)
	hc.surround = false
	if v := p.foregroundVoice(hc); v != nil {
		v.panning, v.subPan = hc.panning, hc.subPan
		v.surround = false
	}
}

func panApply(p *Player, hc *hostChannel) {
	if v := p.foregroundVoice(hc); v != nil {
		v.panning, v.subPan = hc.panning, hc.subPan
	}
}

func efPanSlideLeft(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&hc.panSlide.up, data)
	hc.setPan16(slide16(hc.pan16(), -int32(d)))
	panApply(p, hc)
}

func efPanSlideRight(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&hc.panSlide.down, data)
	hc.setPan16(slide16(hc.pan16(), int32(d)))
	panApply(p, hc)
}

func efFinePanSlLeft(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&hc.finePanSlide.up, data)
	hc.setPan16(slide16(hc.pan16(), -int32(d)))
	panApply(p, hc)
}

func efFinePanSlRight(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&hc.finePanSlide.down, data)
	hc.setPan16(slide16(hc.pan16(), int32(d)))
	panApply(p, hc)
}

func prPanSlideTo(p *Player, hc *hostChannel, data uint16) {
	if data>>8 != 0 {
		hc.panSlideToVal = (data >> 8) << 8
	}
}

func efPanSlideTo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	rate := uint16(data & 0xFF)
	if rate != 0 {
		hc.panSlideTo = rate
	}
	hc.setPan16(slideTo16(hc.pan16(), hc.panSlideToVal, hc.panSlideTo))
	panApply(p, hc)
}

func efPannolo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.flags |= chfPannolo
	oscAdvance(&hc.pannolo, uint8(data>>8), uint8(data), false)
}

func efPannoloOnce(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.flags |= chfPannolo
	oscAdvance(&hc.pannolo, uint8(data>>8), uint8(data), true)
}

func efSetTrackPan(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.trackPanning, hc.trackSubPan = uint8(data>>8), uint8(data)
	hc.trackSurr = false
}

func efTrackPanSlLeft(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&hc.trackPanSl.up, data)
	hc.setTrackPan16(slide16(hc.trackPan16(), -int32(d)))
}

func efTrackPanSlRght(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&hc.trackPanSl.down, data)
	hc.setTrackPan16(slide16(hc.trackPan16(), int32(d)))
}

func efFTrackPanSlLft(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&hc.fineTrackPanSl.up, data)
	hc.setTrackPan16(slide16(hc.trackPan16(), -int32(d)))
}

func efFTrackPanSlRgt(p *Player, hc *hostChannel, cmd byte, data uint16) {
	d := mem(&hc.fineTrackPanSl.down, data)
	hc.setTrackPan16(slide16(hc.trackPan16(), int32(d)))
}

func prTrackPanSlTo(p *Player, hc *hostChannel, data uint16) {
	if data>>8 != 0 {
		hc.trackPanSlToVal = (data >> 8) << 8
	}
}

func efTrackPanSlTo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	rate := uint16(data & 0xFF)
	if rate != 0 {
		hc.trackPanSlTo = rate
	}
	hc.setTrackPan16(slideTo16(hc.trackPan16(), hc.trackPanSlToVal, hc.trackPanSlTo))
}

func efTrackPannolo(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.flags |= chfTrackPannolo
	oscAdvance(&hc.trackPannolo, uint8(data>>8), uint8(data), false)
}

func efTrackPanOnce(p *Player, hc *hostChannel, cmd byte, data uint16) {
	hc.flags |= chfTrackPannolo
	oscAdvance(&hc.trackPannolo, uint8(data>>8), uint8(data), true)
}
