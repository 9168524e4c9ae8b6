package seqplayer

// SoftMixer is a reference software implementation of the Mixer
// interface: it consumes the per-voice channel snapshots and renders
// interleaved 16-bit stereo PCM with 16.16 fixed-point resampling.

type mixVoice struct {
	snap    ChannelSnapshot
	posFrac uint32 // fractional sample position, 16 bits
}

type SoftMixer struct {
	sampleRate int
	voices     []mixVoice
	usPerTick  uint32
	boost      int
	mono       bool
}

// NewSoftMixer creates a software mixer with the given output rate
// and voice count. Boost is an integer output multiplier between 1
// and 4.
func NewSoftMixer(sampleRate, voices int, boost uint) *SoftMixer {
	if boost < 1 {
		boost = 1
	}
	if boost > 4 {
		boost = 4
	}
	return &SoftMixer{
		sampleRate: sampleRate,
		voices:     make([]mixVoice, voices),
		usPerTick:  20000,
		boost:      int(boost),
	}
}

func (m *SoftMixer) Channels() int { return len(m.voices) }

func (m *SoftMixer) GetChannel(ch int, snap *ChannelSnapshot) {
	mc := &m.voices[ch]
	snap.Position = mc.snap.Position
	snap.Flags = snap.Flags&^(SnapPlay|SnapBackwards) | mc.snap.Flags&(SnapPlay|SnapBackwards)
}

func (m *SoftMixer) SetChannel(ch int, snap *ChannelSnapshot) {
	mc := &m.voices[ch]
	mc.snap = *snap
	mc.posFrac = 0
}

func (m *SoftMixer) SetChannelVolumePanningPitch(ch int, snap *ChannelSnapshot) {
	mc := &m.voices[ch]
	mc.snap.Volume = snap.Volume
	mc.snap.Panning = snap.Panning
	mc.snap.Rate = snap.Rate
	mc.snap.Flags = mc.snap.Flags&^SnapSurround | snap.Flags&SnapSurround
}

func (m *SoftMixer) SetChannelPositionRepeatFlags(ch int, snap *ChannelSnapshot) {
	mc := &m.voices[ch]
	if mc.snap.Position != snap.Position {
		mc.posFrac = 0
	}
	mc.snap.Position = snap.Position
	mc.snap.RepeatStart = snap.RepeatStart
	mc.snap.RepeatLength = snap.RepeatLength
	mc.snap.RepeatCount = snap.RepeatCount
	mc.snap.Flags = snap.Flags
}

func (m *SoftMixer) SetChannelFilter(ch int, snap *ChannelSnapshot) {
	mc := &m.voices[ch]
	mc.snap.FilterCutoff = snap.FilterCutoff
	mc.snap.FilterDamping = snap.FilterDamping
}

func (m *SoftMixer) SetTempo(usPerTick uint32) {
	if usPerTick != 0 {
		m.usPerTick = usPerTick
	}
}

// SamplesPerTick converts the announced tick cadence into output
// sample frames.
func (m *SoftMixer) SamplesPerTick() int {
	n := uint64(m.sampleRate) * uint64(m.usPerTick) / avTimeBase
	if n == 0 {
		n = 1
	}
	return int(n)
}

// mix renders n stereo frames into out, offset in frames. Each voice
// is added into the int16 output with a clamp on every add.
func (m *SoftMixer) mix(out []int16, n, offset int) {
	for s := offset * 2; s < (offset+n)*2; s++ {
		out[s] = 0
	}

	for ci := range m.voices {
		mc := &m.voices[ci]
		if mc.snap.Flags&SnapPlay == 0 || mc.snap.Rate == 0 || mc.snap.Length == 0 {
			continue
		}
		if mc.snap.Volume == 0 {
			// Keep position advancing so silent voices stay in sync.
			m.advanceSilent(mc, n)
			continue
		}

		dr := uint64(mc.snap.Rate) << 16 / uint64(m.sampleRate)
		vol := int(mc.snap.Volume) * m.boost
		pan := int(mc.snap.Panning)
		lvol := (255 - pan) * vol >> 8
		rvol := pan * vol >> 8
		if m.mono {
			lvol = vol >> 1
			rvol = lvol
		}
		surround := mc.snap.Flags&SnapSurround != 0

		pos := uint64(mc.snap.Position)<<16 | uint64(mc.posFrac)
		for off := offset * 2; off < (offset+n)*2; off += 2 {
			idx := uint32(pos >> 16)
			samp := int(mc.snap.PCM(idx))
			l := samp * lvol >> 10
			r := samp * rvol >> 10
			if surround {
				r = -r
			}
			out[off] = clampS16(int(out[off]) + l)
			out[off+1] = clampS16(int(out[off+1]) + r)

			pos = m.step(mc, pos, dr)
			if mc.snap.Flags&SnapPlay == 0 {
				break
			}
		}
		mc.snap.Position = uint32(pos >> 16)
		mc.posFrac = uint32(pos & 0xFFFF)
	}
}

// step advances a voice position one output frame honouring the loop
// geometry and direction flags.
func (m *SoftMixer) step(mc *mixVoice, pos, dr uint64) uint64 {
	if mc.snap.Flags&SnapBackwards != 0 {
		if pos < dr {
			pos = 0
		} else {
			pos -= dr
		}
		start := uint64(mc.snap.RepeatStart) << 16
		if pos <= start {
			if mc.snap.Flags&SnapPingPong != 0 {
				mc.snap.Flags &^= SnapBackwards
				return start
			}
			if mc.snap.Flags&SnapLoop != 0 {
				return uint64(mc.snap.RepeatStart+mc.snap.RepeatLength) << 16
			}
			mc.snap.Flags &^= SnapPlay
		}
		return pos
	}

	pos += dr
	var end uint64
	if mc.snap.Flags&SnapLoop != 0 && mc.snap.RepeatLength != 0 {
		end = uint64(mc.snap.RepeatStart+mc.snap.RepeatLength) << 16
	} else {
		end = uint64(mc.snap.Length) << 16
	}
	if pos >= end {
		switch {
		case mc.snap.Flags&SnapPingPong != 0:
			mc.snap.Flags |= SnapBackwards
			pos = end
		case mc.snap.Flags&SnapLoop != 0 && mc.snap.RepeatLength != 0:
			if mc.snap.RepeatCount != 0 {
				mc.snap.RepeatCount--
				if mc.snap.RepeatCount == 0 {
					mc.snap.Flags &^= SnapLoop
				}
			}
			pos = uint64(mc.snap.RepeatStart) << 16
		default:
			mc.snap.Flags &^= SnapPlay
		}
	}
	return pos
}

func (m *SoftMixer) advanceSilent(mc *mixVoice, n int) {
	dr := uint64(mc.snap.Rate) << 16 / uint64(m.sampleRate)
	pos := uint64(mc.snap.Position)<<16 | uint64(mc.posFrac)
	for i := 0; i < n && mc.snap.Flags&SnapPlay != 0; i++ {
		pos = m.step(mc, pos, dr)
	}
	mc.snap.Position = uint32(pos >> 16)
	mc.posFrac = uint32(pos & 0xFFFF)
}

func clampS16(x int) int16 {
	if x > 32767 {
		return 32767
	}
	if x < -32768 {
		return -32768
	}
	return int16(x)
}

// Renderer couples a Player to a SoftMixer and produces a continuous
// stereo PCM stream, ticking the engine on tick boundaries.
type Renderer struct {
	Player *Player
	Mixer  *SoftMixer

	tickSamplePos int
}

// NewRenderer wires a player and its software mixer together. The
// player must have been created against the same mixer.
func NewRenderer(p *Player, m *SoftMixer) *Renderer {
	m.mono = p.SubSong.Flags&SongMono != 0
	return &Renderer{Player: p, Mixer: m}
}

// GenerateAudio fills out with interleaved stereo frames, invoking
// the tick handler at every tick boundary.
func (r *Renderer) GenerateAudio(out []int16) {
	count := len(out) / 2
	offset := 0
	for count > 0 {
		spt := r.Mixer.SamplesPerTick()
		remain := spt - r.tickSamplePos
		if remain > count {
			remain = count
		}

		r.Mixer.mix(out, remain, offset)
		offset += remain

		r.tickSamplePos += remain
		if r.tickSamplePos >= spt {
			r.Player.Tick()
			r.tickSamplePos = 0
		}
		count -= remain
	}
}
