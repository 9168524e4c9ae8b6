package seqplayer

import (
	"errors"
	"fmt"
)

const (
	// avTimeBase is the microsecond clock the play-time accounting
	// runs on.
	avTimeBase = 1000000

	// Hook flag word bits.
	HookBeginning = 0x01
	HookSongEnd   = 0x02
)

var (
	ErrNoSubSong    = errors.New("module has no sub-song")
	ErrNoChannels   = errors.New("sub-song has no channels")
	ErrMixerChans   = errors.New("mixer provides no channels")
	ErrBadSubSong   = errors.New("sub-song index out of range")
	ErrOrderListLen = errors.New("sub-song order list count does not match channels")
)

// HookFunc is the callback signature for the beginning/end hooks.
type HookFunc func(p *Player, userData []byte)

// Player is the playback engine. It owns all runtime state; the
// module it plays is borrowed and read-only.
type Player struct {
	Module  *Module
	SubSong *SubSong
	mixer   Mixer

	// Global timing. tempo is the raw tick rate value: BpM speed x
	// BpM tempo in BpM mode, SPD speed x 10 in SPD mode.
	tempo         uint16
	relativeSpeed uint32 // 16.16
	relativePitch uint32 // 16.16

	globalVolume    uint8
	globalSubVolume uint8
	globalPanning   uint8
	globalSubPan    uint8
	globalSurround  bool

	// Global tremolo/pannolo state driven by the global effects.
	globalTremolo    oscState
	globalPannolo    oscState
	globalVolumeSl   slideMemory
	globalPanningSl  slideMemory
	speedSlideFaster uint16
	speedSlideSlower uint16
	fineSpeedSlFast  uint16
	fineSpeedSlSlow  uint16
	speedSlideTo     uint16
	speedSlideToVal  uint16
	gVolSlideTo      uint16
	gVolSlideToVal   uint16
	gPanSlideTo      uint16
	gPanSlideToVal   uint16

	playTime     uint64 // microseconds of wall-clock play time
	playTimeFrac uint32
	playTicks    uint64 // musical ticks
	playTickFrac uint32

	traceCount uint32

	// Mutable copies of the sub-song timing, adjusted by the speed
	// effects.
	bpmSpeed uint16
	bpmTempo uint16
	spdSpeed uint16

	// Shared pattern-loop stack for the global-loop compat mode.
	globalLoopStack []loopMark

	execFxDepth int

	userSync func(p *Player, channel int, data uint16)

	seed int32

	hostChannels []hostChannel
	voices       []voice

	loopStackSize  int
	gosubStackSize int

	// Play mode: once (stop at song end) or repeat.
	playOnce bool
	playing  bool
	songEnd  bool

	activeVoices int

	beginHook      HookFunc
	beginHookFlags uint8
	beginHookData  []byte
	endHook        HookFunc
	endHookFlags   uint8
	endHookData    []byte

	// Logf, when set, receives diagnostics. The tick path never
	// fails outward.
	Logf func(format string, args ...any)
}

// slideMemory keeps the last data word an effect used so a zero data
// word replays the previous operand.
type slideMemory struct {
	up   uint16
	down uint16
}

// oscState is the shared oscillator state for tremolo/pannolo/spenolo
// style wobbles.
type oscState struct {
	rate  uint8
	depth int8
	pos   uint16
	value int32
	once  bool
	done  bool
}

// NewPlayer creates a playback engine for one sub-song of a module.
// Voices are sized from the mixer's channel count.
func NewPlayer(mod *Module, subSong int, mixer Mixer) (*Player, error) {
	if mod == nil || len(mod.SubSongs) == 0 {
		return nil, ErrNoSubSong
	}
	if subSong < 0 || subSong >= len(mod.SubSongs) {
		return nil, ErrBadSubSong
	}
	ss := mod.SubSongs[subSong]
	if ss.Channels <= 0 {
		return nil, ErrNoChannels
	}
	if len(ss.OrderLists) != ss.Channels {
		return nil, fmt.Errorf("%w: %d lists for %d channels", ErrOrderListLen, len(ss.OrderLists), ss.Channels)
	}
	if mixer == nil || mixer.Channels() <= 0 {
		return nil, ErrMixerChans
	}

	p := &Player{
		Module:  mod,
		SubSong: ss,
		mixer:   mixer,
		seed:    lcgMultiplier,
	}
	p.loopStackSize = int(ss.LoopStackSize)
	if p.loopStackSize == 0 {
		p.loopStackSize = 4
	}
	p.gosubStackSize = int(ss.GoSubStackSize)
	if p.gosubStackSize == 0 {
		p.gosubStackSize = 4
	}

	p.hostChannels = make([]hostChannel, ss.Channels)
	p.voices = make([]voice, mixer.Channels())
	p.reset()
	return p, nil
}

// SetHooks registers the beginning and end hooks with their gating
// flag words and user data.
func (p *Player) SetHooks(begin HookFunc, beginFlags uint8, beginData []byte, end HookFunc, endFlags uint8, endData []byte) {
	p.beginHook, p.beginHookFlags, p.beginHookData = begin, beginFlags, beginData
	p.endHook, p.endHookFlags, p.endHookData = end, endFlags, endData
}

// SetTrace pauses processing for the next n ticks; each paused tick
// only decrements the counter.
func (p *Player) SetTrace(n uint32) { p.traceCount = n }

// SetPlayOnce selects one-time play mode: the song disables channels
// at their order list end instead of looping to RepStart.
func (p *Player) SetPlayOnce(once bool) { p.playOnce = once }

// Seed returns the current RNG seed, SetSeed replaces it.
func (p *Player) Seed() int32      { return p.seed }
func (p *Player) SetSeed(s int32)  { p.seed = s }
func (p *Player) IsPlaying() bool  { return p.playing }
func (p *Player) SongEnded() bool  { return p.songEnd }
func (p *Player) PlayTime() uint64 { return p.playTime }
func (p *Player) PlayTicks() uint64 {
	return p.playTicks
}

// ActiveVoices reports the voice count of the previous tick.
func (p *Player) ActiveVoices() int { return p.activeVoices }

// reset initializes all runtime state from the sub-song defaults.
func (p *Player) reset() {
	ss := p.SubSong

	p.globalVolume = ss.GlobalVolume
	p.globalSubVolume = ss.GlobalSubVolume
	p.globalPanning = uint8(int(ss.GlobalPanning) + 128)
	p.globalSubPan = ss.GlobalSubPan
	p.globalSurround = ss.Flags&SongSurround != 0
	p.relativeSpeed = ss.RelativeSpeed
	if p.relativeSpeed == 0 {
		p.relativeSpeed = 0x10000
	}
	p.relativePitch = ss.RelativePitch
	if p.relativePitch == 0 {
		p.relativePitch = 0x10000
	}
	p.bpmSpeed = ss.BpMSpeed
	p.bpmTempo = ss.BpMTempo
	p.spdSpeed = ss.SPDSpeed
	p.globalLoopStack = p.globalLoopStack[:0]
	p.setGlobalTempo()

	p.playTime, p.playTimeFrac = 0, 0
	p.playTicks, p.playTickFrac = 0, 0
	p.songEnd = false

	for i := range p.hostChannels {
		hc := &p.hostChannels[i]
		hc.init(p, i)
	}
	for i := range p.voices {
		v := &p.voices[i]
		*v = voice{idx: i, host: -1}
	}
}

// Start resets the engine and begins playback at the top of the
// sub-song.
func (p *Player) Start() {
	p.reset()
	p.playing = true
}

// Stop halts playback; Tick becomes a no-op until Start.
func (p *Player) Stop() {
	p.playing = false
	for i := range p.voices {
		p.cutVoice(&p.voices[i])
	}
}

// setGlobalTempo derives the raw tempo value from the sub-song timing
// system and announces the tick cadence to the mixer.
func (p *Player) setGlobalTempo() {
	ss := p.SubSong
	var tempo uint16
	if ss.Flags&SongSPDTiming != 0 {
		spd := p.spdSpeed
		if spd == 0 {
			spd = 33
		}
		tempo = spd * 10
	} else {
		speed := p.bpmSpeed
		if speed == 0 {
			speed = 125
		}
		bt := p.bpmTempo
		if bt == 0 {
			bt = 4
		}
		t32 := uint32(speed) * uint32(bt)
		if t32 > 0xFFFF {
			t32 = 0xFFFF
		}
		tempo = uint16(t32)
	}
	p.tempo = tempo
	p.announceTempo()
}

// SetUserSync registers the callback the user-sync effect invokes.
func (p *Player) SetUserSync(fn func(p *Player, channel int, data uint16)) {
	p.userSync = fn
}

// announceTempo pushes the effective microseconds-per-tick to the
// mixer.
func (p *Player) announceTempo() {
	et := p.effectiveTempo()
	if et == 0 || p.mixer == nil {
		return
	}
	us := uint64(avTimeBase) * 655360 / et >> 16
	p.mixer.SetTempo(uint32(us))
}

// effectiveTempo is the wall-clock tick rate: raw tempo scaled by the
// relative speed.
func (p *Player) effectiveTempo() uint64 {
	return uint64(p.tempo) * uint64(p.relativeSpeed) >> 16
}

// Tick is the per-tick playback handler. It is infallible: invalid
// input is normalised, never reported.
func (p *Player) Tick() {
	if p.Module == nil || p.SubSong == nil || p.mixer == nil || len(p.hostChannels) == 0 || !p.playing {
		return
	}

	// Phase 1: pull back per-voice playback position and flags from
	// the mixer.
	for i := range p.voices {
		v := &p.voices[i]
		if v.allocated || v.snap.Flags&SnapPlay != 0 {
			p.mixer.GetChannel(i, &v.snap)
		}
	}

	// Phase 2: trace mode and the beginning hook.
	if p.traceCount > 0 {
		p.traceCount--
		return
	}
	if p.beginHook != nil {
		if p.beginHookFlags&HookBeginning != 0 || (p.beginHookFlags&HookSongEnd != 0 && p.songEnd) {
			p.beginHook(p, p.beginHookData)
		}
	}

	// Phase 3: global timing advance.
	p.advanceTime()

	// Phase 4: row processing and effects per host channel, in index
	// order. The duplicate-effect guard is rebuilt each tick so that
	// channel-control re-routing cannot fire an effect twice.
	for i := range p.hostChannels {
		p.hostChannels[i].effectsUsed = 0
	}
	for i := range p.hostChannels {
		p.channelTick(&p.hostChannels[i])
	}

	// Phase 5: per-voice envelope, auto modulation, synth VM and
	// mixer push.
	for i := range p.voices {
		p.voiceTick(&p.voices[i])
	}

	// Phase 6: bookkeeping, song-end detection, end hook.
	active := 0
	for i := range p.voices {
		if p.voices[i].snap.Flags&SnapPlay != 0 {
			active++
		}
	}
	p.activeVoices = active

	ended := true
	for i := range p.hostChannels {
		if p.hostChannels[i].flags&chfSongEnd == 0 {
			ended = false
			break
		}
	}
	if ended && !p.songEnd {
		p.songEnd = true
		if p.playOnce {
			p.playing = false
		}
	}
	if p.endHook != nil {
		if p.endHookFlags&HookBeginning != 0 || (p.endHookFlags&HookSongEnd != 0 && p.songEnd) {
			p.endHook(p, p.endHookData)
		}
	}
}

// advanceTime accumulates elapsed play-time (wall clock, scaled by
// relative speed) and play-ticks (musical, raw tempo) with 32-bit
// fractional carry to avoid drift.
func (p *Player) advanceTime() {
	if et := p.effectiveTempo(); et != 0 {
		// adv is 48.16 fixed-point microseconds.
		adv := uint64(avTimeBase) * 655360 / et
		sum := uint64(p.playTimeFrac) + adv&0xFFFF
		p.playTime += adv>>16 + sum>>16
		p.playTimeFrac = uint32(sum & 0xFFFF)
	}
	if p.tempo != 0 {
		adv := uint64(avTimeBase) * 655360 / uint64(p.tempo)
		sum := uint64(p.playTickFrac) + adv&0xFFFF
		p.playTicks += adv>>16 + sum>>16
		p.playTickFrac = uint32(sum & 0xFFFF)
	}
}

// logf forwards to the diagnostic sink when one is registered.
func (p *Player) logf(format string, args ...any) {
	if p.Logf != nil {
		p.Logf(format, args...)
	}
}
