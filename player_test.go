package seqplayer

import (
	"testing"
)

func TestPlayerInitialState(t *testing.T) {
	player, mixer := newTestPlayer(t, [][]string{
		{"... .. ......", "... .. ......"},
	})

	if len(player.hostChannels) != 2 {
		t.Fatalf("expected 2 host channels, got %d", len(player.hostChannels))
	}
	for i := range player.hostChannels {
		hc := &player.hostChannels[i]
		if hc.voice != -1 {
			t.Errorf("channel %d: expected no voice, got %d", i, hc.voice)
		}
		if hc.tempo != 6 {
			t.Errorf("channel %d: expected tempo 6, got %d", i, hc.tempo)
		}
		if hc.trackVolume != 255 {
			t.Errorf("channel %d: expected track volume 255, got %d", i, hc.trackVolume)
		}
	}
	if mixer.usPerTick != 20000 {
		t.Errorf("expected 20000us per tick at 125 BpM, got %d", mixer.usPerTick)
	}
}

func TestSilence(t *testing.T) {
	player, mixer := newTestPlayer(t, [][]string{
		{"... .. ......"},
	})

	for i := 0; i < 1000; i++ {
		player.Tick()
	}
	if player.ActiveVoices() != 0 {
		t.Errorf("expected no active voices, got %d", player.ActiveVoices())
	}
	if mixer.totalSets() != 0 {
		t.Errorf("expected no mixer pushes for a silent module, got %d", mixer.totalSets())
	}
}

func TestSimpleNote(t *testing.T) {
	player, mixer := newTestPlayer(t, [][]string{
		{"A-4 01 ......"},
		{"... .. ......"},
	})

	player.Tick()

	v := &player.voices[0]
	smp := player.Module.Instruments[0].Samples[0]
	wantFreq := noteFrequency(57, 0, smp.Rate)
	validateVoice(t, v, smp, wantFreq, 255)

	if mixer.chans[0].Flags&SnapPlay == 0 {
		t.Error("expected voice snapshot with play flag")
	}
	if mixer.chans[0].Rate != wantFreq {
		t.Errorf("expected mixer rate %d, got %d", wantFreq, mixer.chans[0].Rate)
	}
	if mixer.chans[0].Volume != 255 {
		t.Errorf("expected final volume 255, got %d", mixer.chans[0].Volume)
	}

	// Row advance after the channel tempo elapses must not disturb
	// the sounding voice.
	advanceToNextRow(player)
	if player.hostChannels[0].row != 1 {
		t.Errorf("expected row 1, got %d", player.hostChannels[0].row)
	}
	validateVoice(t, v, smp, wantFreq, 255)
}

func TestNoteWithoutInstrumentIsIgnored(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"A-4 .. ......"},
	})
	player.Tick()
	if player.voices[0].allocated {
		t.Error("expected no voice for a note without prior instrument")
	}
}

func TestTraceModeIsIdempotent(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"A-4 01 ......"},
		{"C-4 01 ......"},
	})
	player.SetTrace(3)

	before := player.hostChannels[0].tempoCounter
	for i := 0; i < 3; i++ {
		player.Tick()
	}
	if player.hostChannels[0].tempoCounter != before {
		t.Error("trace ticks must not advance channel state")
	}
	if player.voices[0].allocated {
		t.Error("trace ticks must not trigger voices")
	}

	player.Tick()
	if !player.voices[0].allocated {
		t.Error("expected playback to resume after the trace count expired")
	}
}

func TestOutOfRangeInstrumentIgnored(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"A-4 7F ......"},
	})
	player.Tick()
	if player.voices[0].allocated {
		t.Error("expected out-of-range instrument to be ignored")
	}
}

func TestDeterminism(t *testing.T) {
	pattern := [][]string{
		{"A-4 01 000407", "C-2 02 ......"},
		{"... .. 2100FF", "... .. ......"},
		{"E-4 01 010040", "G-2 02 0E4208"},
		{"... .. ......", "^^. .. ......"},
	}
	p1, m1 := newTestPlayer(t, pattern)
	p2, m2 := newTestPlayer(t, pattern)

	for i := 0; i < 400; i++ {
		p1.Tick()
		p2.Tick()
	}
	if p1.Seed() != p2.Seed() {
		t.Errorf("seeds diverged: %d vs %d", p1.Seed(), p2.Seed())
	}
	for i := range m1.chans {
		a, b := m1.chans[i], m2.chans[i]
		if a.Rate != b.Rate || a.Volume != b.Volume || a.Panning != b.Panning || a.Flags != b.Flags {
			t.Errorf("voice %d diverged: %+v vs %+v", i, a, b)
		}
	}
}

func TestPlayTimeAdvance(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"... .. ......"},
	})
	// 125 BpM x 4 rows/beat = 50 ticks/sec = 20ms per tick.
	for i := 0; i < 50; i++ {
		player.Tick()
	}
	got := player.PlayTime()
	if got < 999000 || got > 1001000 {
		t.Errorf("expected ~1s of play time after 50 ticks, got %dus", got)
	}
}

func TestSongEndDetection(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"A-4 01 ......"},
	})
	player.SetPlayOnce(true)

	for i := 0; i < 100 && !player.SongEnded(); i++ {
		player.Tick()
	}
	if !player.SongEnded() {
		t.Error("expected song end in play-once mode")
	}
	if player.IsPlaying() {
		t.Error("expected playback to stop at song end in play-once mode")
	}
}

func TestHooks(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"... .. ......"},
	})
	var begins, ends int
	player.SetHooks(
		func(p *Player, _ []byte) { begins++ }, HookBeginning, nil,
		func(p *Player, _ []byte) { ends++ }, HookBeginning, nil,
	)
	for i := 0; i < 10; i++ {
		player.Tick()
	}
	if begins != 10 || ends != 10 {
		t.Errorf("expected 10 hook invocations each, got %d/%d", begins, ends)
	}
}

func TestStopCutsVoices(t *testing.T) {
	player, mixer := newTestPlayer(t, [][]string{
		{"A-4 01 ......"},
	})
	player.Tick()
	if mixer.chans[0].Flags&SnapPlay == 0 {
		t.Fatal("expected playing voice")
	}
	player.Stop()
	if mixer.chans[0].Flags&SnapPlay != 0 {
		t.Error("expected Stop to cut all voices")
	}
	player.Tick()
	if player.ActiveVoices() != 0 {
		t.Error("Tick after Stop must be a no-op")
	}
}
