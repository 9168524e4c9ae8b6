package seqplayer

import (
	"testing"
)

func TestNNACutReusesVoice(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"C-4 01 ......"},
		{"E-4 01 ......"},
	})
	player.Tick()
	advanceToNextRow(player)

	active := 0
	for i := range player.voices {
		if player.voices[i].allocated {
			active++
		}
	}
	if active != 1 {
		t.Errorf("expected NNA cut to keep a single voice, got %d", active)
	}
}

func TestNNAFade(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"C-4 01 1A0003"}, // extended control: set NNA fade
		{"E-4 01 ......"},
	})
	player.Tick()
	old := &player.voices[0]
	if player.hostChannels[0].nna != NNAFade {
		t.Fatalf("expected NNA fade, got %d", player.hostChannels[0].nna)
	}
	advanceToNextRow(player)

	if !old.background {
		t.Error("expected the old voice to become a background voice")
	}
	if !old.fading {
		t.Error("expected the old voice to be fading")
	}
	nv := p2foreground(player, 0)
	if nv == nil || nv == old {
		t.Fatal("expected a fresh foreground voice")
	}

	// The fadeout counter decrements by fadeOut per tick until the
	// voice is cut.
	fc := old.fadeOutCount
	player.Tick()
	if old.allocated && old.fadeOutCount >= fc {
		t.Error("expected the fade counter to decrement")
	}
	for i := 0; i < 200 && old.allocated; i++ {
		player.Tick()
	}
	if old.allocated {
		t.Error("expected the faded voice to be cut")
	}
}

func p2foreground(p *Player, ch int) *voice {
	return p.foregroundVoice(&p.hostChannels[ch])
}

func TestNNAContinueKeepsVoiceSounding(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"C-4 01 1A0001"}, // NNA continue
		{"E-4 01 ......"},
	})
	player.Tick()
	old := &player.voices[0]
	advanceToNextRow(player)

	if !old.allocated || !old.background {
		t.Error("expected the old voice to keep sounding in the background")
	}
	if old.keyoff || old.fading {
		t.Error("NNA continue must not key off or fade the old voice")
	}
}

func TestDCTInstrumentTriggersDNA(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"C-4 01 1A0001"}, // NNA continue so duplicates can pile up
		{"E-4 01 ......"},
	})
	player.hostChannels[0].dct = DCTInstr
	player.hostChannels[0].dna = DNACut
	player.Tick()
	old := &player.voices[0]
	advanceToNextRow(player)

	if old.allocated {
		t.Error("expected the duplicate-check cut to retire the old voice")
	}
	if p2foreground(player, 0) == nil {
		t.Error("expected a new foreground voice")
	}
}

func TestKeyoffSentinel(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"C-4 01 ......"},
		{"^^. .. ......"},
	})
	player.Tick()
	v := &player.voices[0]
	advanceToNextRow(player)
	if !v.keyoff {
		t.Error("expected the key-off sentinel to key the voice off")
	}
}

func TestNoteOffSentinelCuts(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"C-4 01 ......"},
		{"==. .. ......"},
	})
	player.Tick()
	advanceToNextRow(player)
	if player.voices[0].allocated {
		t.Error("expected the note-off sentinel to cut the voice")
	}
}

func TestBareInstrumentResetsVolume(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"C-4 01 220080"}, // slide volume away from the default
		{"... 01 ......"}, // bare instrument restores it
	})
	player.Tick()
	v := &player.voices[0]
	tickRow(player)
	if v.volume != 255 {
		t.Errorf("expected the bare instrument to restore volume 255, got %d", v.volume)
	}
}

func TestQuietestBackgroundVoiceIsStolen(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"C-4 01 1A0001"},
		{"D-4 01 ......"},
		{"E-4 01 ......"},
	})
	// Only two mixer voices: the third note must steal one.
	mixer := newCountingMixer(2)
	mod := player.Module
	player2, err := NewPlayer(mod, 0, mixer)
	if err != nil {
		t.Fatal(err)
	}
	player2.Start()
	player2.hostChannels[0].nna = NNAContinue

	player2.Tick()
	advanceToNextRow(player2)
	advanceToNextRow(player2)

	active := 0
	for i := range player2.voices {
		if player2.voices[i].allocated {
			active++
		}
	}
	if active > 2 {
		t.Errorf("voice count exceeded the mixer capacity: %d", active)
	}
	if p2foreground(player2, 0) == nil {
		t.Error("expected the new note to own a foreground voice")
	}
}

func TestSilenceSubstitution(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"C-4 01 ......"},
	})
	smp := player.Module.Instruments[0].Samples[0]
	smp.Data8 = nil
	player.Start()
	player.Tick()

	v := &player.voices[0]
	if !v.allocated {
		t.Fatal("expected a voice")
	}
	if len(v.snap.Data8) != 256 || v.snap.Flags&SnapLoop == 0 {
		t.Error("expected the built-in silence waveform with loop flags")
	}
}

func TestFrequencyClampCutsAtZero(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"C-4 01 ......"},
		{"... .. ......"},
	})
	player.Tick()
	v := &player.voices[0]
	v.frequency = 0
	player.Tick()
	if v.allocated {
		t.Error("expected a zero frequency to cut the voice")
	}
}

func TestPitchPanSeparation(t *testing.T) {
	player, _ := newTestPlayer(t, [][]string{
		{"C-5 01 ......"},
	})
	in := player.Module.Instruments[0]
	in.PitchPanSeparation = 64
	in.PitchPanCenter = 48 // C-4
	player.Start()
	player.Tick()

	v := &player.voices[0]
	if v.finalPanning <= 128 {
		t.Errorf("expected notes above the center to pan right, got %d", v.finalPanning)
	}
}
