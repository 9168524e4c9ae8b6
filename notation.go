package seqplayer

import (
	"fmt"
	"strconv"
	"strings"
)

// Pattern text notation. Rows are written one channel per column:
//
//	A-4 01 2100FF   - play A-4 with instrument 1, effect 0x21 data 0x00FF
//	... .. ......   - empty slot
//	^^. .. ......   - key off
//	==. .. ......   - note off (cut)
//
// Multiple effect columns may follow the instrument. The builder
// exists so binaries and tests can assemble modules without a file
// decoder.

var noteNames = []string{
	"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-",
}

// NoteString renders a note/octave pair, e.g. "A-4".
func NoteString(note int8, octave uint8) string {
	switch note {
	case NoteNone:
		return "..."
	case NoteKeyoff:
		return "^^."
	case NoteOff, NoteKill:
		return "==."
	case NoteFade:
		return "~~."
	case NoteEnd:
		return "END"
	}
	if note < NoteC || note > NoteB {
		return "???"
	}
	return fmt.Sprintf("%s%d", noteNames[note-1], octave)
}

// ParseRow decodes one channel column of pattern text.
func ParseRow(col string) (Row, error) {
	var row Row
	parts := strings.Fields(col)
	if len(parts) == 0 {
		return row, nil
	}

	switch n := parts[0]; n {
	case "...", "":
	case "^^.":
		row.Note = NoteKeyoff
	case "==.":
		row.Note = NoteOff
	case "~~.":
		row.Note = NoteFade
	case "END":
		row.Note = NoteEnd
	default:
		if len(n) != 3 {
			return row, fmt.Errorf("bad note %q", n)
		}
		ni := -1
		for i, nm := range noteNames {
			if nm == n[0:2] {
				ni = i
				break
			}
		}
		if ni < 0 || n[2] < '0' || n[2] > '9' {
			return row, fmt.Errorf("bad note %q", n)
		}
		row.Note = int8(ni + 1)
		row.Octave = n[2] - '0'
	}

	if len(parts) > 1 && parts[1] != ".." {
		in, err := strconv.ParseUint(parts[1], 16, 16)
		if err != nil {
			return row, fmt.Errorf("bad instrument %q", parts[1])
		}
		row.Instrument = uint16(in)
	}

	for _, ef := range parts[2:] {
		if ef == "......" || ef == "" {
			continue
		}
		if len(ef) != 6 {
			return row, fmt.Errorf("bad effect %q", ef)
		}
		cmd, err := strconv.ParseUint(ef[0:2], 16, 8)
		if err != nil {
			return row, fmt.Errorf("bad effect %q", ef)
		}
		data, err := strconv.ParseUint(ef[2:6], 16, 16)
		if err != nil {
			return row, fmt.Errorf("bad effect %q", ef)
		}
		row.Effects = append(row.Effects, Effect{Command: byte(cmd), Data: uint16(data)})
	}
	return row, nil
}

// TrackFromText builds a track from rows of channel columns already
// split per channel.
func TrackFromText(rows []string) (*Track, error) {
	t := &Track{Volume: 255, Panning: -128}
	for i, r := range rows {
		row, err := ParseRow(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		t.Rows = append(t.Rows, row)
	}
	if len(t.Rows) > 0 {
		t.LastRow = uint16(len(t.Rows) - 1)
	}
	return t, nil
}

// SubSongFromText builds a single-order sub-song from a pattern: the
// outer slice is rows, the inner slice one column per channel.
func SubSongFromText(pattern [][]string) (*SubSong, error) {
	if len(pattern) == 0 {
		return nil, fmt.Errorf("empty pattern")
	}
	channels := len(pattern[0])
	ss := &SubSong{
		Channels:     channels,
		GlobalVolume: 255,
		Frames:       6,
		BpMTempo:     4,
		BpMSpeed:     125,
		Flags:        SongLinearFreq,
	}
	for c := 0; c < channels; c++ {
		cols := make([]string, len(pattern))
		for r := range pattern {
			if c < len(pattern[r]) {
				cols[r] = pattern[r][c]
			}
		}
		t, err := TrackFromText(cols)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
		ss.Tracks = append(ss.Tracks, t)
		ss.OrderLists = append(ss.OrderLists, &OrderList{
			Entries: []*OrderEntry{{Track: t}},
			Volume:  255,
			Panning: -128,
		})
	}
	return ss, nil
}
