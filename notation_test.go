package seqplayer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRowNotes(t *testing.T) {
	cases := []struct {
		in     string
		note   int8
		octave uint8
		instr  uint16
	}{
		{"C-4 01 ......", 1, 4, 1},
		{"A#3 02 ......", 11, 3, 2},
		{"B-7 .. ......", 12, 7, 0},
		{"... .. ......", NoteNone, 0, 0},
		{"^^. .. ......", NoteKeyoff, 0, 0},
		{"==. .. ......", NoteOff, 0, 0},
		{"~~. .. ......", NoteFade, 0, 0},
		{"END .. ......", NoteEnd, 0, 0},
	}
	for _, c := range cases {
		row, err := ParseRow(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.note, row.Note, c.in)
		assert.Equal(t, c.octave, row.Octave, c.in)
		assert.Equal(t, c.instr, row.Instrument, c.in)
	}
}

func TestParseRowEffects(t *testing.T) {
	row, err := ParseRow("C-4 01 21FF00 420008")
	require.NoError(t, err)
	require.Len(t, row.Effects, 2)
	assert.Equal(t, byte(0x21), row.Effects[0].Command)
	assert.Equal(t, uint16(0xFF00), row.Effects[0].Data)
	assert.Equal(t, byte(0x42), row.Effects[1].Command)
	assert.Equal(t, uint16(0x0008), row.Effects[1].Data)
}

func TestParseRowErrors(t *testing.T) {
	for _, bad := range []string{"H-4 01 ......", "C-4 zz ......", "C-4 01 12345"} {
		_, err := ParseRow(bad)
		assert.Error(t, err, bad)
	}
}

func TestNoteStringRoundTrip(t *testing.T) {
	for note := int8(1); note <= 12; note++ {
		s := NoteString(note, 4)
		row, err := ParseRow(s + " .. ......")
		require.NoError(t, err, s)
		assert.Equal(t, note, row.Note, s)
		assert.Equal(t, uint8(4), row.Octave, s)
	}
}

func TestSubSongFromText(t *testing.T) {
	ss, err := SubSongFromText([][]string{
		{"C-4 01 ......", "E-4 02 ......"},
		{"... .. ......", "... .. ......"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, ss.Channels)
	require.Len(t, ss.OrderLists, 2)
	require.Len(t, ss.Tracks, 2)
	assert.Len(t, ss.Tracks[0].Rows, 2)
	assert.Equal(t, uint16(1), ss.Tracks[0].Rows[0].Instrument)
	assert.Equal(t, int8(5), ss.Tracks[1].Rows[0].Note)
}
