package seqplayer

import (
	"fmt"
	"strings"
)

// Read-only position reporting for UIs.

// ChannelPosition is one host channel's current pattern location.
type ChannelPosition struct {
	Order int
	Row   int
	Track *Track
	Ended bool
}

// Position reports every host channel's pattern location.
func (p *Player) Position() []ChannelPosition {
	out := make([]ChannelPosition, len(p.hostChannels))
	for i := range p.hostChannels {
		hc := &p.hostChannels[i]
		out[i] = ChannelPosition{
			Order: hc.order,
			Row:   hc.row,
			Track: hc.track,
			Ended: hc.flags&chfSongEnd != 0,
		}
	}
	return out
}

// NoteData is the display form of one row slot.
type NoteData struct {
	Note       string
	Instrument uint16
	Effects    []Effect
}

// NoteDataFor returns the display data of a channel row relative to
// the current position, nil when out of range.
func (p *Player) NoteDataFor(channel, rowOffset int) *NoteData {
	if channel < 0 || channel >= len(p.hostChannels) {
		return nil
	}
	hc := &p.hostChannels[channel]
	row := hc.rowAt(hc.row + rowOffset)
	if row == nil {
		return nil
	}
	return &NoteData{
		Note:       NoteString(row.Note, row.Octave),
		Instrument: row.Instrument,
		Effects:    row.Effects,
	}
}

// RowText renders one channel row slot for terminal display.
func (nd *NoteData) RowText() string {
	if nd == nil {
		return "            "
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %02X", nd.Note, nd.Instrument)
	if len(nd.Effects) > 0 {
		fmt.Fprintf(&sb, " %02X%04X", nd.Effects[0].Command, nd.Effects[0].Data)
	} else {
		sb.WriteString(" ......")
	}
	return sb.String()
}

// SeekTo coarse-seeks every host channel to an order and row without
// rendering the skipped region.
func (p *Player) SeekTo(order, row int) {
	for i := range p.hostChannels {
		hc := &p.hostChannels[i]
		if hc.flags&chfDisabled != 0 {
			continue
		}
		ol := hc.orderList()
		if order >= len(ol.Entries) {
			continue
		}
		if v := p.foregroundVoice(hc); v != nil {
			p.cutVoice(v)
		}
		hc.order = -1
		if !hc.advanceOrder(order) {
			hc.disable()
			continue
		}
		hc.row = row
		if hc.row < int(hc.firstRow) || hc.row > int(hc.maxRow) {
			hc.row = int(hc.firstRow)
		}
		hc.rowPending = true
		hc.tempoCounter = hc.tempo + hc.finePatternDelay - 1
	}
}
