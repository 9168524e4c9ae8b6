package seqplayer

// Check functions. Slides re-compute their command byte against the
// host fine-slide flag and pull shared memories per the track
// compatibility flags before dispatch.

func checkPortaUp(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFinePortaUp
	}
	if *data == 0 && hc.track != nil && hc.track.CompatFlags&TrackCompatOpSlides == 0 {
		// Opposite directions share memory unless the compat flag
		// keeps them apart.
		if hc.portaUp == 0 {
			*data = hc.portaDown
		}
	}
}

func checkPortaDown(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFinePortaDown
	}
	if *data == 0 && hc.track != nil && hc.track.CompatFlags&TrackCompatOpSlides == 0 {
		if hc.portaDown == 0 {
			*data = hc.portaUp
		}
	}
}

func checkTonePorta(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFineTonePorta
	}
	if *data == 0 && hc.track != nil && hc.track.CompatFlags&TrackCompatTonePorta != 0 {
		// Tone portamento shares the plain portamento memory.
		*data = hc.portaUp
	}
}

func checkVolSlideUp(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFineVolSlUp
	}
	if *data == 0 && hc.track != nil {
		if hc.track.CompatFlags&TrackCompatVolumePitch != 0 {
			*data = hc.portaUp
		} else if hc.track.CompatFlags&TrackCompatOpVolumeSlides == 0 && hc.volSlide.up == 0 {
			*data = hc.volSlide.down
		}
	}
}

func checkVolSlideDown(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFineVolSlDown
	}
	if *data == 0 && hc.track != nil {
		if hc.track.CompatFlags&TrackCompatVolumePitch != 0 {
			*data = hc.portaDown
		} else if hc.track.CompatFlags&TrackCompatOpVolumeSlides == 0 && hc.volSlide.down == 0 {
			*data = hc.volSlide.up
		}
	}
}

func checkPanSlideLeft(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFinePanSlLeft
	}
}

func checkPanSlideRight(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFinePanSlRight
	}
}

func checkTrackVolSlUp(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFTrackVolSlUp
	}
}

func checkTrackVolSlDn(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFTrackVolSlDn
	}
}

func checkTrackPanSlLft(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFTrackPanSlLft
	}
}

func checkTrackPanSlRgt(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFTrackPanSlRgt
	}
}

func checkSpeedSlFast(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFSpeedSlFast
	}
}

func checkSpeedSlSlow(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFSpeedSlSlow
	}
}

func checkGVolSlideUp(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFGVolSlideUp
	}
}

func checkGVolSlideDown(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFGVolSlideDn
	}
}

func checkGPanSlLeft(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFGPanSlLeft
	}
}

func checkGPanSlRight(p *Player, hc *hostChannel, cmd *byte, data *uint16, flags *uint16) {
	if hc.flags&chfFineSlides != 0 {
		*cmd = fxFGPanSlRight
	}
}

// Preset helpers for the modulation enables.
func prVibrato(p *Player, hc *hostChannel, data uint16) { hc.flags |= chfVibrato }
func prTremolo(p *Player, hc *hostChannel, data uint16) { hc.flags |= chfTremolo }

// effectsTable is the 128-entry dispatch table keyed by the 7-bit
// effect command. Slots without a function are silently skipped.
var effectsTable [128]effectDesc

// The table is filled in init because efExecuteFx reads it back,
// which a package-level initializer cannot express.
func init() {
	effectsTable = [128]effectDesc{
	fxArpeggio:       {fn: efArpeggio, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskNote},
	fxPortaUp:        {fn: efPortaUp, check: checkPortaUp, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskNote},
	fxPortaDown:      {fn: efPortaDown, check: checkPortaDown, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskNote},
	fxFinePortaUp:    {fn: efFinePortaUp, andMaskCtrl: maskNote},
	fxFinePortaDown:  {fn: efFinePortaDown, andMaskCtrl: maskNote},
	fxPortaUpOnce:    {fn: efPortaUpOnce, andMaskCtrl: maskNote},
	fxPortaDownOnce:  {fn: efPortaDownOnce, andMaskCtrl: maskNote},
	fxFPortaUpOnce:   {fn: efFPortaUpOnce, andMaskCtrl: maskNote},
	fxFPortaDownOnce: {fn: efFPortaDownOnce, andMaskCtrl: maskNote},
	fxTonePorta:      {fn: efTonePorta, preset: prTonePorta, check: checkTonePorta, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskNote},
	fxFineTonePorta:  {fn: efFineTonePorta, preset: prTonePorta, andMaskCtrl: maskNote},
	fxTonePortaOnce:  {fn: efTonePortaOnce, preset: prTonePorta, andMaskCtrl: maskNote},
	fxFTonePortaOnce: {fn: efFTonePortaOnce, preset: prTonePorta, andMaskCtrl: maskNote},
	fxNoteSlide:      {fn: efNoteSlide, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskNote},
	fxVibrato:        {fn: efVibrato, preset: prVibrato, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskNote},
	fxFineVibrato:    {fn: efFineVibrato, preset: prVibrato, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskNote},
	fxVibratoOnce:    {fn: efVibratoOnce, preset: prVibrato, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskNote},
	fxFineVibOnce:    {fn: efFineVibOnce, preset: prVibrato, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskNote},
	fxKeyoff:         {fn: efKeyoff, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskNote},
	fxHoldDelay:      {fn: efHoldDelay, andMaskCtrl: maskNote},
	fxNoteFade:       {fn: efNoteFade, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskNote},
	fxNoteCut:        {fn: efNoteCut, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskNote},
	fxNoteDelay:      {fn: efNoteDelay, preset: prNoteDelay, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskNote},
	fxTremor:         {fn: efTremor, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskVolume},
	fxRetrigNote:     {fn: efRetrigNote, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskNote},
	fxMultiRetrig:    {fn: efMultiRetrig, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskNote},
	fxExtendedCtrl:   {fn: efExtendedCtrl, andMaskCtrl: maskInstr},
	fxInvertLoop:     {fn: efInvertLoop, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskNote},
	fxExecuteFx:      {fn: efExecuteFx, andMaskCtrl: maskNote},
	fxStopFx:         {fn: efStopFx, andMaskCtrl: maskNote},

	fxSetVolume:      {fn: efSetVolume, andMaskCtrl: maskVolume},
	fxVolSlideUp:     {fn: efVolSlideUp, check: checkVolSlideUp, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskVolume},
	fxVolSlideDown:   {fn: efVolSlideDown, check: checkVolSlideDown, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskVolume},
	fxFineVolSlUp:    {fn: efFineVolSlUp, andMaskCtrl: maskVolume},
	fxFineVolSlDown:  {fn: efFineVolSlDown, andMaskCtrl: maskVolume},
	fxVolSlideTo:     {fn: efVolSlideTo, preset: prVolSlideTo, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskVolume},
	fxTremolo:        {fn: efTremolo, preset: prTremolo, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskVolume},
	fxTremoloOnce:    {fn: efTremoloOnce, preset: prTremolo, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskVolume},
	fxSetTrackVol:    {fn: efSetTrackVol, andMaskCtrl: maskTrack},
	fxTrackVolSlUp:   {fn: efTrackVolSlUp, check: checkTrackVolSlUp, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskTrack},
	fxTrackVolSlDown: {fn: efTrackVolSlDown, check: checkTrackVolSlDn, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskTrack},
	fxFTrackVolSlUp:  {fn: efFTrackVolSlUp, andMaskCtrl: maskTrack},
	fxFTrackVolSlDn:  {fn: efFTrackVolSlDn, andMaskCtrl: maskTrack},
	fxTrackVolSlTo:   {fn: efTrackVolSlTo, preset: prTrackVolSlTo, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskTrack},
	fxTrackTremolo:   {fn: efTrackTremolo, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskTrack},
	fxTrackTremOnce:  {fn: efTrackTremOnce, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskTrack},

	fxSetPanning:     {fn: efSetPanning, andMaskCtrl: maskPanning},
	fxPanSlideLeft:   {fn: efPanSlideLeft, check: checkPanSlideLeft, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskPanning},
	fxPanSlideRight:  {fn: efPanSlideRight, check: checkPanSlideRight, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskPanning},
	fxFinePanSlLeft:  {fn: efFinePanSlLeft, andMaskCtrl: maskPanning},
	fxFinePanSlRight: {fn: efFinePanSlRight, andMaskCtrl: maskPanning},
	fxPanSlideTo:     {fn: efPanSlideTo, preset: prPanSlideTo, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskPanning},
	fxPannolo:        {fn: efPannolo, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskPanning},
	fxPannoloOnce:    {fn: efPannoloOnce, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskPanning},
	fxSetTrackPan:    {fn: efSetTrackPan, andMaskCtrl: maskTrack},
	fxTrackPanSlLeft: {fn: efTrackPanSlLeft, check: checkTrackPanSlLft, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskTrack},
	fxTrackPanSlRght: {fn: efTrackPanSlRght, check: checkTrackPanSlRgt, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskTrack},
	fxFTrackPanSlLft: {fn: efFTrackPanSlLft, andMaskCtrl: maskTrack},
	fxFTrackPanSlRgt: {fn: efFTrackPanSlRgt, andMaskCtrl: maskTrack},
	fxTrackPanSlTo:   {fn: efTrackPanSlTo, preset: prTrackPanSlTo, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskTrack},
	fxTrackPannolo:   {fn: efTrackPannolo, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskTrack},
	fxTrackPanOnce:   {fn: efTrackPanOnce, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskTrack},

	fxSetTempo:      {fn: efSetTempo, andMaskCtrl: maskTrack},
	fxSetRelTempo:   {fn: efSetRelTempo, andMaskCtrl: maskTrack},
	fxPatternBreak:  {fn: efPatternBreak, andMaskCtrl: maskTrack},
	fxPosJump:       {fn: efPosJump, andMaskCtrl: maskTrack},
	fxRelPosJump:    {fn: efRelPosJump, andMaskCtrl: maskTrack},
	fxChangePattern: {fn: efChangePattern, andMaskCtrl: maskTrack},
	fxReversePlay:   {fn: efReversePlay, andMaskCtrl: maskTrack},
	fxPatternDelay:  {fn: efPatternDelay, andMaskCtrl: maskTrack},
	fxFinePattDelay: {fn: efFinePattDelay, andMaskCtrl: maskTrack},
	fxPatternLoop:   {fn: efPatternLoop, andMaskCtrl: maskTrack},
	fxGoSub:         {fn: efGoSub, andMaskCtrl: maskTrack},
	fxGoSubReturn:   {fn: efGoSubReturn, andMaskCtrl: maskTrack},
	fxChannelSync:   {fn: efChannelSync, andMaskCtrl: maskTrack},
	fxSetSubSlide:   {fn: efSetSubSlide, andMaskCtrl: maskTrack},

	fxSampleOffHigh: {fn: efSampleOffHigh, andMaskCtrl: maskInstr},
	fxSampleOffLow:  {fn: efSampleOffLow, andMaskCtrl: maskInstr},
	fxSetHold:       {fn: efSetHold, andMaskCtrl: maskInstr},
	fxSetDecay:      {fn: efSetDecay, andMaskCtrl: maskInstr},
	fxSetTranspose:  {fn: efSetTranspose, preset: prSetTranspose, andMaskCtrl: maskInstr},
	fxInstrCtrl:     {fn: efInstrCtrl, andMaskCtrl: maskInstr},
	fxInstrChange:   {fn: efInstrChange, andMaskCtrl: maskInstr},
	fxSynthCtrl:     {fn: efSynthCtrl, andMaskCtrl: maskInstr},
	fxSetSynthVal:   {fn: efSetSynthVal, andMaskCtrl: maskInstr},
	fxEnvCtrl:       {fn: efEnvCtrl, andMaskCtrl: maskInstr},
	fxSetEnvVal:     {fn: efSetEnvVal, andMaskCtrl: maskInstr},
	fxNNACtrl:       {fn: efNNACtrl, andMaskCtrl: maskInstr},
	fxLoopCtrl:      {fn: efLoopCtrl, andMaskCtrl: maskInstr},

	fxSetSpeed:      {fn: efSetSpeed, andMaskCtrl: maskGlobal},
	fxSpeedSlFast:   {fn: efSpeedSlFast, check: checkSpeedSlFast, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskGlobal},
	fxSpeedSlSlow:   {fn: efSpeedSlSlow, check: checkSpeedSlSlow, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskGlobal},
	fxFSpeedSlFast:  {fn: efFSpeedSlFast, andMaskCtrl: maskGlobal},
	fxFSpeedSlSlow:  {fn: efFSpeedSlSlow, andMaskCtrl: maskGlobal},
	fxSpeedSlideTo:  {fn: efSpeedSlideTo, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskGlobal},
	fxSpenolo:       {fn: efSpenolo, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskGlobal},
	fxSpenoloOnce:   {fn: efSpenoloOnce, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskGlobal},
	fxChannelCtrl:   {fn: efChannelCtrl, andMaskCtrl: maskGlobal},
	fxSetGVolume:    {fn: efSetGVolume, andMaskCtrl: maskGlobal},
	fxGVolSlideUp:   {fn: efGVolSlideUp, check: checkGVolSlideUp, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskGlobal},
	fxGVolSlideDown: {fn: efGVolSlideDown, check: checkGVolSlideDown, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskGlobal},
	fxFGVolSlideUp:  {fn: efFGVolSlideUp, andMaskCtrl: maskGlobal},
	fxFGVolSlideDn:  {fn: efFGVolSlideDn, andMaskCtrl: maskGlobal},
	fxGVolSlideTo:   {fn: efGVolSlideTo, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskGlobal},
	fxGTremolo:      {fn: efGTremolo, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskGlobal},
	fxGTremoloOnce:  {fn: efGTremoloOnce, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskGlobal},
	fxSetGPanning:   {fn: efSetGPanning, andMaskCtrl: maskGlobal},
	fxGPanSlLeft:    {fn: efGPanSlLeft, check: checkGPanSlLeft, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskGlobal},
	fxGPanSlRight:   {fn: efGPanSlRight, check: checkGPanSlRight, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskGlobal},
	fxFGPanSlLeft:   {fn: efFGPanSlLeft, andMaskCtrl: maskGlobal},
	fxFGPanSlRight:  {fn: efFGPanSlRight, andMaskCtrl: maskGlobal},
	fxGPanSlideTo:   {fn: efGPanSlideTo, flags: fxWholeRow, stdTick: 1, andMaskCtrl: maskGlobal},
	fxGPannolo:      {fn: efGPannolo, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskGlobal},
	fxGPannoloOnce:  {fn: efGPannoloOnce, flags: fxWholeRow, stdTick: 0, andMaskCtrl: maskGlobal},
	fxUserSync:      {fn: efUserSync, andMaskCtrl: maskGlobal},
	}
}
