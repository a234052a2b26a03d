package signal

// AmplitudeModulator scales the carrier by the information signal, shifted
// from [-1,1] into an envelope of [0,1].
type AmplitudeModulator struct {
  Carrier Signal
  Information Signal
}

func (am AmplitudeModulator) Sample(totalIndex uint32) float64 {
  envelope := (am.Information.Sample(totalIndex) + 1.0) / 2.0
  return envelope * am.Carrier.Sample(totalIndex)
}
