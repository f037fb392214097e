package mixer

// Weights are the integer weights of the CD and digitized streams in a
// mix. The weighted sum is divided by CD+Digi, so a full-scale input on
// both sides stays at full scale.
type Weights struct {
	CD   int
	Digi int
}

// DefaultWeights favour the CD stream three to one.
var DefaultWeights = Weights{CD: 24, Digi: 8}

// Mix combines a CD sample and a digitized sample with the default
// weights. cdvol scales the CD sample in 1/256 steps, 0 to 255.
func Mix(a, b int16, cdvol int) int16 {
	return DefaultWeights.Mix(a, b, cdvol)
}

// Mix combines a CD sample and a digitized sample. The result is
// truncated toward zero and wraps on overflow; it is not clamped.
func (w Weights) Mix(a, b int16, cdvol int) int16 {
	scaled := int(a) * cdvol / 256
	mixed := scaled*w.CD + int(b)*w.Digi
	return int16(mixed / (w.CD + w.Digi))
}

// MixInto mixes cd and digi sample by sample into out. All three must
// have the same length.
func (w Weights) MixInto(out, cd, digi []int16, cdvol int) {
	for i := range out {
		out[i] = w.Mix(cd[i], digi[i], cdvol)
	}
}
