package voice

import "math"

// maxPCMAmplitude is the largest representable magnitude of 16-bit audio.
const maxPCMAmplitude = 32768.0

// DefaultSilenceThreshold is the normalized RMS level below which a block is
// classified as silence.
const DefaultSilenceThreshold = 0.01

// Detector is an energy-based voice activity detector. Classification is a
// pure function of the current block; no state is retained between calls.
type Detector struct {
	threshold float64
}

// NewDetector returns a detector using the given normalized RMS threshold.
// A non-positive threshold falls back to DefaultSilenceThreshold.
func NewDetector(threshold float64) *Detector {
	if threshold <= 0 {
		threshold = DefaultSilenceThreshold
	}
	return &Detector{threshold: threshold}
}

// IsSilence reports whether the block of 16-bit samples is silence.
// An empty block is always silence.
func (d *Detector) IsSilence(samples []int16) bool {
	if len(samples) == 0 {
		return true
	}

	var sum float64
	for _, s := range samples {
		f := float64(s)
		sum += f * f
	}
	rms := math.Sqrt(sum / float64(len(samples)))

	return rms/maxPCMAmplitude < d.threshold
}

// IsSpeech is the complement of IsSilence.
func (d *Detector) IsSpeech(samples []int16) bool {
	return !d.IsSilence(samples)
}
