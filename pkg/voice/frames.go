package voice

import (
	"encoding/binary"
	"time"
)

// AudioFrame is the unit of audio exchanged with the real-time transport:
// signed 16-bit PCM samples at a declared sample rate and channel count.
type AudioFrame struct {
	Data              []int16
	SampleRate        int
	NumChannels       int
	SamplesPerChannel int
}

// Duration returns the playback time covered by this frame.
func (f AudioFrame) Duration() time.Duration {
	if f.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(f.SamplesPerChannel) / float64(f.SampleRate) * float64(time.Second))
}

// Bytes encodes the frame samples as little-endian PCM.
func (f AudioFrame) Bytes() []byte {
	out := make([]byte, len(f.Data)*2)
	for i, s := range f.Data {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// SamplesFromBytes decodes little-endian 16-bit PCM into samples. A trailing
// odd byte is dropped.
func SamplesFromBytes(pcm []byte) []int16 {
	n := len(pcm) / 2
	samples := make([]int16, n)
	for i := 0; i < n; i++ {
		samples[i] = int16(binary.LittleEndian.Uint16(pcm[i*2:]))
	}
	return samples
}

// FramesFromPCM slices raw little-endian 16-bit PCM into fixed-duration
// frames for paced transport writes. The final frame is zero-padded to the
// full frame size so downstream consumers see a uniform cadence.
func FramesFromPCM(pcm []byte, sampleRate, numChannels, frameMillis int) []AudioFrame {
	if sampleRate <= 0 || numChannels <= 0 || frameMillis <= 0 || len(pcm) == 0 {
		return nil
	}

	samples := SamplesFromBytes(pcm)
	perChannel := sampleRate * frameMillis / 1000
	frameSize := perChannel * numChannels

	var frames []AudioFrame
	for start := 0; start < len(samples); start += frameSize {
		end := start + frameSize
		data := make([]int16, frameSize)
		if end > len(samples) {
			end = len(samples)
		}
		copy(data, samples[start:end])
		frames = append(frames, AudioFrame{
			Data:              data,
			SampleRate:        sampleRate,
			NumChannels:       numChannels,
			SamplesPerChannel: perChannel,
		})
	}
	return frames
}
