// Package audio synthesizes a simple engine note through PortAudio.
package audio

import (
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/rs/zerolog"
)

const (
	SampleRate = 44100
	BufferSize = 512

	// Cylinders sets how many power strokes a four-stroke engine fires per
	// two revolutions.
	Cylinders = 4

	volumeEpsilon = 1e-9
	masterGain    = 0.25
)

// Volume is the gain for a given rpm: 0.2 at standstill rising linearly to
// full at the redline.
func Volume(rpm, redline float64) float64 {
	frac := math.Min(1, math.Max(0, rpm/(redline+volumeEpsilon)))
	return math.Min(1, 0.2+0.8*frac)
}

// FiringFrequency is the fundamental of the exhaust note in Hz.
func FiringFrequency(rpm float64) float64 {
	return math.Max(0, rpm) / 60 * Cylinders / 2
}

// Synth is an output-only stream whose pitch follows the firing frequency
// and whose gain follows Volume.
type Synth struct {
	Stream *portaudio.Stream
	log    zerolog.Logger

	mu      sync.Mutex
	rpm     float64
	redline float64

	// audio thread only
	phase       float64
	freq        float64
	gain        float64
	filterState [2]float64
	noise       uint32
}

func NewSynth(log zerolog.Logger) *Synth {
	return &Synth{log: log, redline: 1, noise: 0x9e3779b9}
}

// Start initializes PortAudio and opens the default output device.
func (s *Synth) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, s.ProcessAudio)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}
	s.Stream = stream
	s.log.Debug().Int("sample_rate", SampleRate).Int("buffer", BufferSize).Msg("audio stream started")
	return nil
}

func (s *Synth) Stop() {
	if s.Stream != nil {
		if err := s.Stream.Stop(); err != nil {
			s.log.Warn().Err(err).Msg("stop audio stream")
		}
		s.Stream.Close()
		s.Stream = nil
	}
	portaudio.Terminate()
}

// Update sets the engine state the next buffer is rendered from.
func (s *Synth) Update(rpm, redline float64) {
	s.mu.Lock()
	s.rpm, s.redline = rpm, redline
	s.mu.Unlock()
}

// Sawtooth with a little noise through a one-pole low pass is close enough
// to an exhaust note.
func saw(phase float64) float64 {
	return 2*(phase-math.Floor(phase)) - 1
}

// lpf is a one-pole low pass.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

func (s *Synth) nextNoise() float64 {
	s.noise ^= s.noise << 13
	s.noise ^= s.noise >> 17
	s.noise ^= s.noise << 5
	return float64(s.noise)/math.MaxUint32*2 - 1
}

// ProcessAudio is the PortAudio callback. It glides frequency and gain
// toward their targets so key presses do not click.
func (s *Synth) ProcessAudio(out [][]float32) {
	s.mu.Lock()
	rpm, redline := s.rpm, s.redline
	s.mu.Unlock()

	targetFreq := FiringFrequency(rpm)
	targetGain := Volume(rpm, redline) * masterGain
	cutoff := 200 + 8*targetFreq
	dt := 1.0 / SampleRate

	for i := range out[0] {
		s.freq += (targetFreq - s.freq) * 0.002
		s.gain += (targetGain - s.gain) * 0.002
		s.phase += s.freq * dt
		if s.phase >= 1 {
			s.phase -= math.Floor(s.phase)
		}

		raw := 0.7*saw(s.phase) + 0.3*saw(2*s.phase) + 0.15*s.nextNoise()
		s.filterState[0] = lpf(raw, cutoff, dt, s.filterState[0])
		s.filterState[1] = lpf(s.filterState[0], cutoff, dt, s.filterState[1])

		v := float32(math.Max(-1, math.Min(1, s.filterState[1]*s.gain)))
		for ch := range out {
			out[ch][i] = v
		}
	}
}
