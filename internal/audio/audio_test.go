package audio

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
)

func TestVolume(t *testing.T) {
	tests := []struct {
		rpm, redline, want float64
	}{
		{0, 7500, 0.2},
		{3750, 7500, 0.6},
		{7500, 7500, 1},
		{9000, 7500, 1},
		{-100, 7500, 0.2},
		{1000, 0, 1},
	}
	for _, tt := range tests {
		if got := Volume(tt.rpm, tt.redline); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("Volume(%v, %v) = %v, want %v", tt.rpm, tt.redline, got, tt.want)
		}
	}
}

func TestFiringFrequency(t *testing.T) {
	if got := FiringFrequency(6000); got != 200 {
		t.Errorf("FiringFrequency(6000) = %v, want 200", got)
	}
	if got := FiringFrequency(-10); got != 0 {
		t.Errorf("FiringFrequency(-10) = %v", got)
	}
}

func rms(buf []float32) float64 {
	sum := 0.0
	for _, v := range buf {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum / float64(len(buf)))
}

func render(s *Synth, buffers int) [][]float32 {
	out := [][]float32{make([]float32, BufferSize), make([]float32, BufferSize)}
	for i := 0; i < buffers; i++ {
		s.ProcessAudio(out)
	}
	return out
}

func TestSynth_RendersBoundedStereo(t *testing.T) {
	s := NewSynth(zerolog.Nop())
	s.Update(5000, 7500)

	out := render(s, 40)
	for ch := range out {
		for i, v := range out[ch] {
			if v < -1 || v > 1 || math.IsNaN(float64(v)) {
				t.Fatalf("ch %d sample %d = %v", ch, i, v)
			}
		}
	}
	if out[0][10] != out[1][10] {
		t.Error("channels differ")
	}
	if rms(out[0]) == 0 {
		t.Error("synth is silent at 5000 rpm")
	}
}

func TestSynth_LouderNearRedline(t *testing.T) {
	idle := NewSynth(zerolog.Nop())
	idle.Update(900, 7500)
	high := NewSynth(zerolog.Nop())
	high.Update(7000, 7500)

	if a, b := rms(render(idle, 100)[0]), rms(render(high, 100)[0]); b <= a {
		t.Errorf("rms at 7000 rpm (%v) not above idle (%v)", b, a)
	}
}
