package sim

import (
	"encoding/binary"
	"math"

	"github.com/san-kum/revsim/internal/powertrain"
	"github.com/zeebo/xxh3"
)

// Digest fingerprints a telemetry sequence. Two runs with the same seed and
// inputs must produce the same Sum64.
type Digest struct {
	h   *xxh3.Hasher
	buf []byte
}

func NewDigest() *Digest {
	return &Digest{h: xxh3.New(), buf: make([]byte, 0, 128)}
}

func (d *Digest) Add(tel powertrain.Telemetry) {
	d.buf = AppendTelemetry(d.buf[:0], tel)
	d.h.Write(d.buf)
}

func (d *Digest) OnStep(tel powertrain.Telemetry, u Inputs) { d.Add(tel) }

func (d *Digest) Sum64() uint64 { return d.h.Sum64() }

// DigestOf hashes a whole recorded sequence.
func DigestOf(tels []powertrain.Telemetry) uint64 {
	d := NewDigest()
	for _, tel := range tels {
		d.Add(tel)
	}
	return d.Sum64()
}

// AppendTelemetry appends the canonical little-endian encoding of tel.
func AppendTelemetry(b []byte, tel powertrain.Telemetry) []byte {
	for _, f := range []float64{
		tel.Time, tel.RPM, tel.Throttle, tel.Boost, tel.Torque,
		tel.AFR, tel.SpeedKMH, tel.CoolantTemp,
	} {
		b = binary.LittleEndian.AppendUint64(b, math.Float64bits(f))
	}
	b = binary.LittleEndian.AppendUint64(b, uint64(int64(tel.Gear)))

	var flags byte
	for i, set := range []bool{tel.LimpMode, tel.Damaged, tel.Backfire, tel.FuelCut, tel.Brake} {
		if set {
			flags |= 1 << i
		}
	}
	return append(b, flags)
}
