package edit

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
	"math"

	"github.com/cwbudde/algo-audioedit/dsp/audio"
	"github.com/cwbudde/algo-audioedit/dsp/filter/tone"
	"github.com/cwbudde/algo-audioedit/dsp/mix"
)

// fallbackDigest stands in for buffers that cannot be digested.
var fallbackDigest = []byte("AUDIO")

// Hasher accumulates operation inputs into a change key.
type Hasher struct {
	h hash.Hash
}

// NewHasher returns an empty Hasher.
func NewHasher() *Hasher {
	return &Hasher{h: sha256.New()}
}

// Buffer adds the content digest of b. Buffers that cannot be digested
// (nil, invalid) hash as a fixed placeholder.
func (k *Hasher) Buffer(b *audio.Buffer) *Hasher {
	d := audio.DigestOr(b, fallbackDigest)
	k.h.Write(d[:])
	return k
}

// Int adds v as 8 little-endian bytes, two's complement.
func (k *Hasher) Int(v int) *Hasher {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(int64(v)))
	k.h.Write(buf[:])
	return k
}

// Float adds the IEEE-754 bits of v, little-endian.
func (k *Hasher) Float(v float64) *Hasher {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
	k.h.Write(buf[:])
	return k
}

// Bool adds one byte, 1 or 0.
func (k *Hasher) Bool(v bool) *Hasher {
	var b byte
	if v {
		b = 1
	}

	k.h.Write([]byte{b})
	return k
}

// Text adds the length-prefixed bytes of s.
func (k *Hasher) Text(s string) *Hasher {
	k.Int(len(s))
	k.h.Write([]byte(s))
	return k
}

// Sum returns the hex key.
func (k *Hasher) Sum() string {
	return hex.EncodeToString(k.h.Sum(nil))
}

// PitchKey identifies the result of Pitch(b, p).
func PitchKey(b *audio.Buffer, p PitchParams) string {
	return NewHasher().Buffer(b).
		Int(p.Steps).Int(p.BinsPerOctave).
		Int(p.NFFT).Int(p.WinLength).Int(p.HopLength).
		Sum()
}

// SpeedKey identifies the result of Speed(b, speed, p).
func SpeedKey(b *audio.Buffer, speed float64, p STFTParams) string {
	return NewHasher().Text("speed").Buffer(b).
		Float(SpeedFactor(speed)).
		Int(p.NFFT).Int(p.WinLength).Int(p.HopLength).
		Sum()
}

// SampleRateKey identifies the result of SampleRate(b, change).
func SampleRateKey(b *audio.Buffer, change float64) string {
	return NewHasher().Text("sample_rate").Buffer(b).Float(change).Sum()
}

// BassTrebleKey identifies the result of BassTreble.
func BassTrebleKey(b *audio.Buffer, kind tone.Kind, gainDB, centralFreq, q float64) string {
	return NewHasher().Text("bass_treble").Buffer(b).
		Text(kind.String()).Float(gainDB).Float(centralFreq).Float(q).
		Sum()
}

// MixKey identifies the result of Mix(tracks, constantVolume).
func MixKey(tracks []mix.Track, constantVolume bool) string {
	k := NewHasher().Text("mix").Bool(constantVolume).Int(len(tracks))
	for _, tr := range tracks {
		k.Buffer(tr.Buffer).Float(tr.Volume).Int(int(tr.Start))
	}

	return k.Sum()
}

// ConcatKey identifies the result of Concat(buffers).
func ConcatKey(buffers []*audio.Buffer) string {
	k := NewHasher().Text("concat").Int(len(buffers))
	for _, b := range buffers {
		k.Buffer(b)
	}

	return k.Sum()
}
