package audio

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// DigestHeadSamples is the number of leading samples hashed by Digest.
const DigestHeadSamples = 16000

const minDigestHead = 4096

// Digest identifies buffer content for change detection.
type Digest [sha256.Size]byte

// String returns the hex form of d.
func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// ComputeDigest hashes the sample rate, shape, element count and the first
// DigestHeadSamples flattened samples (as little-endian float32) of b.
func ComputeDigest(b *Buffer) (Digest, error) {
	if err := b.Validate(); err != nil {
		return Digest{}, fmt.Errorf("audio: digest: %w", err)
	}

	h := sha256.New()

	takes, channels, length := b.Shape()
	numel := b.NumElements()
	fmt.Fprintf(h, "%d|(%d, %d, %d)|%d", b.SampleRate, takes, channels, length, numel)

	head := min(numel, max(minDigestHead, DigestHeadSamples))

	var word [4]byte

	for _, take := range b.Samples {
		for _, ch := range take {
			for _, v := range ch {
				if head == 0 {
					break
				}

				binary.LittleEndian.PutUint32(word[:], math.Float32bits(float32(v)))
				h.Write(word[:])
				head--
			}
		}
	}

	var d Digest
	copy(d[:], h.Sum(nil))

	return d, nil
}

// DigestOr returns the digest of b, or the sha256 of fallback when b cannot
// be digested.
func DigestOr(b *Buffer, fallback []byte) Digest {
	d, err := ComputeDigest(b)
	if err != nil {
		return sha256.Sum256(fallback)
	}

	return d
}
