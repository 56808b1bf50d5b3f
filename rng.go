package spritefield

import "math"

// HashSeed mixes the UTF-8 bytes of s into a 32-bit seed. The mixing follows
// MurmurHash3's body and finalizer so short seeds that differ in one
// character still land far apart.
func HashSeed(s string) uint32 {
	h := uint32(1779033703) ^ uint32(len(s))
	for i := 0; i < len(s); i++ {
		h = (h ^ uint32(s[i])) * 3432918353
		h = h<<13 | h>>19
	}
	h = (h ^ h>>16) * 2246822507
	h = (h ^ h>>13) * 3266489909
	return h ^ h>>16
}

// Stream is a deterministic Mulberry32 pseudo-random stream. It is not safe
// for concurrent use; every consumer derives its own.
type Stream struct {
	state uint32
}

// NewStream returns a stream seeded with seed.
func NewStream(seed uint32) *Stream {
	return &Stream{state: seed}
}

// Uint32 returns the next raw 32-bit value.
func (r *Stream) Uint32() uint32 {
	r.state += 0x6D2B79F5
	t := r.state
	t = (t ^ t>>15) * (t | 1)
	t ^= t + (t^t>>7)*(t|61)
	return t ^ t>>14
}

// Float64 returns a value in [0, 1).
func (r *Stream) Float64() float64 {
	return float64(r.Uint32()) / 4294967296.0
}

// Range returns a value in [lo, hi).
func (r *Stream) Range(lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// IntN returns a value in [0, n). Returns 0 when n <= 0.
func (r *Stream) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	i := int(r.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Bool returns true with probability p.
func (r *Stream) Bool(p float64) bool {
	return r.Float64() < p
}

// Sign returns -1 or +1 with equal probability.
func (r *Stream) Sign() float64 {
	if r.Float64() < 0.5 {
		return -1
	}
	return 1
}

// StreamPurpose names an independent random stream derived from a seed, so
// changes to how one aspect consumes randomness never perturb another.
type StreamPurpose uint8

const (
	StreamColor StreamPurpose = iota
	StreamPosition
	StreamShape
	StreamBlend
	StreamBackground
	StreamTint
	StreamRandomize
)

var streamSuffixes = [...]string{
	StreamColor:      "-color",
	StreamPosition:   "-position",
	StreamShape:      "-shape",
	StreamBlend:      "-blend",
	StreamBackground: "-background",
	StreamTint:       "-tint",
	StreamRandomize:  "-randomize",
}

// Suffix returns the string appended to the seed before hashing.
func (p StreamPurpose) Suffix() string {
	if int(p) < len(streamSuffixes) {
		return streamSuffixes[p]
	}
	return "-unknown"
}

// DeriveStream returns the stream for seed and purpose.
func DeriveStream(seed string, purpose StreamPurpose) *Stream {
	return NewStream(HashSeed(seed + purpose.Suffix()))
}

// tintStream derives the per-tile tint stream from the seed and the tile's
// normalized position. Positions are mixed through their IEEE bits so the
// result is identical on every platform.
func tintStream(seed string, u, v float64) *Stream {
	h := HashSeed(seed + StreamTint.Suffix())
	for _, bits := range [2]uint64{math.Float64bits(u), math.Float64bits(v)} {
		h ^= uint32(bits) + 0x9E3779B9 + h<<6 + h>>2
		h ^= uint32(bits>>32) + 0x9E3779B9 + h<<6 + h>>2
	}
	return NewStream(h)
}
