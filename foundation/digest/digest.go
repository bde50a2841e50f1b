// Package digest implements the SHA-256 compression algorithm used to
// fingerprint blocks and proof guesses. The output is bit-for-bit identical to
// any other SHA-256 implementation and is rendered as lowercase hex.
package digest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Size is the number of bytes in a digest.
const Size = 32

// chunkSize is the number of bytes processed by one compression round.
const chunkSize = 64

// lengthOffset marks where the 64-bit message length lives in the final chunk.
const lengthOffset = chunkSize - 8

// ErrRead is returned when the byte source fails before reporting the end
// of its data. No digest is produced in that case.
var ErrRead = errors.New("reading digest source")

var initial = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a, 0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

var k = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// =============================================================================

// Sum reads the source until it reports the end of its data and returns the
// hex encoded digest of everything that was read. The way the source splits
// its data across reads has no effect on the result.
func Sum(r io.Reader) (string, error) {
	d := New()
	if _, err := io.Copy(d, r); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRead, err)
	}

	return d.Hex(), nil
}

// SumBytes returns the hex encoded digest of the specified bytes.
func SumBytes(data []byte) string {
	d := New()
	d.Write(data)
	return d.Hex()
}

// SumString returns the hex encoded digest of the specified string.
func SumString(s string) string {
	d := New()
	io.Copy(d, strings.NewReader(s))
	return d.Hex()
}

// =============================================================================

// Digest maintains the running hash state. Data is accepted through Write in
// any amount and is buffered until a full chunk is available for compression.
type Digest struct {
	state  [8]uint32
	chunk  [chunkSize]byte
	filled int
	length uint64
}

// New constructs a digest ready to accept data.
func New() *Digest {
	return &Digest{
		state: initial,
	}
}

// Write implements the io.Writer interface. It never returns an error.
func (d *Digest) Write(p []byte) (int, error) {
	n := len(p)
	d.length += uint64(n)

	for len(p) > 0 {
		c := copy(d.chunk[d.filled:], p)
		d.filled += c
		p = p[c:]

		if d.filled == chunkSize {
			compress(&d.state, &d.chunk)
			d.filled = 0
		}
	}

	return n, nil
}

// Hex pads a copy of the current state and returns the digest of the data
// written so far. The digest can continue to accept writes afterwards.
func (d *Digest) Hex() string {
	sum := d.Sum()

	const hextable = "0123456789abcdef"
	var b strings.Builder
	b.Grow(Size * 2)
	for _, v := range sum {
		b.WriteByte(hextable[v>>4])
		b.WriteByte(hextable[v&0x0f])
	}

	return b.String()
}

// Sum returns the raw bytes of the digest of the data written so far.
func (d *Digest) Sum() [Size]byte {
	state := d.state
	chunk := d.chunk

	// Mark the end of the message.
	i := d.filled
	chunk[i] = 0x80
	i++

	// If the bit length no longer fits in this chunk, pad it out and
	// compress it, then use a fresh zeroed chunk for the length.
	if i > lengthOffset {
		clear(chunk[i:])
		compress(&state, &chunk)
		i = 0
	}
	clear(chunk[i:lengthOffset])

	binary.BigEndian.PutUint64(chunk[lengthOffset:], d.length*8)
	compress(&state, &chunk)

	var out [Size]byte
	for j, v := range state {
		binary.BigEndian.PutUint32(out[j*4:], v)
	}

	return out
}

// =============================================================================

// compress runs the 64 rounds of the compression function over a single
// chunk and folds the result into the running state.
func compress(state *[8]uint32, chunk *[chunkSize]byte) {
	var w [64]uint32
	for i := range 16 {
		w[i] = binary.BigEndian.Uint32(chunk[i*4:])
	}
	for i := 16; i < 64; i++ {
		w[i] = sig1(w[i-2]) + w[i-7] + sig0(w[i-15]) + w[i-16]
	}

	a, b, c, d := state[0], state[1], state[2], state[3]
	e, f, g, h := state[4], state[5], state[6], state[7]

	for i := range 64 {
		t1 := h + ep1(e) + ch(e, f, g) + k[i] + w[i]
		t2 := ep0(a) + maj(a, b, c)
		h = g
		g = f
		f = e
		e = d + t1
		d = c
		c = b
		b = a
		a = t1 + t2
	}

	state[0] += a
	state[1] += b
	state[2] += c
	state[3] += d
	state[4] += e
	state[5] += f
	state[6] += g
	state[7] += h
}

func rotr(x uint32, n uint) uint32 {
	return x>>n | x<<(32-n)
}

func ch(x, y, z uint32) uint32 {
	return (x & y) ^ (^x & z)
}

func maj(x, y, z uint32) uint32 {
	return (x & y) ^ (x & z) ^ (y & z)
}

func ep0(x uint32) uint32 {
	return rotr(x, 2) ^ rotr(x, 13) ^ rotr(x, 22)
}

func ep1(x uint32) uint32 {
	return rotr(x, 6) ^ rotr(x, 11) ^ rotr(x, 25)
}

func sig0(x uint32) uint32 {
	return rotr(x, 7) ^ rotr(x, 18) ^ (x >> 3)
}

func sig1(x uint32) uint32 {
	return rotr(x, 17) ^ rotr(x, 19) ^ (x >> 10)
}
