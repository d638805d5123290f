package pipeline

import (
	"crypto/rand"
	"encoding/binary"
	"sync"
	"time"
)

// Job IDs are ULIDs: 26-character Crockford Base32 strings with a leading
// millisecond timestamp, so IDs sort by submission time. Generated locally
// to avoid an external dependency for one identifier.

var (
	ulidMu  sync.Mutex
	lastTS  uint64
	lastSeq uint16
)

const crockford = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// NewJobID returns a fresh ULID.
func NewJobID() string {
	ulidMu.Lock()
	defer ulidMu.Unlock()

	ts := uint64(time.Now().UnixMilli())
	if ts == lastTS {
		lastSeq++
	} else {
		lastTS = ts
		lastSeq = 0
	}

	var b [16]byte
	// Timestamp in first 6 bytes (big-endian 48-bit).
	b[0] = byte(ts >> 40)
	b[1] = byte(ts >> 32)
	b[2] = byte(ts >> 24)
	b[3] = byte(ts >> 16)
	b[4] = byte(ts >> 8)
	b[5] = byte(ts)
	// Random in remaining 10 bytes.
	rand.Read(b[6:])
	// Embed sequence in bytes 6-7 to ensure uniqueness within same ms.
	binary.BigEndian.PutUint16(b[6:8], lastSeq)

	// Crockford Base32: 128 bits packed into 26 characters, 5 bits each,
	// reading from the most significant bit.
	var out [26]byte
	bits := uint(130) // Pad to a multiple of 5 (two leading zero bits).
	for i := range out {
		bits -= 5
		var chunk byte
		for j := uint(0); j < 5; j++ {
			bit := bits + 4 - j
			if bit < 128 {
				byteIdx := 15 - bit/8
				if b[byteIdx]>>(bit%8)&1 == 1 {
					chunk |= 1 << (4 - j)
				}
			}
		}
		out[i] = crockford[chunk]
	}
	return string(out[:])
}
