package crypto

import "encoding/binary"

// Position is an absolute byte offset into one direction's keystream.
// On the wire it travels as an 8-byte big-endian IV.
type Position uint64

// PositionFromIV decodes an 8-byte big-endian IV.
func PositionFromIV(iv []byte) Position {
	if len(iv) != IVSize {
		fault("iv", "length %d, want %d", len(iv), IVSize)
	}
	return Position(binary.BigEndian.Uint64(iv))
}

// IV returns the big-endian encoding of p.
func (p Position) IV() [IVSize]byte {
	var iv [IVSize]byte
	binary.BigEndian.PutUint64(iv[:], uint64(p))
	return iv
}

// Block returns the index of the keystream block containing p.
func (p Position) Block() uint64 { return uint64(p) >> 4 }

// Rem returns how far into its keystream block p lies.
func (p Position) Rem() int { return int(p & (BlockSize - 1)) }

// Add advances p by n bytes.
func (p Position) Add(n int) Position { return p + Position(n) }
