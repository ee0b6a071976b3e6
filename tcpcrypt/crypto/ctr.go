package crypto

import (
	"crypto/cipher"
	"encoding/binary"
)

func (c *aesContext) Encrypt(pos Position, data []byte) int {
	c.ready("encrypt")
	c.xorKeyStream("encrypt", pos, data)
	return len(data)
}

func (c *aesContext) Decrypt(pos Position, data []byte) int {
	c.ready("decrypt")
	c.xorKeyStream("decrypt", pos, data)
	return len(data)
}

// keystreamBlocks returns how many blocks cover rem already-consumed bytes
// followed by n data bytes.
func keystreamBlocks(rem, n int) int {
	return (rem + n + BlockSize - 1) / BlockSize
}

// xorKeyStream XORs data with the keystream starting at pos. The keystream is
// the block cipher applied to successive counter blocks laid out as eight
// zero bytes followed by the big-endian block index. A block index stays
// below 2^60, so the 128-bit increment of cipher.NewCTR never carries into
// the zero half.
func (c *aesContext) xorKeyStream(op string, pos Position, data []byte) {
	n := len(data)
	if n == 0 {
		fault(op, "empty input")
	}

	ctr, rem := pos.Block(), pos.Rem()
	blen := keystreamBlocks(rem, n) * BlockSize
	ks := c.arena(blen)

	var iv [BlockSize]byte
	binary.BigEndian.PutUint64(iv[8:], ctr)
	clear(ks)
	cipher.NewCTR(c.block, iv[:]).XORKeyStream(ks, ks)

	xorWords(data, ks[rem:])

	if end := rem + n; end > blen || blen-end >= BlockSize {
		fault(op, "keystream accounting: used %d of %d bytes", end, blen)
	}
}

// xorWords XORs ks into dst four bytes at a time, then byte-wise for the
// tail. len(ks) must be at least len(dst).
func xorWords(dst, ks []byte) {
	i := 0
	for ; len(dst)-i >= 4; i += 4 {
		w := binary.LittleEndian.Uint32(dst[i:]) ^ binary.LittleEndian.Uint32(ks[i:])
		binary.LittleEndian.PutUint32(dst[i:], w)
	}
	for ; i < len(dst); i++ {
		dst[i] ^= ks[i]
	}
}
