package crypto

// MAC encrypts the zero-padded segment as a single block. There is no
// chaining, so exactly one segment of at most one block is accepted.
func (c *aesContext) MAC(out []byte, segments ...[]byte) int {
	c.ready("mac")
	if len(segments) != 1 {
		fault("mac", "%d segments, want 1", len(segments))
	}
	seg := segments[0]
	if len(seg) > BlockSize {
		fault("mac", "segment length %d exceeds block size", len(seg))
	}
	if len(out) < MACSize {
		fault("mac", "output length %d, want %d", len(out), MACSize)
	}

	var block [BlockSize]byte
	copy(block[:], seg)
	c.block.Encrypt(out[:MACSize], block[:])
	return MACSize
}
