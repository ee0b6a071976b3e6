package crypto

// AEADEncrypt seals data in place with AES-GCM. The IV is the big-endian
// stream position.
func (c *aesContext) AEADEncrypt(pos Position, aad, data, tag []byte) int {
	c.ready("aead encrypt")
	if len(tag) != TagSize {
		fault("aead encrypt", "tag length %d, want %d", len(tag), TagSize)
	}

	iv := pos.IV()
	sealed := c.aead.Seal(c.arena(len(data) + TagSize)[:0], iv[:], data, aad)
	if len(sealed) != len(data)+TagSize {
		fault("aead encrypt", "sealed %d bytes for a %d byte record", len(sealed), len(data))
	}

	copy(data, sealed[:len(data)])
	copy(tag, sealed[len(data):])
	return len(data)
}

// AEADDecrypt opens data in place. A forged or corrupted record yields
// ErrDecryptionFailed; the caller drops it.
func (c *aesContext) AEADDecrypt(pos Position, aad, data, tag []byte) (int, error) {
	c.ready("aead decrypt")
	if len(tag) != TagSize {
		fault("aead decrypt", "tag length %d, want %d", len(tag), TagSize)
	}

	// GCM wants ciphertext || tag in one buffer.
	buf := c.arena(len(data) + TagSize)
	copy(buf, data)
	copy(buf[len(data):], tag)

	iv := pos.IV()
	plaintext, err := c.aead.Open(buf[:0], iv[:], buf, aad)
	if err != nil {
		return 0, ErrDecryptionFailed
	}
	copy(data, plaintext)
	return len(data), nil
}
