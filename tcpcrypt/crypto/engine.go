package crypto

import "crypto/cipher"

const (
	BlockSize = 16
	IVSize    = 8
	TagSize   = 16
	MACSize   = BlockSize

	// MaxKeySize is the key storage capacity of a context. Keys longer than
	// the variant's key size are accepted up to this bound; only the leading
	// KeySize bytes key the cipher.
	MaxKeySize = 1024
)

// Engine is the cipher capability set for one connection direction.
// It is not safe for concurrent use; distinct engines are independent.
type Engine interface {
	Variant() Variant

	// SetKey installs the key. It must be called exactly once, before any
	// other operation.
	SetKey(key []byte)

	// Encrypt and Decrypt apply the keystream at pos to data in place and
	// return len(data). data must not be empty.
	Encrypt(pos Position, data []byte) int
	Decrypt(pos Position, data []byte) int

	// MAC authenticates a single segment of at most BlockSize bytes and
	// writes MACSize bytes to out.
	MAC(out []byte, segments ...[]byte) int

	// AEADEncrypt encrypts data in place, authenticating aad as well, and
	// writes the TagSize byte tag to tag.
	AEADEncrypt(pos Position, aad, data, tag []byte) int

	// AEADDecrypt verifies tag over aad and data and decrypts data in place.
	// On ErrDecryptionFailed data is left as it was.
	AEADDecrypt(pos Position, aad, data, tag []byte) (int, error)

	// Destroy wipes key material. The engine must not be used afterwards.
	Destroy()
}

type contextState uint8

const (
	stateNew contextState = iota
	stateKeyed
	stateDestroyed
)

// aesContext is the cipher context behind the AES-GCM variants.
type aesContext struct {
	variant  Variant
	newBlock func(key []byte) (cipher.Block, error)

	key    [MaxKeySize]byte
	keyLen int

	block cipher.Block
	aead  cipher.AEAD

	// scratch holds keystream blocks and sealed records between calls.
	scratch []byte
	state   contextState
}

var _ Engine = (*aesContext)(nil)

// New creates an unkeyed engine for v.
func New(v Variant) (Engine, error) {
	info, ok := variantList[v]
	if !ok {
		return nil, ErrCipherNotSupported
	}
	return newContext(v, info.KeySize, info.NewBlock), nil
}

func newContext(v Variant, keySize int, newBlock func(key []byte) (cipher.Block, error)) *aesContext {
	// Probe the primitive with a zero key so an unusable IV length shows up
	// here and not on the first packet.
	blk, err := newBlock(make([]byte, keySize))
	if err != nil {
		fault("new", "%s: %v", v, err)
	}
	if _, err := cipher.NewGCMWithNonceSize(blk, IVSize); err != nil {
		fault("new", "%s: iv length %d rejected: %v", v, IVSize, err)
	}
	return &aesContext{variant: v, newBlock: newBlock}
}

func (c *aesContext) Variant() Variant { return c.variant }

func (c *aesContext) SetKey(key []byte) {
	switch c.state {
	case stateKeyed:
		fault("set key", "key already set")
	case stateDestroyed:
		fault("set key", "context destroyed")
	}
	if len(key) > MaxKeySize {
		fault("set key", "key length %d exceeds capacity %d", len(key), MaxKeySize)
	}
	ks := c.variant.KeySize()
	if len(key) < ks {
		fault("set key", "key length %d, %s needs %d", len(key), c.variant, ks)
	}

	copy(c.key[:], key)
	c.keyLen = len(key)

	blk, err := c.newBlock(c.key[:ks])
	if err != nil {
		fault("set key", "%v", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(blk, IVSize)
	if err != nil {
		fault("set key", "%v", err)
	}
	c.block = blk
	c.aead = aead
	c.state = stateKeyed
}

func (c *aesContext) Destroy() {
	if c.state == stateDestroyed {
		return
	}
	clear(c.key[:])
	clear(c.scratch[:cap(c.scratch)])
	c.keyLen = 0
	c.scratch = nil
	c.block = nil
	c.aead = nil
	c.state = stateDestroyed
}

// ready panics unless the context has a key and has not been destroyed.
func (c *aesContext) ready(op string) {
	switch c.state {
	case stateNew:
		fault(op, "key not set")
	case stateDestroyed:
		fault(op, "context destroyed")
	}
}

// arena returns n bytes of scratch space, growing the backing array if needed.
func (c *aesContext) arena(n int) []byte {
	if cap(c.scratch) < n {
		clear(c.scratch[:cap(c.scratch)])
		c.scratch = make([]byte, n)
	}
	return c.scratch[:n]
}
