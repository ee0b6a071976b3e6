package conn

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/TheusHen/tcpcrypt/tcpcrypt/crypto"
	"go.uber.org/zap"
)

// Stats counts the traffic handled by a Direction.
type Stats struct {
	Bytes   uint64
	Records uint64
	Dropped uint64
}

// Direction is one half of a connection. Its position is owned by a single
// goroutine; Stats may be read from anywhere and Close may run concurrently.
type Direction struct {
	name string
	pos  crypto.Position
	log  *zap.Logger

	// mu guards engine against Destroy while an operation is in flight.
	mu     sync.RWMutex
	engine crypto.Engine
	closed bool

	bytes   atomic.Uint64
	records atomic.Uint64
	dropped atomic.Uint64
}

func newDirection(name string, v crypto.Variant, key []byte, log *zap.Logger) (*Direction, error) {
	e, err := crypto.New(v)
	if err != nil {
		return nil, err
	}
	e.SetKey(key)
	return &Direction{
		name:   name,
		engine: e,
		log:    log.With(zap.String("dir", name)),
	}, nil
}

// Position returns the stream position the next Encrypt or Seal will use.
func (d *Direction) Position() crypto.Position { return d.pos }

// SetPosition moves the stream position, typically to the offset derived
// from an initial sequence number.
func (d *Direction) SetPosition(p crypto.Position) { d.pos = p }

// Encrypt encrypts data at the current position and advances past it.
func (d *Direction) Encrypt(data []byte) (crypto.Position, int) {
	pos := d.pos
	n := d.EncryptAt(pos, data)
	d.pos = pos.Add(n)
	return pos, n
}

// EncryptAt encrypts data at pos without moving the position. Used for
// retransmitted or resegmented data.
func (d *Direction) EncryptAt(pos crypto.Position, data []byte) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := d.engine.Encrypt(pos, data)
	d.bytes.Add(uint64(n))
	return n
}

// DecryptAt decrypts data received at pos.
func (d *Direction) DecryptAt(pos crypto.Position, data []byte) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	n := d.engine.Decrypt(pos, data)
	d.bytes.Add(uint64(n))
	return n
}

// Seal encrypts a record at the current position, writes its tag, and
// advances past it.
func (d *Direction) Seal(aad, data, tag []byte) crypto.Position {
	d.mu.RLock()
	defer d.mu.RUnlock()
	pos := d.pos
	n := d.engine.AEADEncrypt(pos, aad, data, tag)
	d.pos = pos.Add(n)
	d.bytes.Add(uint64(n))
	d.records.Add(1)
	return pos
}

// Open authenticates and decrypts a record sealed at pos. A record that
// fails verification is counted as dropped and left unmodified.
func (d *Direction) Open(pos crypto.Position, aad, data, tag []byte) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}
	n, err := d.engine.AEADDecrypt(pos, aad, data, tag)
	if err != nil {
		d.dropped.Add(1)
		d.log.Debug("dropping record",
			zap.Uint64("pos", uint64(pos)),
			zap.Int("aad_len", len(aad)),
			zap.Int("len", len(data)),
			zap.Error(err),
		)
		return fmt.Errorf("conn: record at %d: %w", pos, err)
	}
	d.bytes.Add(uint64(n))
	d.records.Add(1)
	return nil
}

// MAC authenticates a control field of at most one block.
func (d *Direction) MAC(field []byte) [crypto.MACSize]byte {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out [crypto.MACSize]byte
	d.engine.MAC(out[:], field)
	return out
}

// destroy wipes the engine once no operation holds it.
func (d *Direction) destroy() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.engine.Destroy()
}

// Stats returns a snapshot of the direction's counters.
func (d *Direction) Stats() Stats {
	return Stats{
		Bytes:   d.bytes.Load(),
		Records: d.records.Load(),
		Dropped: d.dropped.Load(),
	}
}
