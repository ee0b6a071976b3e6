// Package conn holds the symmetric cipher state of one tcpcrypt connection:
// an engine per direction, each with its own stream position.
package conn

import (
	"errors"
	"sync"

	"github.com/TheusHen/tcpcrypt/tcpcrypt/crypto"
	"go.uber.org/zap"
)

var (
	ErrClosed  = errors.New("conn: closed")
	ErrKeySize = errors.New("conn: key size error")
)

// Options configures a Conn. The zero value selects AES-128-GCM and
// discards logs.
type Options struct {
	Variant crypto.Variant
	Logger  *zap.Logger
}

// Keys are the already-derived keys for each direction.
type Keys struct {
	Send []byte
	Recv []byte
}

// Conn pairs the send and receive directions of a connection.
type Conn struct {
	mu     sync.Mutex
	closed bool
	send   *Direction
	recv   *Direction
	log    *zap.Logger
}

// New creates and keys both directions.
func New(keys Keys, opts Options) (*Conn, error) {
	v := opts.Variant
	if v == 0 {
		v = crypto.AES128GCM
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.Stringer("cipher", v))

	if v.KeySize() == 0 {
		return nil, crypto.ErrCipherNotSupported
	}
	if len(keys.Send) != v.KeySize() || len(keys.Recv) != v.KeySize() {
		return nil, ErrKeySize
	}

	send, err := newDirection("send", v, keys.Send, log)
	if err != nil {
		return nil, err
	}
	recv, err := newDirection("recv", v, keys.Recv, log)
	if err != nil {
		send.engine.Destroy()
		return nil, err
	}

	log.Debug("connection keyed")
	return &Conn{send: send, recv: recv, log: log}, nil
}

// Send returns the outbound direction.
func (c *Conn) Send() *Direction { return c.send }

// Recv returns the inbound direction.
func (c *Conn) Recv() *Direction { return c.recv }

// Close wipes both engines. Further use of a Direction other than Open
// and Stats panics.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	for _, d := range []*Direction{c.send, c.recv} {
		d.destroy()
	}

	sent, recvd := c.send.Stats(), c.recv.Stats()
	c.log.Debug("connection keys destroyed",
		zap.Uint64("sent_bytes", sent.Bytes),
		zap.Uint64("recv_bytes", recvd.Bytes),
		zap.Uint64("dropped", recvd.Dropped),
	)
	return nil
}
