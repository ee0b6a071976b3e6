package crypto

import (
	"bytes"
	"crypto/cipher"
	"errors"
	"strings"
	"sync"
	"testing"
)

func newKeyedEngine(t testing.TB, v Variant, key []byte) Engine {
	t.Helper()
	e, err := New(v)
	if err != nil {
		t.Fatalf("New(%s): %v", v, err)
	}
	e.SetKey(key)
	return e
}

func testKey(n int, seed byte) []byte {
	key := make([]byte, n)
	for i := range key {
		key[i] = seed + byte(i)
	}
	return key
}

// expectFault runs fn and returns the *Fault it panics with.
func expectFault(t *testing.T, fn func()) (f *Fault) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic")
		}
		var ok bool
		if f, ok = r.(*Fault); !ok {
			t.Fatalf("panic value %T(%v), want *Fault", r, r)
		}
	}()
	fn()
	return nil
}

func TestParseVariant(t *testing.T) {
	cases := map[string]Variant{
		"aes-128-gcm": AES128GCM,
		"AES-256-GCM": AES256GCM,
	}
	for name, want := range cases {
		got, err := ParseVariant(name)
		if err != nil {
			t.Fatalf("ParseVariant(%q): %v", name, err)
		}
		if got != want {
			t.Fatalf("ParseVariant(%q) = %s, want %s", name, got, want)
		}
	}
	if _, err := ParseVariant("rc4"); !errors.Is(err, ErrCipherNotSupported) {
		t.Fatalf("expected ErrCipherNotSupported, got %v", err)
	}
}

func TestVariants(t *testing.T) {
	names := Variants()
	if len(names) != 2 || names[0] != "aes-128-gcm" || names[1] != "aes-256-gcm" {
		t.Fatalf("unexpected variant list %v", names)
	}
	if AES128GCM.KeySize() != 16 || AES256GCM.KeySize() != 32 {
		t.Fatalf("unexpected key sizes")
	}
	if Variant(99).String() != "unknown" || Variant(99).KeySize() != 0 {
		t.Fatalf("unknown variant should have no name or key size")
	}
}

func TestNewUnknownVariant(t *testing.T) {
	if _, err := New(Variant(0)); !errors.Is(err, ErrCipherNotSupported) {
		t.Fatalf("expected ErrCipherNotSupported, got %v", err)
	}
}

func TestSetKeyOversized(t *testing.T) {
	e, _ := New(AES128GCM)
	f := expectFault(t, func() { e.SetKey(make([]byte, MaxKeySize+1)) })
	if f.Op != "set key" {
		t.Fatalf("unexpected fault op %q", f.Op)
	}
}

func TestSetKeyTooShort(t *testing.T) {
	e, _ := New(AES256GCM)
	expectFault(t, func() { e.SetKey(make([]byte, 16)) })
}

func TestSetKeyTwice(t *testing.T) {
	e := newKeyedEngine(t, AES128GCM, testKey(16, 0))
	expectFault(t, func() { e.SetKey(testKey(16, 1)) })
}

func TestSetKeyUsesLeadingBytes(t *testing.T) {
	long := testKey(MaxKeySize, 7)
	a := newKeyedEngine(t, AES128GCM, long)
	b := newKeyedEngine(t, AES128GCM, long[:16])

	x := bytes.Repeat([]byte{0x5a}, 40)
	y := bytes.Clone(x)
	a.Encrypt(3, x)
	b.Encrypt(3, y)
	if !bytes.Equal(x, y) {
		t.Fatalf("key beyond KeySize bytes changed the keystream")
	}
}

func TestUseBeforeSetKey(t *testing.T) {
	e, _ := New(AES128GCM)
	tag := make([]byte, TagSize)
	ops := map[string]func(){
		"encrypt":      func() { e.Encrypt(0, []byte{1}) },
		"decrypt":      func() { e.Decrypt(0, []byte{1}) },
		"mac":          func() { e.MAC(make([]byte, MACSize), []byte{1}) },
		"aead encrypt": func() { e.AEADEncrypt(0, nil, []byte{1}, tag) },
		"aead decrypt": func() { _, _ = e.AEADDecrypt(0, nil, []byte{1}, tag) },
	}
	for op, fn := range ops {
		f := expectFault(t, fn)
		if f.Op != op {
			t.Fatalf("fault op %q, want %q", f.Op, op)
		}
	}
}

func TestDestroy(t *testing.T) {
	e := newKeyedEngine(t, AES256GCM, testKey(32, 0))
	e.Encrypt(0, make([]byte, 100))
	e.Destroy()
	e.Destroy()

	ctx := e.(*aesContext)
	for _, b := range ctx.key {
		if b != 0 {
			t.Fatalf("key storage not wiped")
		}
	}
	if ctx.block != nil || ctx.aead != nil || ctx.scratch != nil {
		t.Fatalf("primitive state not released")
	}

	expectFault(t, func() { e.Encrypt(0, []byte{1}) })
	expectFault(t, func() { e.SetKey(testKey(32, 0)) })
}

func TestFaultError(t *testing.T) {
	f := &Fault{Op: "mac", Reason: "2 segments, want 1"}
	if f.Error() != "crypto: mac: 2 segments, want 1" {
		t.Fatalf("unexpected message %q", f.Error())
	}
}

func TestIndependentEnginesConcurrently(t *testing.T) {
	const workers = 8
	msg := bytes.Repeat([]byte("tcpcrypt"), 64)

	var wg sync.WaitGroup
	errs := make(chan string, workers)
	for w := 0; w < workers; w++ {
		enc := newKeyedEngine(t, AES128GCM, testKey(16, byte(w)))
		dec := newKeyedEngine(t, AES128GCM, testKey(16, byte(w)))
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer enc.Destroy()
			defer dec.Destroy()
			for i := 0; i < 200; i++ {
				pos := Position(i * 37)
				buf := bytes.Clone(msg)
				enc.Encrypt(pos, buf)
				dec.Decrypt(pos, buf)
				if !bytes.Equal(buf, msg) {
					errs <- "round trip mismatch"
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatalf("%s", e)
	}
}

func TestPosition(t *testing.T) {
	p := Position(0x0102030405060718)
	iv := p.IV()
	if !bytes.Equal(iv[:], []byte{1, 2, 3, 4, 5, 6, 7, 0x18}) {
		t.Fatalf("IV is not big-endian: %x", iv)
	}
	if PositionFromIV(iv[:]) != p {
		t.Fatalf("PositionFromIV did not invert IV")
	}
	if p.Rem() != 8 || p.Block() != 0x0102030405060718>>4 {
		t.Fatalf("unexpected block/rem decomposition")
	}
	if p.Add(8).Rem() != 0 {
		t.Fatalf("Add did not reach the next block boundary")
	}
	expectFault(t, func() { PositionFromIV(make([]byte, 4)) })
}

// narrowBlock is a 64-bit block cipher, which GCM refuses.
type narrowBlock struct{}

func (narrowBlock) BlockSize() int          { return 8 }
func (narrowBlock) Encrypt(dst, src []byte) { copy(dst[:8], src[:8]) }
func (narrowBlock) Decrypt(dst, src []byte) { copy(dst[:8], src[:8]) }

func TestNewRejectedIVLength(t *testing.T) {
	newBlock := func([]byte) (cipher.Block, error) { return narrowBlock{}, nil }
	f := expectFault(t, func() { newContext(AES128GCM, 16, newBlock) })
	if f.Op != "new" || !strings.Contains(f.Reason, "iv length 8 rejected") {
		t.Fatalf("unexpected fault %v", f)
	}
}

func TestArenaWipedOnGrowth(t *testing.T) {
	e := newKeyedEngine(t, AES128GCM, testKey(16, 0))
	ctx := e.(*aesContext)

	e.Encrypt(0, make([]byte, 32))
	old := ctx.scratch[:cap(ctx.scratch)]
	if bytes.Equal(old, make([]byte, len(old))) {
		t.Fatalf("scratch holds no keystream before growth")
	}

	e.Encrypt(0, make([]byte, 500))
	for i, b := range old {
		if b != 0 {
			t.Fatalf("old scratch byte %d not wiped after growth", i)
		}
	}
}
