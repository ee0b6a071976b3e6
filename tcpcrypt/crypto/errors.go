package crypto

import (
	"errors"
	"fmt"
)

var (
	ErrDecryptionFailed   = errors.New("crypto: decryption failed")
	ErrCipherNotSupported = errors.New("crypto: cipher not supported")
)

// Fault is the panic value for engine misuse. It marks a programming or
// configuration defect, never a condition caused by peer input.
type Fault struct {
	Op     string
	Reason string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("crypto: %s: %s", f.Op, f.Reason)
}

func fault(op, format string, args ...any) {
	panic(&Fault{Op: op, Reason: fmt.Sprintf(format, args...)})
}
