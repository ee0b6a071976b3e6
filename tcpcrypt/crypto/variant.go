package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"sort"
	"strings"
)

// Variant selects the block cipher and key length of an Engine.
type Variant uint8

const (
	AES128GCM Variant = iota + 1
	AES256GCM
)

// List of variants: name, key size in bytes and block constructor
var variantList = map[Variant]struct {
	Name     string
	KeySize  int
	NewBlock func(key []byte) (cipher.Block, error)
}{
	AES128GCM: {"aes-128-gcm", 16, aes.NewCipher},
	AES256GCM: {"aes-256-gcm", 32, aes.NewCipher},
}

// ParseVariant looks up a variant by name, ignoring case.
func ParseVariant(name string) (Variant, error) {
	name = strings.ToLower(name)
	for v, info := range variantList {
		if info.Name == name {
			return v, nil
		}
	}
	return 0, ErrCipherNotSupported
}

// Variants returns the names of all supported variants sorted alphabetically.
func Variants() []string {
	var l []string
	for _, info := range variantList {
		l = append(l, info.Name)
	}
	sort.Strings(l)
	return l
}

func (v Variant) String() string {
	if info, ok := variantList[v]; ok {
		return info.Name
	}
	return "unknown"
}

// KeySize returns the cipher key length in bytes, or 0 for an unknown variant.
func (v Variant) KeySize() int {
	return variantList[v].KeySize
}
