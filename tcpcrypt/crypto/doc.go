// Package crypto implements the symmetric cipher engine used to protect
// tcpcrypt connections.
//
// An Engine is created per connection direction, keyed once, and then used
// for three kinds of operation:
//   - Counter-mode encryption of payload bytes addressed by absolute stream
//     position, so data that starts mid-block maps onto the same keystream
//     no matter how it was segmented
//   - AES-GCM authenticated encryption of whole records, with an 8-byte IV
//     taken from the stream position and a detached 16-byte tag
//   - A single-block MAC over short control fields
//
// Misuse (bad key, calls out of order, malformed MAC input) panics with a
// *Fault. A tag mismatch on AEADDecrypt is the only runtime failure and is
// reported as ErrDecryptionFailed.
//
// The MAC reuses the bulk key with no domain separation beyond the cipher
// mode itself.
package crypto
