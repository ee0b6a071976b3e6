// Package tcpcrypt provides the symmetric half of a transparent TCP
// encryption layer.
//
// Key exchange, suite negotiation and packet rewriting happen elsewhere;
// this tree only consumes already-derived keys and stream positions:
//   - crypto: the per-direction cipher engine (counter mode, AES-GCM, MAC)
//   - conn: the pair of engines backing one connection
package tcpcrypt
