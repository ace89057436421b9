// Package relay is a sealed clipboard over QUIC.
//
// A client copies content by sealing it with a shared secretbox key and
// signing the sealed bytes with Ed25519. The server admits a stream only
// after a BLAKE2b pre-shared-key handshake, keeps the latest signed content
// per allowed signer and refuses nonces it has already seen. Pasting returns
// the signed content, which the client verifies and opens.
package relay
