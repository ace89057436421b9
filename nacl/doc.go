// Package nacl exposes the TweetNaCl primitive set to Go programs.
//
// Each primitive family lives in its own subpackage (box, secretbox, sign, scalarmult,
// onetimeauth, stream, hash, verify) and keeps NaCl's names, sizes and composition rules.
// None of the algorithms are implemented here: they are provided by golang.org/x/crypto
// and the standard library, which are audited, constant-time implementations.
//
// The selftest and speed subpackages back the `naclbox test` and `naclbox speed` commands.
package nacl
