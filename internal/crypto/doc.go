// Package crypto holds the reference implementations of the store's
// external collaborators plus the at-rest envelope.
//
// # Contents
//
//   - Keyring: secp256k1 key generation, Keccak-256 address derivation, and
//     construction of chain-bound signing handles
//   - Seal/Open: passphrase envelope (Argon2id KEK, ChaCha20-Poly1305) used
//     by the file adapter to encrypt signer records at rest
//
// # Notes
//
// Nothing here is consumed by the store facade directly; it reaches these
// only through the domain collaborator interfaces, so alternative key
// custody can be wired in without touching the facade. Derived KEKs are
// wiped after use.
package crypto
