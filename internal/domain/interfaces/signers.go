package interfaces

import domaintypes "sessionvault/internal/domain/types"

// Signer is a signing handle bound to one chain, reconstructed from stored
// signer material.
type Signer interface {
	// Address is the canonical address the handle signs for.
	Address() domaintypes.Address
	// Chain is the network the handle is bound to.
	Chain() domaintypes.Chain
	// SignDigest signs a prepared 32-byte digest.
	SignDigest(digest []byte) ([]byte, error)
}

// KeyGenerator produces fresh signer material. It is the external
// collaborator behind AddSigner when no material is supplied.
type KeyGenerator interface {
	GenerateSigner() (domaintypes.SignerData, error)
}

// AddressDeriver maps signer material to the address it controls.
type AddressDeriver interface {
	DeriveAddress(data domaintypes.SignerData) (domaintypes.Address, error)
}

// SignerFactory builds a chain-bound signing handle from stored material.
type SignerFactory interface {
	SignerForChain(chain domaintypes.Chain, data domaintypes.SignerData) (Signer, error)
}
