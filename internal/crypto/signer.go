package crypto

import (
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"sessionvault/internal/domain/interfaces"
	domaintypes "sessionvault/internal/domain/types"
)

// chainSigner signs prepared digests with a secp256k1 key for one chain.
type chainSigner struct {
	chain domaintypes.Chain
	priv  *secp256k1.PrivateKey
	addr  domaintypes.Address
}

// Address returns the canonical address the handle signs for.
func (s *chainSigner) Address() domaintypes.Address { return s.addr }

// Chain returns the network the handle is bound to.
func (s *chainSigner) Chain() domaintypes.Chain { return s.chain }

// SignDigest signs a 32-byte digest and returns a 65-byte r||s||v
// signature with the recovery id in the final byte.
func (s *chainSigner) SignDigest(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, errors.New("digest must be 32 bytes")
	}
	compact := ecdsa.SignCompact(s.priv, digest, false)
	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0]
	return sig, nil
}

// Compile-time assertion that chainSigner implements interfaces.Signer.
var _ interfaces.Signer = (*chainSigner)(nil)
