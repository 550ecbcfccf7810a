package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"

	"sessionvault/internal/domain/interfaces"
	domaintypes "sessionvault/internal/domain/types"
)

// KeyTypeSecp256k1 tags signer material produced by this keyring.
const KeyTypeSecp256k1 = "ecdsa-secp256k1"

// Keyring is the reference key-generation provider, address deriver, and
// signing-client factory. Callers with their own key custody substitute any
// implementation of the collaborator interfaces.
type Keyring struct{}

// NewKeyring returns the reference keyring.
func NewKeyring() *Keyring { return &Keyring{} }

// GenerateSigner returns fresh secp256k1 signer material.
func (k *Keyring) GenerateSigner() (domaintypes.SignerData, error) {
	priv, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return domaintypes.SignerData{}, err
	}
	return domaintypes.SignerData{
		PrivateKey: priv.Serialize(),
		KeyType:    KeyTypeSecp256k1,
	}, nil
}

// DeriveAddress returns the address controlled by the given material.
func (k *Keyring) DeriveAddress(data domaintypes.SignerData) (domaintypes.Address, error) {
	priv, err := parseKey(data)
	if err != nil {
		return "", err
	}
	return pubKeyAddress(priv.PubKey()), nil
}

// SignerForChain reconstructs a chain-bound signing handle from stored
// material.
func (k *Keyring) SignerForChain(chain domaintypes.Chain, data domaintypes.SignerData) (interfaces.Signer, error) {
	priv, err := parseKey(data)
	if err != nil {
		return nil, err
	}
	return &chainSigner{
		chain: chain,
		priv:  priv,
		addr:  pubKeyAddress(priv.PubKey()),
	}, nil
}

// Keccak256 hashes the concatenation of data with legacy Keccak-256.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// pubKeyAddress maps a public key to its address: Keccak-256 of the
// uncompressed key body, last 20 bytes, 0x-hex, canonical.
func pubKeyAddress(pub *secp256k1.PublicKey) domaintypes.Address {
	raw := pub.SerializeUncompressed()
	sum := Keccak256(raw[1:])
	return domaintypes.NewAddress("0x" + hex.EncodeToString(sum[12:]))
}

func parseKey(data domaintypes.SignerData) (*secp256k1.PrivateKey, error) {
	if data.KeyType != "" && data.KeyType != KeyTypeSecp256k1 {
		return nil, fmt.Errorf("unsupported key type %q", data.KeyType)
	}
	if len(data.PrivateKey) != 32 {
		return nil, errors.New("invalid private key length")
	}
	return secp256k1.PrivKeyFromBytes(data.PrivateKey), nil
}

// Compile-time assertions that Keyring satisfies the collaborator contracts.
var (
	_ interfaces.KeyGenerator   = (*Keyring)(nil)
	_ interfaces.AddressDeriver = (*Keyring)(nil)
	_ interfaces.SignerFactory  = (*Keyring)(nil)
)
