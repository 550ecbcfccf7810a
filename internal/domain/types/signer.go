package types

// SignerData is the raw signing material for one session key plus the
// metadata needed to reconstruct a signing client. The store treats it as
// opaque; only the address it is indexed by is interpreted.
type SignerData struct {
	PrivateKey []byte `json:"privateKey"`
	KeyType    string `json:"keyType,omitempty"`
}

// SignerRecord is the persisted signer state for one account: a mapping
// from canonical address to signer material. Entries are added, never
// removed. Revision works as on SessionRecord.
type SignerRecord struct {
	Signers  map[Address]SignerData `json:"signers"`
	Revision uint64                 `json:"revision,omitempty"`
}

// NewSignerRecord returns the empty default record.
func NewSignerRecord() SignerRecord {
	return SignerRecord{Signers: map[Address]SignerData{}}
}
