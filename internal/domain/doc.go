// Package domain defines the data model and contracts of the session
// credential store: session leaves and their Merkle commitment, signer
// material, the search-parameter shapes, the persistence adapter contract,
// and the storage facade consumed by the session-key module.
//
// Concrete types live in domain/types and contracts in domain/interfaces;
// this package re-exports both so most code imports only domain.
package domain
