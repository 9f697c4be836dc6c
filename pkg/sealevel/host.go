package sealevel

import "crypto/ed25519"

// Host is the narrow contract the runtime exposes to program code for
// state-changing operations and address derivation. Every call is synchronous
// and either succeeds or fails before returning; there is no partial-rollback
// logic on this side of the boundary, since a propagated error aborts the
// whole transaction and the host undoes any intermediate state.
//
// Operations taking SignerSeeds treat each seed list as the signature of the
// address it derives to (against the invoking program), letting a program
// sign for its derived addresses without a private key.
type Host interface {
	// FindProgramAddress searches for the canonical off-curve address and
	// bump for the given seeds. Returns ErrInvalidSeeds when no bump in
	// range yields a valid address.
	FindProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, uint8, error)

	// CreateProgramAddress derives a single address from seeds that already
	// include a bump, without searching.
	CreateProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error)

	// MinimumBalance returns the smallest balance an account holding space
	// data bytes may carry without being reclaimed.
	MinimumBalance(space uint64) uint64

	// CreateAccount funds a brand-new account at to with lamports, allocates
	// space bytes and assigns owner, debiting from.
	CreateAccount(from, to *AccountInfo, lamports, space uint64, owner ed25519.PublicKey, signers ...SignerSeeds) error

	// Transfer moves lamports between accounts. The host independently
	// re-enforces that from has signed.
	Transfer(from, to *AccountInfo, lamports uint64, signers ...SignerSeeds) error

	// Allocate sets the data length of a system-owned account.
	Allocate(account *AccountInfo, space uint64, signers ...SignerSeeds) error

	// Assign hands ownership of account to owner.
	Assign(account *AccountInfo, owner ed25519.PublicKey, signers ...SignerSeeds) error
}
