package system

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-program-runtime/pkg/sealevel"
)

// MaxPermittedDataLength is the largest data buffer the system program will
// allocate for a single account.
const MaxPermittedDataLength = 10 * 1024 * 1024

// InProcessHost executes the host-mediated system operations directly against
// in-memory accounts. It implements sealevel.Host for programs running under
// a native (non-BPF) harness, and is the reference for what the real host
// enforces: signature checks are re-run here independently of whatever the
// calling program already validated.
//
// Seed signer tokens are verified against the invoking program's id: a seed
// list authorizes exactly the address it derives to under that program.
type InProcessHost struct {
	log       *logrus.Entry
	programID ed25519.PublicKey
	rent      Rent
}

func NewInProcessHost(programID ed25519.PublicKey) *InProcessHost {
	return &InProcessHost{
		log:       logrus.StandardLogger().WithField("type", "sealevel/system/host"),
		programID: programID,
		rent:      DefaultRent(),
	}
}

func (h *InProcessHost) FindProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, uint8, error) {
	return sealevel.FindProgramAddressAndBump(program, seeds...)
}

func (h *InProcessHost) CreateProgramAddress(program ed25519.PublicKey, seeds ...[]byte) (ed25519.PublicKey, error) {
	return sealevel.CreateProgramAddress(program, seeds...)
}

func (h *InProcessHost) MinimumBalance(space uint64) uint64 {
	return h.rent.MinimumBalance(space)
}

func (h *InProcessHost) CreateAccount(from, to *sealevel.AccountInfo, lamports, space uint64, owner ed25519.PublicKey, signers ...sealevel.SignerSeeds) error {
	if err := h.requireSigned(from, signers); err != nil {
		return err
	}
	if err := h.requireSigned(to, signers); err != nil {
		return err
	}

	if from.HasAddress(to.Address()) {
		return sealevel.ErrAccountBorrowFailed
	}

	if to.Lamports() != 0 || !to.DataIsEmpty() || !to.IsOwnedBy(SystemProgramID) {
		h.log.WithField("address", base58.Encode(to.Address())).Debug("create target is already in use")
		return sealevel.ErrAccountAlreadyInitialized
	}
	if space > MaxPermittedDataLength {
		return sealevel.ErrInvalidAccountData
	}

	fromBalance := from.Lamports()
	if fromBalance < lamports {
		return sealevel.ErrInsufficientFunds
	}

	if err := to.SetData(make([]byte, space)); err != nil {
		return err
	}
	from.SetLamports(fromBalance - lamports)
	to.SetLamports(lamports)
	to.SetOwner(owner)

	return nil
}

func (h *InProcessHost) Transfer(from, to *sealevel.AccountInfo, lamports uint64, signers ...sealevel.SignerSeeds) error {
	if err := h.requireSigned(from, signers); err != nil {
		return err
	}

	// Both balances are read up front, so an aliased from/to pair would let
	// the credit write back over the debit.
	if from.HasAddress(to.Address()) {
		return sealevel.ErrAccountBorrowFailed
	}

	newFromBalance := from.Lamports() - lamports
	if newFromBalance > from.Lamports() {
		return sealevel.ErrInsufficientFunds
	}
	newToBalance := to.Lamports() + lamports
	if newToBalance < to.Lamports() {
		return sealevel.ErrArithmeticOverflow
	}

	from.SetLamports(newFromBalance)
	to.SetLamports(newToBalance)

	return nil
}

func (h *InProcessHost) Allocate(account *sealevel.AccountInfo, space uint64, signers ...sealevel.SignerSeeds) error {
	if err := h.requireSigned(account, signers); err != nil {
		return err
	}

	if !account.DataIsEmpty() {
		return sealevel.ErrAccountAlreadyInitialized
	}
	if !account.IsOwnedBy(SystemProgramID) {
		return sealevel.ErrInvalidAccountOwner
	}
	if space > MaxPermittedDataLength {
		return sealevel.ErrInvalidAccountData
	}

	return account.SetData(make([]byte, space))
}

func (h *InProcessHost) Assign(account *sealevel.AccountInfo, owner ed25519.PublicKey, signers ...sealevel.SignerSeeds) error {
	if err := h.requireSigned(account, signers); err != nil {
		return err
	}

	account.SetOwner(owner)
	return nil
}

// requireSigned passes when the account signed the transaction itself, or
// when one of the seed signer tokens derives to the account's address under
// the invoking program.
func (h *InProcessHost) requireSigned(account *sealevel.AccountInfo, signers []sealevel.SignerSeeds) error {
	if account.IsSigner() {
		return nil
	}

	for _, seeds := range signers {
		derived, err := sealevel.CreateProgramAddress(h.programID, seeds...)
		if err != nil {
			continue
		}
		if account.HasAddress(derived) {
			return nil
		}
	}

	h.log.WithField("address", base58.Encode(account.Address())).Debug("account did not sign the operation")
	return sealevel.ErrMissingRequiredSignature
}
