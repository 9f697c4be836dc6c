package system

import (
	"crypto/ed25519"

	"github.com/code-payments/code-program-runtime/pkg/sealevel"
	"github.com/code-payments/code-program-runtime/pkg/sealevel/record"
)

// AllocateAndAssign brings target to a rent-exempt, space-byte account owned
// by owner at the canonical derived address for seeds, signing the system
// operations with the derived address's seed token. It returns the derived
// address and canonical bump.
//
// Two paths:
//
//   - Fresh target (zero balance): a single create operation funds, sizes and
//     assigns the account.
//   - Pre-funded target (a previous transaction funded it and then failed):
//     the rent shortfall, if any, is topped up from payer, then the account
//     is allocated and assigned. Without this path a half-created account
//     could never be initialized on retry.
func AllocateAndAssign(host sealevel.Host, target, payer *sealevel.AccountInfo, space uint64, owner ed25519.PublicKey, seeds [][]byte) (ed25519.PublicKey, uint8, error) {
	address, bump, err := host.FindProgramAddress(owner, seeds...)
	if err != nil {
		return nil, 0, sealevel.ErrInvalidSeeds
	}

	if err := AllocateAndAssignWithBump(host, target, payer, space, owner, seeds, bump); err != nil {
		return nil, 0, err
	}

	return address, bump, nil
}

// AllocateAndAssignWithBump is AllocateAndAssign with a caller-provided bump,
// for instructions that carry the bump in their data and have already
// validated it.
func AllocateAndAssignWithBump(host sealevel.Host, target, payer *sealevel.AccountInfo, space uint64, owner ed25519.PublicKey, seeds [][]byte, bump uint8) error {
	signer := sealevel.CombineSeeds(seeds, bump)
	rentExempt := host.MinimumBalance(space)

	if target.Lamports() == 0 {
		return host.CreateAccount(payer, target, rentExempt, space, owner, signer)
	}

	if target.Lamports() < rentExempt {
		if err := host.Transfer(payer, target, rentExempt-target.Lamports(), signer); err != nil {
			return err
		}
	}

	if err := host.Allocate(target, space, signer); err != nil {
		return err
	}

	return host.Assign(target, owner, signer)
}

// CreateProgramAccount is AllocateAndAssign sized for records of type T.
func CreateProgramAccount[T record.Record](host sealevel.Host, target, payer *sealevel.AccountInfo, owner ed25519.PublicKey, seeds [][]byte) (ed25519.PublicKey, uint8, error) {
	return AllocateAndAssign(host, target, payer, uint64(record.Size[T]()), owner, seeds)
}

// CloseAndRefund returns an account's entire balance to recipient and shrinks
// its data to empty, logically closing it. The recipient is credited before
// the account is drained and the data is dropped last, so a reentrant read
// mid-close can never observe old data on a zero-balance account or a drained
// balance alongside live data. Closing an account into itself fails with a
// borrow conflict rather than burning the balance.
func CloseAndRefund(account, recipient *sealevel.AccountInfo) error {
	if account.HasAddress(recipient.Address()) {
		return sealevel.ErrAccountBorrowFailed
	}

	refunded := recipient.Lamports() + account.Lamports()
	if refunded < recipient.Lamports() {
		return sealevel.ErrArithmeticOverflow
	}

	recipient.SetLamports(refunded)
	account.SetLamports(0)
	return account.Resize(0)
}

// Send moves amount lamports from an account this program owns directly into
// to. Both balance checks run before either balance changes, so a failure
// leaves both accounts untouched. Sending an account to itself fails with a
// borrow conflict.
func Send(from *sealevel.AccountInfo, amount uint64, to *sealevel.AccountInfo, programID ed25519.PublicKey) error {
	if !from.IsOwnedBy(programID) {
		return sealevel.ErrInvalidAccountOwner
	}

	// A duplicate from/to input would let the credit write back over the
	// debit, minting lamports.
	if from.HasAddress(to.Address()) {
		return sealevel.ErrAccountBorrowFailed
	}

	newFromBalance := from.Lamports() - amount
	if newFromBalance > from.Lamports() {
		return sealevel.ErrInsufficientFunds
	}
	newToBalance := to.Lamports() + amount
	if newToBalance < to.Lamports() {
		return sealevel.ErrArithmeticOverflow
	}

	from.SetLamports(newFromBalance)
	to.SetLamports(newToBalance)

	return nil
}

// Collect moves amount lamports into to from an account this program does
// not own, by delegating to the host's transfer operation. The host
// re-enforces that from signed.
func Collect(host sealevel.Host, to *sealevel.AccountInfo, amount uint64, from *sealevel.AccountInfo) error {
	return host.Transfer(from, to, amount)
}

// Realloc resizes a program-owned account to newSize bytes, keeping it rent
// exempt: growth transfers the additional rent from payer, shrinking refunds
// the excess back to payer.
func Realloc(host sealevel.Host, account *sealevel.AccountInfo, newSize uint64, payer *sealevel.AccountInfo, programID ed25519.PublicKey) error {
	if err := sealevel.Validate(account).Writable().Owner(programID).Err(); err != nil {
		return err
	}

	currentSize := uint64(account.DataLen())
	if newSize == currentSize {
		return nil
	}

	minimumBalance := host.MinimumBalance(newSize)

	if newSize > currentSize {
		if account.Lamports() < minimumBalance {
			if err := host.Transfer(payer, account, minimumBalance-account.Lamports()); err != nil {
				return err
			}
		}
	} else {
		if account.Lamports() > minimumBalance {
			if err := Send(account, account.Lamports()-minimumBalance, payer, programID); err != nil {
				return err
			}
		}
	}

	return account.Resize(int(newSize))
}
