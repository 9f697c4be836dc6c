package sealevel

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
)

// SysvarOwnerID is the fixed owner of every sysvar account.
//
// https://explorer.solana.com/address/Sysvar1111111111111111111111111111111111111
var SysvarOwnerID ed25519.PublicKey

func init() {
	var err error

	SysvarOwnerID, err = base58.Decode("Sysvar1111111111111111111111111111111111111")
	if err != nil {
		panic(err)
	}
}

// Validation is a short-circuiting assertion chain over a single account.
// After the first failing assertion, later assertions do not execute and the
// chain reports the first failure's error.
//
//	account, err := sealevel.Validate(info).
//		Signer().
//		Writable().
//		Owner(programID).
//		Info()
type Validation struct {
	info *AccountInfo
	err  error
}

var validationLog = logrus.StandardLogger().WithField("type", "sealevel/validation")

func Validate(info *AccountInfo) *Validation {
	return &Validation{info: info}
}

// Err returns the first assertion failure, or nil if every assertion passed.
func (v *Validation) Err() error {
	return v.err
}

// Info returns the validated account alongside the chain's error, so a chain
// can terminate directly in an assignment.
func (v *Validation) Info() (*AccountInfo, error) {
	if v.err != nil {
		return nil, v.err
	}
	return v.info, nil
}

func (v *Validation) fail(err error, msg string) *Validation {
	v.err = err
	validationLog.
		WithField("address", base58.Encode(v.info.address)).
		Debug(msg)
	return v
}

// Signer asserts the account signed the transaction.
func (v *Validation) Signer() *Validation {
	if v.err != nil {
		return v
	}
	if !v.info.isSigner {
		return v.fail(ErrMissingRequiredSignature, "account is missing a required signature")
	}
	return v
}

// Writable asserts the host marked the account writable.
func (v *Validation) Writable() *Validation {
	if v.err != nil {
		return v
	}
	if !v.info.isWritable {
		return v.fail(ErrInvalidAccountData, "account has not been marked as writable")
	}
	return v
}

// Executable asserts the account holds a loaded program.
func (v *Validation) Executable() *Validation {
	if v.err != nil {
		return v
	}
	if !v.info.isExecutable {
		return v.fail(ErrInvalidAccountData, "account is not executable")
	}
	return v
}

// DataLen asserts the account data is exactly n bytes.
func (v *Validation) DataLen(n int) *Validation {
	if v.err != nil {
		return v
	}
	if len(v.info.data) != n {
		return v.fail(ErrInvalidAccountData, "account data has an incorrect length")
	}
	return v
}

// Empty asserts the account holds no data yet.
func (v *Validation) Empty() *Validation {
	if v.err != nil {
		return v
	}
	if !v.info.DataIsEmpty() {
		return v.fail(ErrAccountAlreadyInitialized, "account is not empty")
	}
	return v
}

// NotEmpty asserts the account holds data.
func (v *Validation) NotEmpty() *Validation {
	if v.err != nil {
		return v
	}
	if v.info.DataIsEmpty() {
		return v.fail(ErrUninitializedAccount, "account is empty")
	}
	return v
}

// Owner asserts the account is controlled by owner.
func (v *Validation) Owner(owner ed25519.PublicKey) *Validation {
	if v.err != nil {
		return v
	}
	if !bytes.Equal(v.info.owner, owner) {
		return v.fail(ErrInvalidAccountOwner, "account has an invalid owner")
	}
	return v
}

// AnyOwner asserts the account is controlled by one of owners.
func (v *Validation) AnyOwner(owners ...ed25519.PublicKey) *Validation {
	if v.err != nil {
		return v
	}
	for _, owner := range owners {
		if bytes.Equal(v.info.owner, owner) {
			return v
		}
	}
	return v.fail(ErrInvalidAccountOwner, "account has an invalid owner")
}

// Address asserts the account sits at address.
func (v *Validation) Address(address ed25519.PublicKey) *Validation {
	if v.err != nil {
		return v
	}
	if !bytes.Equal(v.info.address, address) {
		return v.fail(ErrInvalidAccountData, "account has an invalid address")
	}
	return v
}

// AnyAddress asserts the account sits at one of addresses.
func (v *Validation) AnyAddress(addresses ...ed25519.PublicKey) *Validation {
	if v.err != nil {
		return v
	}
	for _, address := range addresses {
		if bytes.Equal(v.info.address, address) {
			return v
		}
	}
	return v.fail(ErrInvalidAccountData, "account has an invalid address")
}

// Program asserts the account is the executable program at programID.
func (v *Validation) Program(programID ed25519.PublicKey) *Validation {
	return v.Address(programID).Executable()
}

// Sysvar asserts the account is the sysvar at sysvarID. Ownership by the
// fixed sysvar owner is verified before the address, so an attacker-created
// account at a spoofed address fails on identity either way.
func (v *Validation) Sysvar(sysvarID ed25519.PublicKey) *Validation {
	return v.Owner(SysvarOwnerID).Address(sysvarID)
}

// Seeds asserts the account sits at the canonical derived address for seeds
// under programID.
func (v *Validation) Seeds(host Host, seeds [][]byte, programID ed25519.PublicKey) *Validation {
	if v.err != nil {
		return v
	}

	derived, _, err := host.FindProgramAddress(programID, seeds...)
	if err != nil {
		return v.fail(ErrInvalidSeeds, "could not find a derived address for the seeds")
	}
	if !bytes.Equal(v.info.address, derived) {
		return v.fail(ErrInvalidSeeds, "account does not match the derived address")
	}
	return v
}

// SeedsWithBump asserts the account sits at the address derived from seeds
// that already carry an explicit bump. No search is performed.
func (v *Validation) SeedsWithBump(host Host, seedsWithBump [][]byte, programID ed25519.PublicKey) *Validation {
	if v.err != nil {
		return v
	}

	derived, err := host.CreateProgramAddress(programID, seedsWithBump...)
	if err != nil {
		return v.fail(ErrInvalidSeeds, "could not create a derived address from the seeds and bump")
	}
	if !bytes.Equal(v.info.address, derived) {
		return v.fail(ErrInvalidSeeds, "account does not match the derived address")
	}
	return v
}

// CanonicalBump terminates the chain, asserting the account sits at the
// canonical derived address for seeds and returning the canonical bump.
func (v *Validation) CanonicalBump(host Host, seeds [][]byte, programID ed25519.PublicKey) (uint8, error) {
	if v.err != nil {
		return 0, v.err
	}

	derived, bump, err := host.FindProgramAddress(programID, seeds...)
	if err != nil {
		v.fail(ErrInvalidSeeds, "could not find a derived address for the seeds")
		return 0, v.err
	}
	if !bytes.Equal(v.info.address, derived) {
		v.fail(ErrInvalidSeeds, "account does not match the derived address")
		return 0, v.err
	}
	return bump, nil
}

// Check runs an arbitrary assertion against the account, keeping the chain's
// short-circuit behavior for custom program checks.
func (v *Validation) Check(fn func(*AccountInfo) error) *Validation {
	if v.err != nil {
		return v
	}
	if err := fn(v.info); err != nil {
		return v.fail(err, "account failed a program-defined check")
	}
	return v
}
