package sealevel

import (
	"bytes"
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

// MaxPermittedDataIncrease is the maximum number of bytes an account may grow
// by via Resize within a single instruction.
const MaxPermittedDataIncrease = 10_240

// AccountInfo is a view over a single host-managed account for the duration
// of one instruction. The address, flags and (initial) owner come from the
// host and cannot be forged by the program; everything reachable through the
// data buffer is attacker-controlled until validated.
//
// The model is strictly single-threaded: an instruction runs to completion
// before control returns to the host, so none of the state here is
// synchronized.
type AccountInfo struct {
	address ed25519.PublicKey
	owner   ed25519.PublicKey

	lamports uint64
	data     []byte

	isSigner     bool
	isWritable   bool
	isExecutable bool

	// Borrow guard over data. Negative means an exclusive borrow is live,
	// positive counts shared borrows.
	borrows int
}

func NewAccountInfo(address, owner ed25519.PublicKey, lamports uint64, data []byte, isSigner, isWritable bool) *AccountInfo {
	return &AccountInfo{
		address:    address,
		owner:      owner,
		lamports:   lamports,
		data:       data,
		isSigner:   isSigner,
		isWritable: isWritable,
	}
}

// NewProgramAccountInfo constructs the read-only, executable view the host
// supplies for program accounts.
func NewProgramAccountInfo(address, owner ed25519.PublicKey) *AccountInfo {
	return &AccountInfo{
		address:      address,
		owner:        owner,
		isExecutable: true,
	}
}

func (a *AccountInfo) Address() ed25519.PublicKey {
	return a.address
}

func (a *AccountInfo) Owner() ed25519.PublicKey {
	return a.owner
}

func (a *AccountInfo) Lamports() uint64 {
	return a.lamports
}

func (a *AccountInfo) IsSigner() bool {
	return a.isSigner
}

func (a *AccountInfo) IsWritable() bool {
	return a.isWritable
}

func (a *AccountInfo) IsExecutable() bool {
	return a.isExecutable
}

func (a *AccountInfo) DataLen() int {
	return len(a.data)
}

func (a *AccountInfo) DataIsEmpty() bool {
	return len(a.data) == 0
}

func (a *AccountInfo) String() string {
	return fmt.Sprintf(
		"AccountInfo{address=%s,owner=%s,lamports=%d,data_len=%d,signer=%t,writable=%t,executable=%t}",
		base58.Encode(a.address),
		base58.Encode(a.owner),
		a.lamports,
		len(a.data),
		a.isSigner,
		a.isWritable,
		a.isExecutable,
	)
}

// IsOwnedBy reports whether the account's controlling program is programID.
func (a *AccountInfo) IsOwnedBy(programID ed25519.PublicKey) bool {
	return bytes.Equal(a.owner, programID)
}

// HasAddress reports whether the account sits at the given address.
func (a *AccountInfo) HasAddress(address ed25519.PublicKey) bool {
	return bytes.Equal(a.address, address)
}

// SetLamports overwrites the account balance. Host-side balance conservation
// is enforced outside this view; program code should go through the checked
// transfer helpers instead of calling this directly.
func (a *AccountInfo) SetLamports(lamports uint64) {
	a.lamports = lamports
}

// SetOwner reassigns the controlling program. Used by the host when executing
// an assign operation; program code cannot change ownership directly.
func (a *AccountInfo) SetOwner(owner ed25519.PublicKey) {
	a.owner = owner
}

// SetData replaces the account data buffer wholesale. Host-side only, used
// when executing allocations.
func (a *AccountInfo) SetData(data []byte) error {
	if a.borrows != 0 {
		return ErrAccountBorrowFailed
	}

	a.data = data
	return nil
}

// Resize grows or shrinks the data buffer to newLen bytes. New bytes are
// zeroed. Growth is capped at MaxPermittedDataIncrease per call; a resize
// while any borrow is outstanding fails.
func (a *AccountInfo) Resize(newLen int) error {
	if a.borrows != 0 {
		return ErrAccountBorrowFailed
	}

	if newLen > len(a.data)+MaxPermittedDataIncrease {
		return ErrInvalidRealloc
	}

	if newLen <= len(a.data) {
		a.data = a.data[:newLen]
		return nil
	}

	grown := make([]byte, newLen)
	copy(grown, a.data)
	a.data = grown
	return nil
}

// TryBorrowData acquires a shared borrow of the account data. Any number of
// shared borrows may coexist, but never alongside an exclusive one.
// Acquisition never blocks; contention is an error.
func (a *AccountInfo) TryBorrowData() (*DataRef, error) {
	if a.borrows < 0 {
		return nil, ErrAccountBorrowFailed
	}

	a.borrows++
	return &DataRef{account: a}, nil
}

// TryBorrowDataMut acquires the exclusive borrow of the account data. It
// fails if any borrow, shared or exclusive, is outstanding.
func (a *AccountInfo) TryBorrowDataMut() (*DataMutRef, error) {
	if a.borrows != 0 {
		return nil, ErrAccountBorrowFailed
	}

	a.borrows = -1
	return &DataMutRef{account: a}, nil
}

// DataRef is a live shared borrow of an account's data.
type DataRef struct {
	account  *AccountInfo
	released bool
}

// Bytes returns the borrowed data. The slice must not outlive the borrow.
func (r *DataRef) Bytes() []byte {
	return r.account.data
}

// Release drops the borrow. Safe to call more than once.
func (r *DataRef) Release() {
	if r.released {
		return
	}

	r.released = true
	r.account.borrows--
}

// DataMutRef is the live exclusive borrow of an account's data.
type DataMutRef struct {
	account  *AccountInfo
	released bool
}

func (r *DataMutRef) Bytes() []byte {
	return r.account.data
}

func (r *DataMutRef) Release() {
	if r.released {
		return
	}

	r.released = true
	r.account.borrows = 0
}
