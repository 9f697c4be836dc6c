package sealevel

import (
	"fmt"

	"github.com/pkg/errors"
)

// Instruction-level error taxonomy. Any of these returned from an instruction
// handler aborts the instruction, and with it the enclosing transaction.
//
// The names mirror the runtime's instruction error kinds so that host-side
// tooling can map them onto wire errors without translation tables.
var (
	ErrMissingRequiredSignature  = errors.New("missing required signature")
	ErrInvalidAccountData        = errors.New("invalid account data")
	ErrInvalidAccountOwner       = errors.New("invalid account owner")
	ErrAccountDataTooSmall       = errors.New("account data too small")
	ErrAccountAlreadyInitialized = errors.New("account already initialized")
	ErrUninitializedAccount      = errors.New("uninitialized account")
	ErrInvalidSeeds              = errors.New("invalid seeds")
	ErrInsufficientFunds         = errors.New("insufficient funds")
	ErrArithmeticOverflow        = errors.New("arithmetic overflow")
	ErrIncorrectProgramID        = errors.New("incorrect program id")
	ErrInvalidInstructionData    = errors.New("invalid instruction data")
	ErrNotEnoughAccountKeys      = errors.New("not enough account keys")
	ErrAccountBorrowFailed       = errors.New("account borrow failed")
	ErrUnsupportedSysvar         = errors.New("unsupported sysvar")
	ErrInvalidRealloc            = errors.New("invalid realloc")
)

// CustomError is a program-defined numeric error code.
type CustomError uint32

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: %#x", uint32(c))
}

// Codes at or above FirstReservedErrorCode are reserved for the runtime
// itself. Program-defined error enums must stay below this value so the two
// ranges never collide.
const FirstReservedErrorCode uint32 = 0xFFFF_0000

var (
	// ErrTooManyAccountKeys indicates more account keys were provided than
	// the instruction expects.
	ErrTooManyAccountKeys = CustomError(0xFFFF_FFFE)

	// ErrInvalidDiscriminator indicates discriminator bytes that do not match
	// any known variant.
	ErrInvalidDiscriminator = CustomError(0xFFFF_FFFF)
)
