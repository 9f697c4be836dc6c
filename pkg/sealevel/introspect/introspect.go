// Package introspect reads the instructions sysvar, giving a program a view
// of the transaction-level instruction list it is executing inside. The
// usual consumers are reentrancy and ordering guards: top-level-only checks
// (flash loan guards), and scans for a given program before or after the
// current instruction (sandwich detection, mandatory-repayment checks).
package introspect

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"math"

	"github.com/mr-tron/base58"

	"github.com/code-payments/code-program-runtime/pkg/sealevel"
)

// InstructionsSysvarID is the only account address accepted as the source of
// instruction introspection data.
//
// https://explorer.solana.com/address/Sysvar1nstructions1111111111111111111111111
var InstructionsSysvarID ed25519.PublicKey

func init() {
	var err error

	InstructionsSysvarID, err = base58.Decode("Sysvar1nstructions1111111111111111111111111")
	if err != nil {
		panic(err)
	}
}

const (
	acctMetaIsSigner   = byte(0b00000001)
	acctMetaIsWritable = byte(0b00000010)
)

// AccountMeta is one account reference inside a serialized instruction.
type AccountMeta struct {
	Address    ed25519.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction is one deserialized entry of the instructions sysvar.
type Instruction struct {
	ProgramID ed25519.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Instructions is a borrowed view over the instructions sysvar data.
type Instructions struct {
	data []byte
}

// Load validates the sysvar account and returns the instruction list view
// plus a release function for the underlying shared borrow. The address gate
// runs before any data is read: any account other than the designated sysvar
// address is rejected with ErrUnsupportedSysvar.
func Load(info *sealevel.AccountInfo) (*Instructions, func(), error) {
	if !info.HasAddress(InstructionsSysvarID) {
		return nil, nil, sealevel.ErrUnsupportedSysvar
	}

	ref, err := info.TryBorrowData()
	if err != nil {
		return nil, nil, err
	}

	data := ref.Bytes()
	if len(data) < 4 {
		ref.Release()
		return nil, nil, sealevel.ErrInvalidAccountData
	}

	return &Instructions{data: data}, ref.Release, nil
}

// Count returns the total number of instructions in the transaction.
func (ix *Instructions) Count() int {
	return int(binary.LittleEndian.Uint16(ix.data))
}

// CurrentIndex returns the index of the currently executing instruction,
// stored in the trailing two bytes of the sysvar data.
func (ix *Instructions) CurrentIndex() int {
	return int(binary.LittleEndian.Uint16(ix.data[len(ix.data)-2:]))
}

// At deserializes the instruction at index i.
func (ix *Instructions) At(i int) (*Instruction, error) {
	if i < 0 || i >= ix.Count() {
		return nil, sealevel.ErrInvalidInstructionData
	}

	offsetPos := 2 + 2*i
	if err := ix.require(offsetPos + 2); err != nil {
		return nil, err
	}
	offset := int(binary.LittleEndian.Uint16(ix.data[offsetPos:]))

	if err := ix.require(offset + 2); err != nil {
		return nil, err
	}
	numAccounts := int(binary.LittleEndian.Uint16(ix.data[offset:]))
	offset += 2

	instruction := &Instruction{
		Accounts: make([]AccountMeta, 0, numAccounts),
	}

	for a := 0; a < numAccounts; a++ {
		if err := ix.require(offset + 1 + ed25519.PublicKeySize); err != nil {
			return nil, err
		}

		flags := ix.data[offset]
		offset++

		address := make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(address, ix.data[offset:])
		offset += ed25519.PublicKeySize

		instruction.Accounts = append(instruction.Accounts, AccountMeta{
			Address:    address,
			IsSigner:   flags&acctMetaIsSigner != 0,
			IsWritable: flags&acctMetaIsWritable != 0,
		})
	}

	if err := ix.require(offset + ed25519.PublicKeySize + 2); err != nil {
		return nil, err
	}

	instruction.ProgramID = make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(instruction.ProgramID, ix.data[offset:])
	offset += ed25519.PublicKeySize

	dataLen := int(binary.LittleEndian.Uint16(ix.data[offset:]))
	offset += 2

	if err := ix.require(offset + dataLen); err != nil {
		return nil, err
	}
	instruction.Data = ix.data[offset : offset+dataLen]

	return instruction, nil
}

// ProgramIDAt returns just the program id of the instruction at index i,
// without materializing its account list.
func (ix *Instructions) ProgramIDAt(i int) (ed25519.PublicKey, error) {
	instruction, err := ix.At(i)
	if err != nil {
		return nil, err
	}
	return instruction.ProgramID, nil
}

// HasProgramBefore reports whether any instruction ahead of the current one
// targets programID.
func (ix *Instructions) HasProgramBefore(programID ed25519.PublicKey) (bool, error) {
	return ix.scan(programID, 0, ix.CurrentIndex())
}

// HasProgramAfter reports whether any instruction following the current one
// targets programID.
func (ix *Instructions) HasProgramAfter(programID ed25519.PublicKey) (bool, error) {
	return ix.scan(programID, ix.CurrentIndex()+1, ix.Count())
}

func (ix *Instructions) scan(programID ed25519.PublicKey, from, to int) (bool, error) {
	for i := from; i < to; i++ {
		id, err := ix.ProgramIDAt(i)
		if err != nil {
			return false, err
		}
		if bytes.Equal(id, programID) {
			return true, nil
		}
	}
	return false, nil
}

func (ix *Instructions) require(n int) error {
	if n > len(ix.data) {
		return sealevel.ErrInvalidInstructionData
	}
	return nil
}

// AssertTopLevel verifies the current instruction was dispatched directly to
// programID rather than reached through another program's invocation. This
// is the usual flash-loan guard.
func AssertTopLevel(info *sealevel.AccountInfo, programID ed25519.PublicKey) error {
	instructions, release, err := Load(info)
	if err != nil {
		return err
	}
	defer release()

	id, err := instructions.ProgramIDAt(instructions.CurrentIndex())
	if err != nil {
		return err
	}

	if !bytes.Equal(id, programID) {
		return sealevel.ErrInvalidAccountData
	}

	return nil
}

// Marshal serializes an instruction list the way the host lays out the
// instructions sysvar: u16 count, u16 entry offsets, the entries (u16
// account count, flag byte + address per account, program id, u16 data
// length, data), and the trailing u16 current index. Hosts and test
// harnesses use this to build sysvar account data.
//
// The entry offsets are u16, capping the serialized form at 65535 bytes; a
// list that would exceed that is rejected rather than silently truncating
// the offsets.
func Marshal(instructions []Instruction, currentIndex uint16) ([]byte, error) {
	size := marshaledSize(instructions)
	if size > math.MaxUint16 {
		return nil, sealevel.ErrInvalidInstructionData
	}

	data := make([]byte, size)

	var offset int

	binary.LittleEndian.PutUint16(data[offset:], uint16(len(instructions)))
	offset += 2

	offsetTablePos := offset
	offset += 2 * len(instructions)

	for _, instruction := range instructions {
		binary.LittleEndian.PutUint16(data[offsetTablePos:], uint16(offset))
		offsetTablePos += 2

		binary.LittleEndian.PutUint16(data[offset:], uint16(len(instruction.Accounts)))
		offset += 2

		for _, meta := range instruction.Accounts {
			var flags byte
			if meta.IsSigner {
				flags |= acctMetaIsSigner
			}
			if meta.IsWritable {
				flags |= acctMetaIsWritable
			}
			data[offset] = flags
			offset++

			copy(data[offset:], meta.Address)
			offset += ed25519.PublicKeySize
		}

		copy(data[offset:], instruction.ProgramID)
		offset += ed25519.PublicKeySize

		binary.LittleEndian.PutUint16(data[offset:], uint16(len(instruction.Data)))
		offset += 2

		copy(data[offset:], instruction.Data)
		offset += len(instruction.Data)
	}

	binary.LittleEndian.PutUint16(data[offset:], currentIndex)

	return data, nil
}

func marshaledSize(instructions []Instruction) int {
	size := 2 + // instruction count
		2*len(instructions) // entry offsets

	for _, instruction := range instructions {
		size += 2 + // account count
			len(instruction.Accounts)*(1+ed25519.PublicKeySize) +
			ed25519.PublicKeySize + // program id
			2 + // data length
			len(instruction.Data)
	}

	return size + 2 // current index
}
