package sealevel

import (
	"bytes"
	"crypto/ed25519"

	"github.com/code-payments/code-program-runtime/pkg/sealevel/discriminator"
)

// ParseInstructionTag reads the instruction tag from raw instruction data
// after gating on the program identity:
//
//  1. programID (what the host dispatched to) must match apiID (what this
//     handler implements).
//  2. The data must carry at least the scheme's tag width.
//  3. The decoded tag must belong to the scheme's closed set.
//
// A tag outside the closed set surfaces as ErrInvalidInstructionData so the
// caller sees a generic bad-data error instead of a runtime-internal code.
func ParseInstructionTag(scheme discriminator.Scheme, apiID, programID ed25519.PublicKey, data []byte) (uint64, error) {
	if !bytes.Equal(programID, apiID) {
		return 0, ErrIncorrectProgramID
	}

	if len(data) < int(scheme.Width()) {
		return 0, ErrInvalidInstructionData
	}

	tag, err := scheme.Decode(data)
	if err != nil {
		return 0, ErrInvalidInstructionData
	}

	return tag, nil
}
