package system

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
)

// https://explorer.solana.com/address/11111111111111111111111111111111
var SystemProgramID ed25519.PublicKey

// RentSysvarID points to the system variable "Rent".
var RentSysvarID ed25519.PublicKey

func init() {
	var err error

	SystemProgramID, err = base58.Decode("11111111111111111111111111111111")
	if err != nil {
		panic(err)
	}

	RentSysvarID, err = base58.Decode("SysvarRent111111111111111111111111111111111")
	if err != nil {
		panic(err)
	}
}
