package system

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-program-runtime/pkg/sealevel"
)

func generateKeys(t *testing.T, n int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, n)
	for i := range keys {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = pub
	}
	return keys
}

func TestRent_MinimumBalance(t *testing.T) {
	rent := DefaultRent()

	assert.NotZero(t, rent.MinimumBalance(0))
	assert.Greater(t, rent.MinimumBalance(100), rent.MinimumBalance(0))
	assert.Greater(t, rent.MinimumBalance(1000), rent.MinimumBalance(100))
}

func TestInProcessHost_CreateAccount(t *testing.T) {
	keys := generateKeys(t, 3)
	host := NewInProcessHost(keys[0])

	payer := sealevel.NewAccountInfo(keys[1], SystemProgramID, 1_000_000_000, nil, true, true)
	target := sealevel.NewAccountInfo(keys[2], SystemProgramID, 0, nil, true, true)

	require.NoError(t, host.CreateAccount(payer, target, 500_000, 64, keys[0]))

	assert.EqualValues(t, 999_500_000, payer.Lamports())
	assert.EqualValues(t, 500_000, target.Lamports())
	assert.Equal(t, 64, target.DataLen())
	assert.True(t, target.IsOwnedBy(keys[0]))
}

func TestInProcessHost_CreateAccount_Unsigned(t *testing.T) {
	keys := generateKeys(t, 3)
	host := NewInProcessHost(keys[0])

	payer := sealevel.NewAccountInfo(keys[1], SystemProgramID, 1_000_000_000, nil, false, true)
	target := sealevel.NewAccountInfo(keys[2], SystemProgramID, 0, nil, true, true)

	err := host.CreateAccount(payer, target, 500_000, 64, keys[0])
	assert.Equal(t, sealevel.ErrMissingRequiredSignature, err)
	assert.EqualValues(t, 1_000_000_000, payer.Lamports())
	assert.EqualValues(t, 0, target.Lamports())
}

func TestInProcessHost_CreateAccount_SeedSigner(t *testing.T) {
	keys := generateKeys(t, 2)
	programID := keys[0]
	host := NewInProcessHost(programID)

	seeds := [][]byte{[]byte("vault"), keys[1]}
	derived, bump, err := sealevel.FindProgramAddressAndBump(programID, seeds...)
	require.NoError(t, err)

	payer := sealevel.NewAccountInfo(keys[1], SystemProgramID, 1_000_000_000, nil, true, true)
	target := sealevel.NewAccountInfo(derived, SystemProgramID, 0, nil, false, true)

	// The target has not signed; the seed token stands in for it.
	err = host.CreateAccount(payer, target, 500_000, 64, programID)
	assert.Equal(t, sealevel.ErrMissingRequiredSignature, err)

	signer := sealevel.CombineSeeds(seeds, bump)
	require.NoError(t, host.CreateAccount(payer, target, 500_000, 64, programID, signer))
	assert.True(t, target.IsOwnedBy(programID))

	// A seed token deriving to some other address authorizes nothing.
	other := sealevel.NewAccountInfo(keys[1], SystemProgramID, 0, nil, false, true)
	err = host.Assign(other, programID, sealevel.CombineSeeds([][]byte{[]byte("unrelated")}, bump))
	assert.Equal(t, sealevel.ErrMissingRequiredSignature, err)
}

func TestInProcessHost_CreateAccount_InUse(t *testing.T) {
	keys := generateKeys(t, 3)
	host := NewInProcessHost(keys[0])

	payer := sealevel.NewAccountInfo(keys[1], SystemProgramID, 1_000_000_000, nil, true, true)

	funded := sealevel.NewAccountInfo(keys[2], SystemProgramID, 1, nil, true, true)
	assert.Equal(t, sealevel.ErrAccountAlreadyInitialized, host.CreateAccount(payer, funded, 500_000, 64, keys[0]))

	occupied := sealevel.NewAccountInfo(keys[2], SystemProgramID, 0, make([]byte, 8), true, true)
	assert.Equal(t, sealevel.ErrAccountAlreadyInitialized, host.CreateAccount(payer, occupied, 500_000, 64, keys[0]))

	owned := sealevel.NewAccountInfo(keys[2], keys[0], 0, nil, true, true)
	assert.Equal(t, sealevel.ErrAccountAlreadyInitialized, host.CreateAccount(payer, owned, 500_000, 64, keys[0]))
}

func TestInProcessHost_CreateAccount_InsufficientFunds(t *testing.T) {
	keys := generateKeys(t, 3)
	host := NewInProcessHost(keys[0])

	payer := sealevel.NewAccountInfo(keys[1], SystemProgramID, 100, nil, true, true)
	target := sealevel.NewAccountInfo(keys[2], SystemProgramID, 0, nil, true, true)

	err := host.CreateAccount(payer, target, 500_000, 64, keys[0])
	assert.Equal(t, sealevel.ErrInsufficientFunds, err)
	assert.EqualValues(t, 100, payer.Lamports())
	assert.EqualValues(t, 0, target.Lamports())
	assert.Equal(t, 0, target.DataLen())
}

func TestInProcessHost_Transfer(t *testing.T) {
	keys := generateKeys(t, 3)
	host := NewInProcessHost(keys[0])

	from := sealevel.NewAccountInfo(keys[1], SystemProgramID, 1000, nil, true, true)
	to := sealevel.NewAccountInfo(keys[2], SystemProgramID, 50, nil, false, true)

	require.NoError(t, host.Transfer(from, to, 300))
	assert.EqualValues(t, 700, from.Lamports())
	assert.EqualValues(t, 350, to.Lamports())

	assert.Equal(t, sealevel.ErrInsufficientFunds, host.Transfer(from, to, 701))
	assert.EqualValues(t, 700, from.Lamports())
	assert.EqualValues(t, 350, to.Lamports())

	// The host re-enforces the signature regardless of what the caller
	// already checked.
	unsigned := sealevel.NewAccountInfo(keys[1], SystemProgramID, 1000, nil, false, true)
	assert.Equal(t, sealevel.ErrMissingRequiredSignature, host.Transfer(unsigned, to, 1))
}

func TestInProcessHost_Transfer_Aliased(t *testing.T) {
	keys := generateKeys(t, 2)
	host := NewInProcessHost(keys[0])

	account := sealevel.NewAccountInfo(keys[1], SystemProgramID, 1000, nil, true, true)

	// A transfer from an account to itself must not mint lamports.
	err := host.Transfer(account, account, 300)
	assert.Equal(t, sealevel.ErrAccountBorrowFailed, err)
	assert.EqualValues(t, 1000, account.Lamports())
}

func TestInProcessHost_AllocateAndAssign(t *testing.T) {
	keys := generateKeys(t, 3)
	host := NewInProcessHost(keys[0])

	account := sealevel.NewAccountInfo(keys[1], SystemProgramID, 0, nil, true, true)

	require.NoError(t, host.Allocate(account, 128))
	assert.Equal(t, 128, account.DataLen())

	// Allocating twice, or allocating a non-system account, fails.
	assert.Equal(t, sealevel.ErrAccountAlreadyInitialized, host.Allocate(account, 64))

	owned := sealevel.NewAccountInfo(keys[2], keys[0], 0, nil, true, true)
	assert.Equal(t, sealevel.ErrInvalidAccountOwner, host.Allocate(owned, 64))

	require.NoError(t, host.Assign(account, keys[0]))
	assert.True(t, account.IsOwnedBy(keys[0]))

	unsigned := sealevel.NewAccountInfo(keys[2], SystemProgramID, 0, nil, false, true)
	assert.Equal(t, sealevel.ErrMissingRequiredSignature, host.Assign(unsigned, keys[0]))
}
