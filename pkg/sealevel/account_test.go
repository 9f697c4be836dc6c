package sealevel

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestAccountInfo_SharedBorrows(t *testing.T) {
	keys := generateKeys(t, 2)
	info := NewAccountInfo(keys[0], keys[1], 100, []byte{1, 2, 3}, false, true)

	a, err := info.TryBorrowData()
	require.NoError(t, err)
	b, err := info.TryBorrowData()
	require.NoError(t, err)

	assert.Equal(t, []byte{1, 2, 3}, a.Bytes())
	assert.Equal(t, []byte{1, 2, 3}, b.Bytes())

	// An exclusive borrow cannot coexist with shared ones.
	_, err = info.TryBorrowDataMut()
	assert.Equal(t, ErrAccountBorrowFailed, err)

	a.Release()
	_, err = info.TryBorrowDataMut()
	assert.Equal(t, ErrAccountBorrowFailed, err)

	b.Release()
	mut, err := info.TryBorrowDataMut()
	require.NoError(t, err)
	mut.Release()
}

func TestAccountInfo_ExclusiveBorrow(t *testing.T) {
	keys := generateKeys(t, 2)
	info := NewAccountInfo(keys[0], keys[1], 100, []byte{1, 2, 3}, false, true)

	mut, err := info.TryBorrowDataMut()
	require.NoError(t, err)

	_, err = info.TryBorrowData()
	assert.Equal(t, ErrAccountBorrowFailed, err)
	_, err = info.TryBorrowDataMut()
	assert.Equal(t, ErrAccountBorrowFailed, err)

	mut.Bytes()[0] = 9

	// Release is idempotent and frees the account for new borrows.
	mut.Release()
	mut.Release()

	shared, err := info.TryBorrowData()
	require.NoError(t, err)
	defer shared.Release()
	assert.Equal(t, []byte{9, 2, 3}, shared.Bytes())
}

func TestAccountInfo_Resize(t *testing.T) {
	keys := generateKeys(t, 2)
	info := NewAccountInfo(keys[0], keys[1], 100, []byte{1, 2, 3}, false, true)

	// A resize while any borrow is outstanding fails.
	ref, err := info.TryBorrowData()
	require.NoError(t, err)
	assert.Equal(t, ErrAccountBorrowFailed, info.Resize(8))
	ref.Release()

	require.NoError(t, info.Resize(8))
	assert.Equal(t, 8, info.DataLen())

	// Grown bytes are zeroed and prior contents preserved.
	ref, err = info.TryBorrowData()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 0, 0, 0, 0, 0}, ref.Bytes())
	ref.Release()

	require.NoError(t, info.Resize(0))
	assert.True(t, info.DataIsEmpty())

	assert.Equal(t, ErrInvalidRealloc, info.Resize(MaxPermittedDataIncrease+1))
	require.NoError(t, info.Resize(MaxPermittedDataIncrease))
}

func TestAccountInfo_Flags(t *testing.T) {
	keys := generateKeys(t, 2)

	info := NewAccountInfo(keys[0], keys[1], 0, nil, true, false)
	assert.True(t, info.IsSigner())
	assert.False(t, info.IsWritable())
	assert.False(t, info.IsExecutable())

	program := NewProgramAccountInfo(keys[0], keys[1])
	assert.True(t, program.IsExecutable())
	assert.False(t, program.IsSigner())
	assert.True(t, program.HasAddress(keys[0]))
	assert.True(t, program.IsOwnedBy(keys[1]))
}
