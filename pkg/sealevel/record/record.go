// Package record turns validated account data into typed program state
// without copying.
//
// A record account's data is a fixed-size header carrying the type's
// discriminator, followed by the record struct itself. The cast into a typed
// view only succeeds behind three gates: the account owner matches, the
// discriminator matches, and the data length is exactly the record size.
// Oversized and undersized buffers are rejected, never truncated or extended.
package record

import (
	"crypto/ed25519"
	"unsafe"

	"github.com/code-payments/code-program-runtime/pkg/sealevel"
	"github.com/code-payments/code-program-runtime/pkg/sealevel/discriminator"
)

// HeaderSize is the number of bytes reserved ahead of the record body. The
// discriminator occupies the first tag-width bytes; the rest is zero padding
// that keeps the body 8-byte aligned regardless of tag width.
const HeaderSize = 8

// Record is implemented by fixed-size structs stored in accounts. TypeTag
// must use a value receiver so the zero value can report it, and must return
// a non-zero tag value: value 0 is the all-zero header of a freshly
// allocated, uninitialized account.
//
// Record structs may only contain fixed-size fields (integers, byte arrays,
// nested such structs). The struct layout is the wire layout.
type Record interface {
	TypeTag() discriminator.Tag
}

// Size returns the exact account data length for records of type T.
func Size[T Record]() int {
	var zero T
	return HeaderSize + int(unsafe.Sizeof(zero))
}

// Read validates the account and returns a read-only typed view over its
// data, plus a release function dropping the underlying shared borrow. The
// view must not be used after release.
func Read[T Record](info *sealevel.AccountInfo, owner ed25519.PublicKey) (*T, func(), error) {
	if _, err := sealevel.Validate(info).Owner(owner).Info(); err != nil {
		return nil, nil, err
	}

	ref, err := info.TryBorrowData()
	if err != nil {
		return nil, nil, err
	}

	view, err := cast[T](ref.Bytes())
	if err != nil {
		ref.Release()
		return nil, nil, err
	}

	return view, ref.Release, nil
}

// ReadMut is Read behind the exclusive borrow: the returned view may be
// written through, and no other borrow of the account can be live until
// release is called.
func ReadMut[T Record](info *sealevel.AccountInfo, owner ed25519.PublicKey) (*T, func(), error) {
	if _, err := sealevel.Validate(info).Owner(owner).Info(); err != nil {
		return nil, nil, err
	}

	ref, err := info.TryBorrowDataMut()
	if err != nil {
		return nil, nil, err
	}

	view, err := cast[T](ref.Bytes())
	if err != nil {
		ref.Release()
		return nil, nil, err
	}

	return view, ref.Release, nil
}

// Initialize claims a freshly allocated, still-zeroed account for type T:
// it writes T's discriminator into the header and returns the mutable view
// for the caller to populate. An account whose discriminator bytes are no
// longer zero is already initialized.
func Initialize[T Record](info *sealevel.AccountInfo, owner ed25519.PublicKey) (*T, func(), error) {
	if _, err := sealevel.Validate(info).Owner(owner).Info(); err != nil {
		return nil, nil, err
	}

	ref, err := info.TryBorrowDataMut()
	if err != nil {
		return nil, nil, err
	}

	data := ref.Bytes()
	if len(data) != Size[T]() {
		ref.Release()
		return nil, nil, sealevel.ErrAccountDataTooSmall
	}

	var zero T
	tag := zero.TypeTag()

	// Tag value 0 is indistinguishable from the uninitialized header, which
	// would make the already-initialized check below pass forever.
	if tag.Value == 0 {
		ref.Release()
		return nil, nil, sealevel.ErrInvalidAccountData
	}

	for _, b := range data[:int(tag.Width)] {
		if b != 0 {
			ref.Release()
			return nil, nil, sealevel.ErrAccountAlreadyInitialized
		}
	}

	if err := tag.Encode(data); err != nil {
		ref.Release()
		return nil, nil, sealevel.ErrInvalidAccountData
	}

	return (*T)(unsafe.Add(unsafe.Pointer(&data[0]), HeaderSize)), ref.Release, nil
}

// AssertType is the validation-only form of Read: owner, discriminator and
// exact-size gates with no view handed back. Useful inside validation chains
// for accounts whose contents are read later.
func AssertType[T Record](info *sealevel.AccountInfo, owner ed25519.PublicKey) error {
	_, release, err := Read[T](info, owner)
	if err != nil {
		return err
	}
	release()
	return nil
}

// ReadHeader splits an account whose body size is resolved by a fixed header
// record: it returns the typed header view plus the remaining body bytes.
// The length gate is a minimum rather than an exact match, since the body
// length is the header's to define.
func ReadHeader[H Record](info *sealevel.AccountInfo, owner ed25519.PublicKey) (*H, []byte, func(), error) {
	if _, err := sealevel.Validate(info).Owner(owner).Info(); err != nil {
		return nil, nil, nil, err
	}

	ref, err := info.TryBorrowData()
	if err != nil {
		return nil, nil, nil, err
	}

	data := ref.Bytes()
	view, err := castPrefix[H](data)
	if err != nil {
		ref.Release()
		return nil, nil, nil, err
	}

	return view, data[Size[H]():], ref.Release, nil
}

// ReadHeaderMut is ReadHeader behind the exclusive borrow.
func ReadHeaderMut[H Record](info *sealevel.AccountInfo, owner ed25519.PublicKey) (*H, []byte, func(), error) {
	if _, err := sealevel.Validate(info).Owner(owner).Info(); err != nil {
		return nil, nil, nil, err
	}

	ref, err := info.TryBorrowDataMut()
	if err != nil {
		return nil, nil, nil, err
	}

	data := ref.Bytes()
	view, err := castPrefix[H](data)
	if err != nil {
		ref.Release()
		return nil, nil, nil, err
	}

	return view, data[Size[H]():], ref.Release, nil
}

func cast[T Record](data []byte) (*T, error) {
	view, err := castPrefix[T](data)
	if err != nil {
		return nil, err
	}
	if len(data) != Size[T]() {
		return nil, sealevel.ErrAccountDataTooSmall
	}
	return view, nil
}

func castPrefix[T Record](data []byte) (*T, error) {
	var zero T

	if !zero.TypeTag().Matches(data) {
		return nil, sealevel.ErrInvalidAccountData
	}
	if len(data) < Size[T]() {
		return nil, sealevel.ErrAccountDataTooSmall
	}

	return (*T)(unsafe.Add(unsafe.Pointer(&data[0]), HeaderSize)), nil
}
