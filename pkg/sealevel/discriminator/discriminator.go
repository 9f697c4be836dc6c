// Package discriminator implements the fixed-width little-endian tags that
// prefix every typed record and instruction payload.
package discriminator

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Width is a supported tag width in bytes.
type Width int

const (
	Width1 Width = 1
	Width2 Width = 2
	Width4 Width = 4
	Width8 Width = 8
)

var (
	ErrShortBuffer          = errors.New("buffer is shorter than the discriminator width")
	ErrInvalidWidth         = errors.New("unsupported discriminator width")
	ErrValueOutOfRange      = errors.New("value does not fit in the discriminator width")
	ErrInvalidDiscriminator = errors.New("invalid discriminator")
)

func (w Width) valid() bool {
	switch w {
	case Width1, Width2, Width4, Width8:
		return true
	default:
		return false
	}
}

// Decode reads the first w bytes of src as a little-endian integer. It never
// reads past w bytes, and a short buffer is an error, not a panic.
func Decode(src []byte, w Width) (uint64, error) {
	if !w.valid() {
		return 0, ErrInvalidWidth
	}
	if len(src) < int(w) {
		return 0, ErrShortBuffer
	}

	switch w {
	case Width1:
		return uint64(src[0]), nil
	case Width2:
		return uint64(binary.LittleEndian.Uint16(src)), nil
	case Width4:
		return uint64(binary.LittleEndian.Uint32(src)), nil
	default:
		return binary.LittleEndian.Uint64(src), nil
	}
}

// Tag is a single discriminator value at a fixed width.
type Tag struct {
	Value uint64
	Width Width
}

// Encode writes the tag's little-endian bytes into the first Width bytes of
// dst, which must be at least Width bytes long.
func (t Tag) Encode(dst []byte) error {
	if !t.Width.valid() {
		return ErrInvalidWidth
	}
	if len(dst) < int(t.Width) {
		return ErrShortBuffer
	}
	if t.Width != Width8 && t.Value >= uint64(1)<<(8*uint(t.Width)) {
		return ErrValueOutOfRange
	}

	switch t.Width {
	case Width1:
		dst[0] = byte(t.Value)
	case Width2:
		binary.LittleEndian.PutUint16(dst, uint16(t.Value))
	case Width4:
		binary.LittleEndian.PutUint32(dst, uint32(t.Value))
	default:
		binary.LittleEndian.PutUint64(dst, t.Value)
	}

	return nil
}

// Matches reports whether the first Width bytes of src encode the tag. A
// short or unsupported-width buffer never matches and never panics. No
// allocation is performed.
func (t Tag) Matches(src []byte) bool {
	decoded, err := Decode(src, t.Width)
	if err != nil {
		return false
	}
	return decoded == t.Value
}

// Scheme is a closed, enumerated set of tag values sharing one width: values
// 0 through Max inclusive. Widths are fixed per scheme and never inferred
// from data.
type Scheme struct {
	width Width
	max   uint64
}

func NewScheme(w Width, max uint64) Scheme {
	return Scheme{width: w, max: max}
}

func (s Scheme) Width() Width {
	return s.width
}

// Decode reads a tag value and rejects integers outside the scheme's closed
// set with ErrInvalidDiscriminator rather than panicking.
func (s Scheme) Decode(src []byte) (uint64, error) {
	v, err := Decode(src, s.width)
	if err != nil {
		return 0, err
	}
	if v > s.max {
		return 0, ErrInvalidDiscriminator
	}
	return v, nil
}

// Tag binds a value of the scheme to its width.
func (s Scheme) Tag(value uint64) Tag {
	return Tag{Value: value, Width: s.width}
}
