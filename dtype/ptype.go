package dtype

import (
	"fmt"
)

// PType is a primitive numeric storage kind.
// The numeric values are part of the wire format and must not be reordered.
type PType uint8

const (
	U8 PType = iota
	U16
	U32
	U64
	I8
	I16
	I32
	I64
	F16
	F32
	F64
)

var ptypeNames = [...]string{
	U8:  "u8",
	U16: "u16",
	U32: "u32",
	U64: "u64",
	I8:  "i8",
	I16: "i16",
	I32: "i32",
	I64: "i64",
	F16: "f16",
	F32: "f32",
	F64: "f64",
}

func (p PType) Valid() bool {
	return p <= F64
}

func (p PType) IsUnsignedInt() bool {
	return p <= U64
}

func (p PType) IsSignedInt() bool {
	return p >= I8 && p <= I64
}

func (p PType) IsInt() bool {
	return p <= I64
}

func (p PType) IsFloat() bool {
	return p >= F16 && p <= F64
}

func (p PType) ByteWidth() int {
	switch p {
	case U8, I8:
		return 1
	case U16, I16, F16:
		return 2
	case U32, I32, F32:
		return 4
	case U64, I64, F64:
		return 8
	}
	panic(fmt.Sprintf("invalid ptype: %d", p))
}

func (p PType) BitWidth() int {
	return p.ByteWidth() * 8
}

func (p PType) String() string {
	if !p.Valid() {
		return fmt.Sprintf("ptype(%d)", uint8(p))
	}
	return ptypeNames[p]
}

// PTypeFromString resolves the lowercase name produced by String.
func PTypeFromString(name string) (PType, bool) {
	for i, n := range ptypeNames {
		if n == name {
			return PType(i), true
		}
	}
	return 0, false
}
