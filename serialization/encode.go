package serialization

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/cube2222/octotype/dtype"
)

// Wire tags. These are persisted and must never be renumbered.
const (
	tagNull byte = iota
	tagBool
	tagPrimitive
	tagDecimal
	tagUtf8
	tagBinary
	tagRecord
	tagList
	tagExtension

	tagCount
)

const (
	flagNonNullable byte = 0
	flagNullable    byte = 1
)

// Encode returns the wire encoding of t.
// Types nested deeper than MaxDepth are encoded, but DecodeOwned and WrapView reject them.
func Encode(t dtype.DType) []byte {
	return AppendEncoded(nil, t)
}

// AppendEncoded appends the wire encoding of t to dst.
func AppendEncoded(dst []byte, t dtype.DType) []byte {
	switch t.ID() {
	case dtype.TypeIDNull:
		return append(dst, tagNull)

	case dtype.TypeIDBool:
		return appendNullability(append(dst, tagBool), t.Nullability())

	case dtype.TypeIDPrimitive:
		ptype, _ := t.AsPrimitive()
		return appendNullability(append(dst, tagPrimitive, byte(ptype)), t.Nullability())

	case dtype.TypeIDDecimal:
		decimal, _ := t.AsDecimal()
		return appendNullability(append(dst, tagDecimal, decimal.Precision(), byte(decimal.Scale())), t.Nullability())

	case dtype.TypeIDUtf8:
		return appendNullability(append(dst, tagUtf8), t.Nullability())

	case dtype.TypeIDBinary:
		return appendNullability(append(dst, tagBinary), t.Nullability())

	case dtype.TypeIDRecord:
		record, _ := t.AsRecord()
		dst = append(dst, tagRecord)
		dst = protowire.AppendVarint(dst, uint64(record.Arity()))
		for i := 0; i < record.Arity(); i++ {
			dst = protowire.AppendString(dst, record.Name(i))
		}
		dst = protowire.AppendVarint(dst, uint64(record.Arity()))
		for i := 0; i < record.Arity(); i++ {
			dst = AppendEncoded(dst, record.FieldAt(i))
		}
		return appendNullability(dst, t.Nullability())

	case dtype.TypeIDList:
		element, _ := t.AsList()
		dst = AppendEncoded(append(dst, tagList), element)
		return appendNullability(dst, t.Nullability())

	case dtype.TypeIDExtension:
		ext, _ := t.AsExtension()
		dst = append(dst, tagExtension)
		dst = protowire.AppendString(dst, string(ext.ID()))
		dst = AppendEncoded(dst, ext.Storage())
		metadata, ok := ext.Metadata()
		if !ok {
			return append(dst, 0)
		}
		return protowire.AppendBytes(append(dst, 1), metadata)
	}
	panic("impossible, type switch bug")
}

func appendNullability(dst []byte, n dtype.Nullability) []byte {
	if n.IsNullable() {
		return append(dst, flagNullable)
	}
	return append(dst, flagNonNullable)
}
