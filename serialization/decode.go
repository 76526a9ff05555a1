package serialization

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/cube2222/octotype/dtype"
)

// MaxDepth is the deepest type nesting accepted by the decoder.
const MaxDepth = 1024

// DecodeOwned decodes a fully materialized DType from buf.
// The returned value doesn't reference buf.
func DecodeOwned(buf []byte) (dtype.DType, error) {
	if err := validateAll(buf); err != nil {
		return dtype.DType{}, err
	}
	t, _ := materialize(buf, 0)
	return t, nil
}

func validateAll(buf []byte) error {
	end, err := validate(buf, 0, 0)
	if err != nil {
		return err
	}
	if end != len(buf) {
		return parseError(end, TrailingBytes, "end of buffer", fmt.Sprintf("%d more bytes", len(buf)-end))
	}
	return nil
}

// validate checks the encoded type starting at off and returns the offset right after it.
// It doesn't allocate.
func validate(buf []byte, off, depth int) (int, error) {
	if depth > MaxDepth {
		return 0, parseError(off, NestingTooDeep, fmt.Sprintf("at most %d levels", MaxDepth), fmt.Sprint(depth))
	}
	if off >= len(buf) {
		return 0, parseError(off, TruncatedPayload, "variant tag", "end of buffer")
	}
	tag := buf[off]
	off++

	switch tag {
	case tagNull:
		return off, nil

	case tagBool, tagUtf8, tagBinary:
		return validateNullability(buf, off)

	case tagPrimitive:
		if off >= len(buf) {
			return 0, parseError(off, TruncatedPayload, "ptype code", "end of buffer")
		}
		if !dtype.PType(buf[off]).Valid() {
			return 0, parseError(off, InvalidPayload, fmt.Sprintf("ptype code in [0, %d]", dtype.F64), fmt.Sprint(buf[off]))
		}
		return validateNullability(buf, off+1)

	case tagDecimal:
		if off+2 > len(buf) {
			return 0, parseError(off, TruncatedPayload, "decimal precision and scale", "end of buffer")
		}
		if _, err := dtype.NewDecimalDType(buf[off], int8(buf[off+1])); err != nil {
			return 0, &ParseError{
				Offset:   off,
				Kind:     InvalidPayload,
				Expected: "valid decimal precision and scale",
				Found:    fmt.Sprintf("precision %d, scale %d", buf[off], int8(buf[off+1])),
				Err:      err,
			}
		}
		return validateNullability(buf, off+2)

	case tagRecord:
		nameCount, off, err := readCount(buf, off, "field name count")
		if err != nil {
			return 0, err
		}
		for i := 0; i < nameCount; i++ {
			if _, off, err = readBytes(buf, off, "field name"); err != nil {
				return 0, err
			}
		}
		typeCountOffset := off
		typeCount, off, err := readCount(buf, off, "field type count")
		if err != nil {
			return 0, err
		}
		if typeCount != nameCount {
			return 0, parseError(typeCountOffset, ArityMismatch, fmt.Sprintf("%d field types", nameCount), fmt.Sprint(typeCount))
		}
		for i := 0; i < typeCount; i++ {
			if off, err = validate(buf, off, depth+1); err != nil {
				return 0, err
			}
		}
		return validateNullability(buf, off)

	case tagList:
		off, err := validate(buf, off, depth+1)
		if err != nil {
			return 0, err
		}
		return validateNullability(buf, off)

	case tagExtension:
		_, off, err := readBytes(buf, off, "extension id")
		if err != nil {
			return 0, err
		}
		if off, err = validate(buf, off, depth+1); err != nil {
			return 0, err
		}
		if off >= len(buf) {
			return 0, parseError(off, TruncatedPayload, "metadata flag", "end of buffer")
		}
		switch buf[off] {
		case 0:
			return off + 1, nil
		case 1:
			_, off, err = readBytes(buf, off+1, "extension metadata")
			if err != nil {
				return 0, err
			}
			return off, nil
		default:
			return 0, parseError(off, InvalidPayload, "metadata flag 0 or 1", fmt.Sprint(buf[off]))
		}

	default:
		return 0, parseError(off-1, UnknownVariantTag, fmt.Sprintf("tag in [0, %d]", tagCount-1), fmt.Sprint(tag))
	}
}

func validateNullability(buf []byte, off int) (int, error) {
	if off >= len(buf) {
		return 0, parseError(off, TruncatedPayload, "nullability flag", "end of buffer")
	}
	if buf[off] != flagNonNullable && buf[off] != flagNullable {
		return 0, parseError(off, InvalidPayload, "nullability flag 0 or 1", fmt.Sprint(buf[off]))
	}
	return off + 1, nil
}

// readCount reads a varint element count. Every element takes at least one byte,
// so counts larger than the rest of the buffer are reported as truncation before anything is allocated.
func readCount(buf []byte, off int, what string) (int, int, error) {
	v, n := protowire.ConsumeVarint(buf[off:])
	if n < 0 {
		return 0, 0, consumeError(off, what, n)
	}
	if v > uint64(len(buf)-off-n) {
		return 0, 0, parseError(off, TruncatedPayload, fmt.Sprintf("%d entries", v), fmt.Sprintf("%d remaining bytes", len(buf)-off-n))
	}
	return int(v), off + n, nil
}

func readBytes(buf []byte, off int, what string) ([]byte, int, error) {
	v, n := protowire.ConsumeBytes(buf[off:])
	if n < 0 {
		return nil, 0, consumeError(off, what, n)
	}
	return v, off + n, nil
}

func consumeError(off int, what string, n int) error {
	err := protowire.ParseError(n)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return parseError(off, TruncatedPayload, what, "end of buffer")
	}
	return &ParseError{
		Offset:   off,
		Kind:     InvalidPayload,
		Expected: what,
		Found:    "malformed varint",
		Err:      err,
	}
}

// The functions below only ever run on buffers which passed validate.

func materialize(buf []byte, off int) (dtype.DType, int) {
	tag := buf[off]
	off++

	switch tag {
	case tagNull:
		return dtype.Null, off

	case tagBool:
		return dtype.MakeBool(nullabilityAt(buf, off)), off + 1

	case tagPrimitive:
		return dtype.MakePrimitive(dtype.PType(buf[off]), nullabilityAt(buf, off+1)), off + 2

	case tagDecimal:
		return dtype.MakeDecimal(decimalAt(buf, off), nullabilityAt(buf, off+2)), off + 3

	case tagUtf8:
		return dtype.MakeUtf8(nullabilityAt(buf, off)), off + 1

	case tagBinary:
		return dtype.MakeBinary(nullabilityAt(buf, off)), off + 1

	case tagRecord:
		record, off := materializeRecord(buf, off-1)
		return dtype.MakeRecord(record, nullabilityAt(buf, off)), off + 1

	case tagList:
		element, off := materialize(buf, off)
		return dtype.MakeList(element, nullabilityAt(buf, off)), off + 1

	case tagExtension:
		ext, off := materializeExt(buf, off-1)
		return dtype.MakeExtension(ext), off
	}
	panic(fmt.Sprintf("impossible, unknown tag %d in validated buffer", tag))
}

// materializeRecord returns the record at off and the offset of its nullability flag.
func materializeRecord(buf []byte, off int) (dtype.RecordType, int) {
	count, off := varintAt(buf, off+1)
	names := make([]string, count)
	for i := range names {
		var name []byte
		name, off = bytesAt(buf, off)
		names[i] = string(name)
	}
	_, off = varintAt(buf, off)
	fields := make([]dtype.DType, count)
	for i := range fields {
		fields[i], off = materialize(buf, off)
	}
	record, err := dtype.NewRecordType(names, fields)
	if err != nil {
		panic(fmt.Sprintf("impossible, validated record arity: %v", err))
	}
	return record, off
}

func materializeExt(buf []byte, off int) (dtype.ExtType, int) {
	id, off := bytesAt(buf, off+1)
	storage, off := materialize(buf, off)
	ext := dtype.NewExtType(dtype.ExtID(id), storage)
	if buf[off] == 0 {
		return ext, off + 1
	}
	metadata, off := bytesAt(buf, off+1)
	return ext.WithMetadata(metadata), off
}

func nullabilityAt(buf []byte, off int) dtype.Nullability {
	return dtype.NullabilityOf(buf[off] == flagNullable)
}

func decimalAt(buf []byte, off int) dtype.DecimalDType {
	decimal, err := dtype.NewDecimalDType(buf[off], int8(buf[off+1]))
	if err != nil {
		panic(fmt.Sprintf("impossible, validated decimal: %v", err))
	}
	return decimal
}

func varintAt(buf []byte, off int) (int, int) {
	v, n := protowire.ConsumeVarint(buf[off:])
	if n < 0 {
		panic(fmt.Sprintf("impossible, invalid varint at %d in validated buffer", off))
	}
	return int(v), off + n
}

func bytesAt(buf []byte, off int) ([]byte, int) {
	v, n := protowire.ConsumeBytes(buf[off:])
	if n < 0 {
		panic(fmt.Sprintf("impossible, invalid bytes at %d in validated buffer", off))
	}
	return v[:len(v):len(v)], off + n
}

// endAt returns the offset right after the validated type starting at off.
func endAt(buf []byte, off int) int {
	end, err := validate(buf, off, 0)
	if err != nil {
		panic(fmt.Sprintf("impossible, validated buffer: %v", err))
	}
	return end
}
