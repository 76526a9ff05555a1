package serialization

import (
	"fmt"

	"github.com/cube2222/octotype/dtype"
)

// ViewedDType is a zero-copy handle over an encoded DType.
//
// Nothing is decoded upfront apart from a single validation pass in WrapView.
// Every accessor decodes just the bytes it needs, every time it's called, and keeps no state,
// so a view may be used from many goroutines at once. The underlying buffer must not be
// modified while views over it are in use.
type ViewedDType struct {
	buf []byte
	off int
}

// WrapView validates buf and returns a view of the DType it holds.
func WrapView(buf []byte) (ViewedDType, error) {
	if err := validateAll(buf); err != nil {
		return ViewedDType{}, err
	}
	return ViewedDType{buf: buf}, nil
}

func (v ViewedDType) tag() byte {
	return v.buf[v.off]
}

func (v ViewedDType) ID() dtype.TypeID {
	switch v.tag() {
	case tagNull:
		return dtype.TypeIDNull
	case tagBool:
		return dtype.TypeIDBool
	case tagPrimitive:
		return dtype.TypeIDPrimitive
	case tagDecimal:
		return dtype.TypeIDDecimal
	case tagUtf8:
		return dtype.TypeIDUtf8
	case tagBinary:
		return dtype.TypeIDBinary
	case tagRecord:
		return dtype.TypeIDRecord
	case tagList:
		return dtype.TypeIDList
	case tagExtension:
		return dtype.TypeIDExtension
	}
	panic("impossible, type switch bug")
}

// Bytes returns the encoding of just this type.
func (v ViewedDType) Bytes() []byte {
	end := endAt(v.buf, v.off)
	return v.buf[v.off:end:end]
}

func (v ViewedDType) Nullability() dtype.Nullability {
	switch v.tag() {
	case tagNull:
		return dtype.Nullable
	case tagExtension:
		return ViewedExt(v).Storage().Nullability()
	default:
		// All other variants end with their nullability flag.
		return nullabilityAt(v.buf, endAt(v.buf, v.off)-1)
	}
}

func (v ViewedDType) IsNullable() bool {
	return v.Nullability().IsNullable()
}

func (v ViewedDType) AsPrimitive() (dtype.PType, bool) {
	if v.tag() != tagPrimitive {
		return 0, false
	}
	return dtype.PType(v.buf[v.off+1]), true
}

func (v ViewedDType) ToPType() (dtype.PType, bool) {
	switch v.tag() {
	case tagPrimitive:
		return v.AsPrimitive()
	case tagExtension:
		return ViewedExt(v).Storage().ToPType()
	default:
		return 0, false
	}
}

func (v ViewedDType) AsDecimal() (dtype.DecimalDType, bool) {
	if v.tag() != tagDecimal {
		return dtype.DecimalDType{}, false
	}
	return decimalAt(v.buf, v.off+1), true
}

func (v ViewedDType) AsRecord() (ViewedRecord, bool) {
	if v.tag() != tagRecord {
		return ViewedRecord{}, false
	}
	return ViewedRecord(v), true
}

// AsList returns a view of the list's element type.
func (v ViewedDType) AsList() (ViewedDType, bool) {
	if v.tag() != tagList {
		return ViewedDType{}, false
	}
	return ViewedDType{buf: v.buf, off: v.off + 1}, true
}

func (v ViewedDType) AsExtension() (ViewedExt, bool) {
	if v.tag() != tagExtension {
		return ViewedExt{}, false
	}
	return ViewedExt(v), true
}

// Materialize fully decodes the viewed type.
func (v ViewedDType) Materialize() dtype.DType {
	t, _ := materialize(v.buf, v.off)
	return t
}

func (v ViewedDType) String() string {
	return v.Materialize().String()
}

// ViewedRecord is laid out as: tag, name count, names, type count, types, nullability.
type ViewedRecord struct {
	buf []byte
	off int
}

func (r ViewedRecord) Arity() int {
	count, _ := varintAt(r.buf, r.off+1)
	return count
}

func (r ViewedRecord) Name(i int) string {
	count, off := varintAt(r.buf, r.off+1)
	if i < 0 || i >= count {
		panic(fmt.Sprintf("field index %d out of range [0, %d)", i, count))
	}
	var name []byte
	for j := 0; j <= i; j++ {
		name, off = bytesAt(r.buf, off)
	}
	return string(name)
}

func (r ViewedRecord) Names() []string {
	count, off := varintAt(r.buf, r.off+1)
	names := make([]string, count)
	for i := range names {
		var name []byte
		name, off = bytesAt(r.buf, off)
		names[i] = string(name)
	}
	return names
}

// firstField returns the offset of the first field type.
func (r ViewedRecord) firstField() (int, int) {
	count, off := varintAt(r.buf, r.off+1)
	for i := 0; i < count; i++ {
		_, off = bytesAt(r.buf, off)
	}
	_, off = varintAt(r.buf, off)
	return count, off
}

func (r ViewedRecord) FieldAt(i int) ViewedDType {
	count, off := r.firstField()
	if i < 0 || i >= count {
		panic(fmt.Sprintf("field index %d out of range [0, %d)", i, count))
	}
	for j := 0; j < i; j++ {
		off = endAt(r.buf, off)
	}
	return ViewedDType{buf: r.buf, off: off}
}

func (r ViewedRecord) Fields() []ViewedDType {
	count, off := r.firstField()
	fields := make([]ViewedDType, count)
	for i := range fields {
		fields[i] = ViewedDType{buf: r.buf, off: off}
		off = endAt(r.buf, off)
	}
	return fields
}

// FieldByName returns the first field with the given name.
func (r ViewedRecord) FieldByName(name string) (ViewedDType, bool) {
	count, off := varintAt(r.buf, r.off+1)
	for i := 0; i < count; i++ {
		var cur []byte
		cur, off = bytesAt(r.buf, off)
		if string(cur) == name {
			return r.FieldAt(i), true
		}
	}
	return ViewedDType{}, false
}

func (r ViewedRecord) Materialize() dtype.RecordType {
	record, _ := materializeRecord(r.buf, r.off)
	return record
}

// ViewedExt is laid out as: tag, id, storage, metadata flag, optional metadata.
type ViewedExt struct {
	buf []byte
	off int
}

func (e ViewedExt) ID() dtype.ExtID {
	id, _ := bytesAt(e.buf, e.off+1)
	return dtype.ExtID(id)
}

func (e ViewedExt) Storage() ViewedDType {
	_, off := bytesAt(e.buf, e.off+1)
	return ViewedDType{buf: e.buf, off: off}
}

// Metadata returns the metadata bytes without copying them out of the underlying buffer.
func (e ViewedExt) Metadata() ([]byte, bool) {
	off := endAt(e.buf, e.Storage().off)
	if e.buf[off] == 0 {
		return nil, false
	}
	metadata, _ := bytesAt(e.buf, off+1)
	return metadata, true
}

func (e ViewedExt) Materialize() dtype.ExtType {
	ext, _ := materializeExt(e.buf, e.off)
	return ext
}
