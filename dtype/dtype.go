package dtype

import (
	"fmt"

	"github.com/pkg/errors"
)

type TypeID uint8

const (
	TypeIDNull TypeID = iota
	TypeIDBool
	TypeIDPrimitive
	TypeIDDecimal
	TypeIDUtf8
	TypeIDBinary
	TypeIDRecord
	TypeIDList
	TypeIDExtension
)

func (id TypeID) String() string {
	switch id {
	case TypeIDNull:
		return "Null"
	case TypeIDBool:
		return "Bool"
	case TypeIDPrimitive:
		return "Primitive"
	case TypeIDDecimal:
		return "Decimal"
	case TypeIDUtf8:
		return "Utf8"
	case TypeIDBinary:
		return "Binary"
	case TypeIDRecord:
		return "Record"
	case TypeIDList:
		return "List"
	case TypeIDExtension:
		return "Extension"
	}
	return "Invalid"
}

// DType is the logical type of an array or column.
//
// A DType is a small value: the variant tag, the scalar payloads and a single pointer
// to an immutable node holding the record, list element or extension payload.
// Copying a DType never copies the tree below it, and nodes may be shared freely
// between goroutines.
type DType struct {
	id          TypeID
	nullability Nullability
	ptype       PType
	decimal     DecimalDType
	node        *node
}

// node is never mutated after construction.
type node struct {
	record  RecordType
	element DType
	ext     ExtType
}

var Null = DType{id: TypeIDNull, nullability: Nullable}

func MakeBool(n Nullability) DType {
	return DType{id: TypeIDBool, nullability: n}
}

// MakePrimitive panics if p isn't one of the declared PTypes.
func MakePrimitive(p PType, n Nullability) DType {
	if !p.Valid() {
		panic(fmt.Sprintf("invalid ptype %d", uint8(p)))
	}
	return DType{id: TypeIDPrimitive, ptype: p, nullability: n}
}

// MakeDecimal panics if d wasn't created by NewDecimalDType, e.g. if it's the zero value.
func MakeDecimal(d DecimalDType, n Nullability) DType {
	if err := validateDecimal(d.precision, d.scale); err != nil {
		panic(fmt.Sprintf("invalid decimal: %v", err))
	}
	return DType{id: TypeIDDecimal, decimal: d, nullability: n}
}

func NewDecimal(precision uint8, scale int8, n Nullability) (DType, error) {
	d, err := NewDecimalDType(precision, scale)
	if err != nil {
		return DType{}, err
	}
	return MakeDecimal(d, n), nil
}

func MakeUtf8(n Nullability) DType {
	return DType{id: TypeIDUtf8, nullability: n}
}

func MakeBinary(n Nullability) DType {
	return DType{id: TypeIDBinary, nullability: n}
}

func MakeRecord(r RecordType, n Nullability) DType {
	return DType{id: TypeIDRecord, nullability: n, node: &node{record: r}}
}

func NewRecord(names []string, fields []DType, n Nullability) (DType, error) {
	r, err := NewRecordType(names, fields)
	if err != nil {
		return DType{}, errors.Wrap(err, "couldn't create record type")
	}
	return MakeRecord(r, n), nil
}

func MakeList(element DType, n Nullability) DType {
	return DType{id: TypeIDList, nullability: n, node: &node{element: element}}
}

func MakeExtension(ext ExtType) DType {
	return DType{id: TypeIDExtension, node: &node{ext: ext}}
}

func (t DType) ID() TypeID {
	return t.id
}

func (t DType) Nullability() Nullability {
	switch t.id {
	case TypeIDNull:
		return Nullable
	case TypeIDExtension:
		return t.node.ext.storage.Nullability()
	default:
		return t.nullability
	}
}

func (t DType) IsNullable() bool {
	return t.Nullability().IsNullable()
}

func (t DType) AsNullable() DType {
	return t.WithNullability(Nullable)
}

func (t DType) AsNonNullable() DType {
	return t.WithNullability(NonNullable)
}

// WithNullability returns the same type with the outermost nullability replaced.
// Extensions don't carry a flag of their own, so their storage type is rewritten instead.
// Null is always nullable and is returned unchanged.
func (t DType) WithNullability(n Nullability) DType {
	switch t.id {
	case TypeIDNull:
		return t
	case TypeIDExtension:
		if t.node.ext.storage.Nullability() == n {
			return t
		}
		return MakeExtension(t.node.ext.WithStorage(t.node.ext.storage.WithNullability(n)))
	default:
		out := t
		out.nullability = n
		return out
	}
}

func (t DType) IsNull() bool      { return t.id == TypeIDNull }
func (t DType) IsBoolean() bool   { return t.id == TypeIDBool }
func (t DType) IsPrimitive() bool { return t.id == TypeIDPrimitive }
func (t DType) IsDecimal() bool   { return t.id == TypeIDDecimal }
func (t DType) IsUtf8() bool      { return t.id == TypeIDUtf8 }
func (t DType) IsBinary() bool    { return t.id == TypeIDBinary }
func (t DType) IsRecord() bool    { return t.id == TypeIDRecord }
func (t DType) IsList() bool      { return t.id == TypeIDList }
func (t DType) IsExtension() bool { return t.id == TypeIDExtension }

func (t DType) IsInt() bool {
	return t.id == TypeIDPrimitive && t.ptype.IsInt()
}

func (t DType) IsFloat() bool {
	return t.id == TypeIDPrimitive && t.ptype.IsFloat()
}

func (t DType) IsUnsignedInt() bool {
	return t.id == TypeIDPrimitive && t.ptype.IsUnsignedInt()
}

func (t DType) IsSignedInt() bool {
	return t.id == TypeIDPrimitive && t.ptype.IsSignedInt()
}

func (t DType) AsPrimitive() (PType, bool) {
	if t.id != TypeIDPrimitive {
		return 0, false
	}
	return t.ptype, true
}

// ToPType returns the primitive type backing t, looking through extension storage.
func (t DType) ToPType() (PType, bool) {
	switch t.id {
	case TypeIDPrimitive:
		return t.ptype, true
	case TypeIDExtension:
		return t.node.ext.storage.ToPType()
	default:
		return 0, false
	}
}

func (t DType) AsDecimal() (DecimalDType, bool) {
	if t.id != TypeIDDecimal {
		return DecimalDType{}, false
	}
	return t.decimal, true
}

func (t DType) AsRecord() (RecordType, bool) {
	if t.id != TypeIDRecord {
		return RecordType{}, false
	}
	return t.node.record, true
}

// AsList returns the element type of a list.
func (t DType) AsList() (DType, bool) {
	if t.id != TypeIDList {
		return DType{}, false
	}
	return t.node.element, true
}

func (t DType) AsExtension() (ExtType, bool) {
	if t.id != TypeIDExtension {
		return ExtType{}, false
	}
	return t.node.ext, true
}

// Equal reports whether both types are structurally identical, nullability included.
func (t DType) Equal(other DType) bool {
	if t.id != other.id {
		return false
	}
	switch t.id {
	case TypeIDNull:
		return true
	case TypeIDBool, TypeIDUtf8, TypeIDBinary:
		return t.nullability == other.nullability
	case TypeIDPrimitive:
		return t.nullability == other.nullability && t.ptype == other.ptype
	case TypeIDDecimal:
		return t.nullability == other.nullability && t.decimal == other.decimal
	case TypeIDRecord:
		if t.nullability != other.nullability {
			return false
		}
		return t.node == other.node || t.node.record.Equal(other.node.record)
	case TypeIDList:
		if t.nullability != other.nullability {
			return false
		}
		return t.node == other.node || t.node.element.Equal(other.node.element)
	case TypeIDExtension:
		return t.node == other.node || t.node.ext.Equal(other.node.ext)
	}
	panic("impossible, type switch bug")
}

// EqualIgnoringNullability compares both types with their outermost nullability stripped.
// Nullability of nested record fields, list elements and anything below the outermost
// storage type of an extension still has to match.
func (t DType) EqualIgnoringNullability(other DType) bool {
	return t.AsNonNullable().Equal(other.AsNonNullable())
}
