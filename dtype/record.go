package dtype

import (
	"github.com/pkg/errors"
)

// RecordType is an ordered list of named fields.
// Field names don't have to be unique, lookups by name return the first match.
type RecordType struct {
	names  []string
	fields []DType
}

func NewRecordType(names []string, fields []DType) (RecordType, error) {
	if len(names) != len(fields) {
		return RecordType{}, errors.Wrapf(ErrArityMismatch, "%d names, %d field types", len(names), len(fields))
	}
	return RecordType{
		names:  append([]string(nil), names...),
		fields: append([]DType(nil), fields...),
	}, nil
}

func (r RecordType) Arity() int {
	return len(r.names)
}

func (r RecordType) Names() []string {
	return append([]string(nil), r.names...)
}

func (r RecordType) Fields() []DType {
	return append([]DType(nil), r.fields...)
}

func (r RecordType) Name(i int) string {
	return r.names[i]
}

func (r RecordType) FieldAt(i int) DType {
	return r.fields[i]
}

func (r RecordType) FieldIndex(name string) (int, bool) {
	for i := range r.names {
		if r.names[i] == name {
			return i, true
		}
	}
	return -1, false
}

func (r RecordType) FieldByName(name string) (DType, bool) {
	i, ok := r.FieldIndex(name)
	if !ok {
		return DType{}, false
	}
	return r.fields[i], true
}

func (r RecordType) Equal(other RecordType) bool {
	if len(r.names) != len(other.names) {
		return false
	}
	for i := range r.names {
		if r.names[i] != other.names[i] {
			return false
		}
		if !r.fields[i].Equal(other.fields[i]) {
			return false
		}
	}
	return true
}
