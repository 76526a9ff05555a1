package dtype

import (
	"bytes"
)

// ExtID identifies an extension type, e.g. "temporal.timestamp".
type ExtID string

// ExtType is a user-defined semantic type stored as another DType.
// Its nullability is always the nullability of its storage type.
type ExtType struct {
	id          ExtID
	storage     DType
	metadata    []byte
	hasMetadata bool
}

func NewExtType(id ExtID, storage DType) ExtType {
	return ExtType{id: id, storage: storage}
}

func (e ExtType) ID() ExtID {
	return e.id
}

func (e ExtType) Storage() DType {
	return e.storage
}

// Metadata returns the opaque metadata payload. The returned slice must not be modified.
func (e ExtType) Metadata() ([]byte, bool) {
	return e.metadata, e.hasMetadata
}

// WithMetadata returns a copy of e carrying a copy of metadata.
// A nil or empty slice still counts as present metadata.
func (e ExtType) WithMetadata(metadata []byte) ExtType {
	out := e
	out.metadata = append(make([]byte, 0, len(metadata)), metadata...)
	out.hasMetadata = true
	return out
}

func (e ExtType) WithoutMetadata() ExtType {
	out := e
	out.metadata = nil
	out.hasMetadata = false
	return out
}

func (e ExtType) WithStorage(storage DType) ExtType {
	out := e
	out.storage = storage
	return out
}

func (e ExtType) Nullability() Nullability {
	return e.storage.Nullability()
}

func (e ExtType) Equal(other ExtType) bool {
	return e.id == other.id &&
		e.hasMetadata == other.hasMetadata &&
		bytes.Equal(e.metadata, other.metadata) &&
		e.storage.Equal(other.storage)
}
