package extensions

import (
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/google/btree"
	"github.com/pkg/errors"

	"github.com/cube2222/octotype/dtype"
)

var (
	ErrAlreadyRegistered = errors.New("extension already registered")
	ErrInvalidExtension  = errors.New("invalid extension type")
)

// Describer knows how to check and explain one extension id.
type Describer interface {
	ID() dtype.ExtID
	// Validate checks the storage type and metadata of an extension type carrying this id.
	Validate(ext dtype.ExtType) error
	// Describe renders the extension's metadata for humans.
	Describe(ext dtype.ExtType) string
}

type entry struct {
	id        dtype.ExtID
	describer Describer
}

// Registry holds the extension types known to a process. Extensions which aren't registered
// are still valid types, they are just treated as opaque.
type Registry struct {
	mu      sync.RWMutex
	entries *btree.BTreeG[entry]
}

func NewRegistry() *Registry {
	return &Registry{
		entries: btree.NewG[entry](8, func(a, b entry) bool {
			return a.id < b.id
		}),
	}
}

func (r *Registry) Register(describer Describer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := entry{id: describer.ID()}
	if _, ok := r.entries.Get(key); ok {
		return errors.Wrapf(ErrAlreadyRegistered, "%s", describer.ID())
	}
	key.describer = describer
	r.entries.ReplaceOrInsert(key)
	return nil
}

func (r *Registry) Lookup(id dtype.ExtID) (Describer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	found, ok := r.entries.Get(entry{id: id})
	if !ok {
		return nil, false
	}
	return found.describer, true
}

// List returns all registered describers ordered by id.
func (r *Registry) List() []Describer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Describer, 0, r.entries.Len())
	r.entries.Ascend(func(item entry) bool {
		out = append(out, item.describer)
		return true
	})
	return out
}

// Describe explains an extension type using its describer,
// or falls back to a hex dump of the metadata for unknown ids.
func (r *Registry) Describe(ext dtype.ExtType) string {
	if describer, ok := r.Lookup(ext.ID()); ok {
		return describer.Describe(ext)
	}
	metadata, ok := ext.Metadata()
	if !ok {
		return ""
	}
	return fmt.Sprintf("0x%s", hex.EncodeToString(metadata))
}

// Validate checks every registered extension type found anywhere in t.
func (r *Registry) Validate(t dtype.DType) error {
	return r.validate(t, "$")
}

func (r *Registry) validate(t dtype.DType, path string) error {
	switch t.ID() {
	case dtype.TypeIDRecord:
		record, _ := t.AsRecord()
		for i := 0; i < record.Arity(); i++ {
			if err := r.validate(record.FieldAt(i), path+"."+record.Name(i)); err != nil {
				return err
			}
		}
	case dtype.TypeIDList:
		element, _ := t.AsList()
		return r.validate(element, path+"[]")
	case dtype.TypeIDExtension:
		ext, _ := t.AsExtension()
		if describer, ok := r.Lookup(ext.ID()); ok {
			if err := describer.Validate(ext); err != nil {
				return errors.Wrapf(err, "invalid %s at %s", ext.ID(), path)
			}
		}
		return r.validate(ext.Storage(), path)
	}
	return nil
}
