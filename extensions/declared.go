package extensions

import (
	"github.com/pkg/errors"

	"github.com/cube2222/octotype/dtype"
)

// Declared describes an extension known only by its id and expected storage type,
// e.g. one listed in the configuration file. Storage nullability isn't checked.
type Declared struct {
	ExtID       dtype.ExtID
	Storage     dtype.DType
	Description string
}

func (d *Declared) ID() dtype.ExtID {
	return d.ExtID
}

func (d *Declared) Validate(ext dtype.ExtType) error {
	if !ext.Storage().EqualIgnoringNullability(d.Storage) {
		return errors.Wrapf(ErrInvalidExtension, "storage %s, expected %s", ext.Storage(), d.Storage)
	}
	return nil
}

func (d *Declared) Describe(ext dtype.ExtType) string {
	return d.Description
}
