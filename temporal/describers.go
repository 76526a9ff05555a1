package temporal

import (
	"github.com/cube2222/octotype/dtype"
	"github.com/cube2222/octotype/extensions"
)

type describer struct {
	id dtype.ExtID
}

func (d describer) ID() dtype.ExtID {
	return d.id
}

func (d describer) Validate(ext dtype.ExtType) error {
	_, err := FromExtension(ext)
	return err
}

func (d describer) Describe(ext dtype.ExtType) string {
	metadata, err := FromExtension(ext)
	if err != nil {
		return err.Error()
	}
	return metadata.String()
}

// Register adds the date, time and timestamp describers to the registry.
func Register(registry *extensions.Registry) error {
	for _, id := range []dtype.ExtID{DateID, TimeID, TimestampID} {
		if err := registry.Register(describer{id: id}); err != nil {
			return err
		}
	}
	return nil
}
