// Package temporal implements the date, time and timestamp extension types.
//
// All three are stored as integers counting units since the Unix epoch (or since midnight, for times).
// The unit, and the optional timezone of timestamps, are kept in the extension metadata:
//
//	byte 0      time unit
//	bytes 1-2   timezone length, little endian (timestamps only)
//	bytes 3-    timezone
package temporal

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/cube2222/octotype/dtype"
)

const (
	DateID      dtype.ExtID = "temporal.date"
	TimeID      dtype.ExtID = "temporal.time"
	TimestampID dtype.ExtID = "temporal.timestamp"
)

var ErrInvalidTemporal = errors.New("invalid temporal type")

type TimeUnit uint8

const (
	Nanoseconds TimeUnit = iota
	Microseconds
	Milliseconds
	Seconds
	Days
)

func (u TimeUnit) String() string {
	switch u {
	case Nanoseconds:
		return "ns"
	case Microseconds:
		return "us"
	case Milliseconds:
		return "ms"
	case Seconds:
		return "s"
	case Days:
		return "D"
	}
	return fmt.Sprintf("TimeUnit(%d)", uint8(u))
}

func TimeUnitFromString(s string) (TimeUnit, bool) {
	for u := Nanoseconds; u <= Days; u++ {
		if u.String() == s {
			return u, true
		}
	}
	return 0, false
}

// Metadata is the decoded form of a temporal extension.
type Metadata struct {
	ID       dtype.ExtID
	Unit     TimeUnit
	TimeZone string
}

func (m Metadata) String() string {
	switch {
	case m.ID == TimestampID && m.TimeZone != "":
		return fmt.Sprintf("timestamp[%s, %s]", m.Unit, m.TimeZone)
	case m.ID == TimestampID:
		return fmt.Sprintf("timestamp[%s]", m.Unit)
	case m.ID == DateID:
		return fmt.Sprintf("date[%s]", m.Unit)
	default:
		return fmt.Sprintf("time[%s]", m.Unit)
	}
}

// StoragePType returns the integer type which values with this metadata are stored as.
func (m Metadata) StoragePType() (dtype.PType, error) {
	switch m.ID {
	case DateID:
		switch m.Unit {
		case Days:
			return dtype.I32, nil
		case Milliseconds:
			return dtype.I64, nil
		}
	case TimeID:
		switch m.Unit {
		case Seconds, Milliseconds:
			return dtype.I32, nil
		case Microseconds, Nanoseconds:
			return dtype.I64, nil
		}
	case TimestampID:
		if m.Unit != Days && m.Unit <= Days {
			return dtype.I64, nil
		}
	default:
		return 0, errors.Wrapf(ErrInvalidTemporal, "unknown temporal extension %s", m.ID)
	}
	return 0, errors.Wrapf(ErrInvalidTemporal, "unit %s not supported for %s", m.Unit, m.ID)
}

func (m Metadata) encode() []byte {
	if m.ID != TimestampID {
		return []byte{byte(m.Unit)}
	}
	out := make([]byte, 3+len(m.TimeZone))
	out[0] = byte(m.Unit)
	binary.LittleEndian.PutUint16(out[1:3], uint16(len(m.TimeZone)))
	copy(out[3:], m.TimeZone)
	return out
}

func decodeMetadata(id dtype.ExtID, metadata []byte) (Metadata, error) {
	if len(metadata) < 1 {
		return Metadata{}, errors.Wrap(ErrInvalidTemporal, "missing time unit")
	}
	out := Metadata{ID: id, Unit: TimeUnit(metadata[0])}
	if id != TimestampID {
		if len(metadata) != 1 {
			return Metadata{}, errors.Wrapf(ErrInvalidTemporal, "expected 1 metadata byte, got %d", len(metadata))
		}
		return out, nil
	}
	if len(metadata) < 3 {
		return Metadata{}, errors.Wrap(ErrInvalidTemporal, "missing timezone length")
	}
	tzLength := int(binary.LittleEndian.Uint16(metadata[1:3]))
	if len(metadata) != 3+tzLength {
		return Metadata{}, errors.Wrapf(ErrInvalidTemporal, "timezone length %d doesn't match %d remaining bytes", tzLength, len(metadata)-3)
	}
	out.TimeZone = string(metadata[3:])
	return out, nil
}

func newTemporal(m Metadata, n dtype.Nullability) (dtype.DType, error) {
	ptype, err := m.StoragePType()
	if err != nil {
		return dtype.DType{}, err
	}
	if len(m.TimeZone) > math.MaxUint16 {
		return dtype.DType{}, errors.Wrapf(ErrInvalidTemporal, "timezone longer than %d bytes", math.MaxUint16)
	}
	ext := dtype.NewExtType(m.ID, dtype.MakePrimitive(ptype, n)).WithMetadata(m.encode())
	return dtype.MakeExtension(ext), nil
}

// MakeDate supports Days (i32 storage) and Milliseconds (i64 storage).
func MakeDate(unit TimeUnit, n dtype.Nullability) (dtype.DType, error) {
	return newTemporal(Metadata{ID: DateID, Unit: unit}, n)
}

// MakeTime supports Seconds and Milliseconds (i32 storage), Microseconds and Nanoseconds (i64 storage).
func MakeTime(unit TimeUnit, n dtype.Nullability) (dtype.DType, error) {
	return newTemporal(Metadata{ID: TimeID, Unit: unit}, n)
}

// MakeTimestamp supports every unit but Days. An empty timezone means the timestamp is zone-naive.
func MakeTimestamp(unit TimeUnit, timeZone string, n dtype.Nullability) (dtype.DType, error) {
	return newTemporal(Metadata{ID: TimestampID, Unit: unit, TimeZone: timeZone}, n)
}

func IsTemporal(ext dtype.ExtType) bool {
	switch ext.ID() {
	case DateID, TimeID, TimestampID:
		return true
	}
	return false
}

// FromExtension decodes and validates the metadata of a temporal extension type.
func FromExtension(ext dtype.ExtType) (Metadata, error) {
	if !IsTemporal(ext) {
		return Metadata{}, errors.Wrapf(ErrInvalidTemporal, "%s is not a temporal extension", ext.ID())
	}
	metadata, ok := ext.Metadata()
	if !ok {
		return Metadata{}, errors.Wrapf(ErrInvalidTemporal, "%s without metadata", ext.ID())
	}
	out, err := decodeMetadata(ext.ID(), metadata)
	if err != nil {
		return Metadata{}, err
	}
	ptype, err := out.StoragePType()
	if err != nil {
		return Metadata{}, err
	}
	storage, ok := ext.Storage().AsPrimitive()
	if !ok || storage != ptype {
		return Metadata{}, errors.Wrapf(ErrInvalidTemporal, "%s stored as %s, expected %s", out, ext.Storage(), ptype)
	}
	return out, nil
}
