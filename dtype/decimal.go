package dtype

import (
	"fmt"

	"github.com/pkg/errors"
)

// MaxDecimalPrecision is the largest precision representable in a 128-bit decimal.
const MaxDecimalPrecision = 38

// DecimalDType describes exact fixed-point numbers.
// Only values returned by NewDecimalDType are valid, the zero value isn't.
// A negative scale describes scaled integers, e.g. precision 3 scale -2 holds multiples of 100 up to 99900.
type DecimalDType struct {
	precision uint8
	scale     int8
}

func NewDecimalDType(precision uint8, scale int8) (DecimalDType, error) {
	if err := validateDecimal(precision, scale); err != nil {
		return DecimalDType{}, err
	}
	return DecimalDType{precision: precision, scale: scale}, nil
}

func validateDecimal(precision uint8, scale int8) error {
	if precision < 1 || precision > MaxDecimalPrecision {
		return errors.Wrapf(ErrInvalidPrecisionScale, "precision %d out of range [1, %d]", precision, MaxDecimalPrecision)
	}
	if int(scale) > int(precision) {
		return errors.Wrapf(ErrInvalidPrecisionScale, "scale %d exceeds precision %d", scale, precision)
	}
	if int(scale) < -MaxDecimalPrecision {
		return errors.Wrapf(ErrInvalidPrecisionScale, "scale %d below %d", scale, -MaxDecimalPrecision)
	}
	return nil
}

func (d DecimalDType) Precision() uint8 {
	return d.precision
}

func (d DecimalDType) Scale() int8 {
	return d.scale
}

func (d DecimalDType) String() string {
	return fmt.Sprintf("decimal(%d, %d)", d.precision, d.scale)
}
