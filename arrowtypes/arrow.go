// Package arrowtypes converts between DTypes and Apache Arrow data types.
//
// Arrow keeps nullability on fields rather than types, so it is carried over through
// arrow.Field everywhere a DType sits below a record or list. Temporal extensions map onto
// Arrow's native date, time and timestamp types. Other extension types are exported as their
// storage type, so their id and metadata don't survive a round trip.
package arrowtypes

import (
	"math"

	"github.com/apache/arrow/go/v13/arrow"
	"github.com/pkg/errors"

	"github.com/cube2222/octotype/dtype"
	"github.com/cube2222/octotype/temporal"
)

var ErrUnsupportedArrowType = errors.New("unsupported arrow type")

func ToArrowField(name string, t dtype.DType) (arrow.Field, error) {
	arrowType, err := ToArrow(t)
	if err != nil {
		return arrow.Field{}, errors.Wrapf(err, "couldn't convert field %s", name)
	}
	return arrow.Field{
		Name:     name,
		Type:     arrowType,
		Nullable: t.IsNullable(),
	}, nil
}

// ToArrowSchema converts a top-level record into an Arrow schema.
func ToArrowSchema(t dtype.DType) (*arrow.Schema, error) {
	record, ok := t.AsRecord()
	if !ok {
		return nil, errors.Errorf("schema must be a record, got %s", t)
	}
	fields := make([]arrow.Field, record.Arity())
	for i := range fields {
		field, err := ToArrowField(record.Name(i), record.FieldAt(i))
		if err != nil {
			return nil, err
		}
		fields[i] = field
	}
	return arrow.NewSchema(fields, nil), nil
}

func ToArrow(t dtype.DType) (arrow.DataType, error) {
	switch t.ID() {
	case dtype.TypeIDNull:
		return arrow.Null, nil
	case dtype.TypeIDBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case dtype.TypeIDPrimitive:
		ptype, _ := t.AsPrimitive()
		return primitiveToArrow(ptype), nil
	case dtype.TypeIDDecimal:
		decimal, _ := t.AsDecimal()
		return &arrow.Decimal128Type{
			Precision: int32(decimal.Precision()),
			Scale:     int32(decimal.Scale()),
		}, nil
	case dtype.TypeIDUtf8:
		return arrow.BinaryTypes.String, nil
	case dtype.TypeIDBinary:
		return arrow.BinaryTypes.Binary, nil
	case dtype.TypeIDRecord:
		record, _ := t.AsRecord()
		fields := make([]arrow.Field, record.Arity())
		for i := range fields {
			field, err := ToArrowField(record.Name(i), record.FieldAt(i))
			if err != nil {
				return nil, err
			}
			fields[i] = field
		}
		return arrow.StructOf(fields...), nil
	case dtype.TypeIDList:
		element, _ := t.AsList()
		field, err := ToArrowField("item", element)
		if err != nil {
			return nil, errors.Wrap(err, "couldn't convert list element")
		}
		return arrow.ListOfField(field), nil
	case dtype.TypeIDExtension:
		ext, _ := t.AsExtension()
		if !temporal.IsTemporal(ext) {
			return ToArrow(ext.Storage())
		}
		metadata, err := temporal.FromExtension(ext)
		if err != nil {
			return nil, err
		}
		return temporalToArrow(metadata), nil
	}
	panic("impossible, type switch bug")
}

func primitiveToArrow(ptype dtype.PType) arrow.DataType {
	switch ptype {
	case dtype.U8:
		return arrow.PrimitiveTypes.Uint8
	case dtype.U16:
		return arrow.PrimitiveTypes.Uint16
	case dtype.U32:
		return arrow.PrimitiveTypes.Uint32
	case dtype.U64:
		return arrow.PrimitiveTypes.Uint64
	case dtype.I8:
		return arrow.PrimitiveTypes.Int8
	case dtype.I16:
		return arrow.PrimitiveTypes.Int16
	case dtype.I32:
		return arrow.PrimitiveTypes.Int32
	case dtype.I64:
		return arrow.PrimitiveTypes.Int64
	case dtype.F16:
		return arrow.FixedWidthTypes.Float16
	case dtype.F32:
		return arrow.PrimitiveTypes.Float32
	case dtype.F64:
		return arrow.PrimitiveTypes.Float64
	}
	panic("impossible, type switch bug")
}

func temporalToArrow(metadata temporal.Metadata) arrow.DataType {
	switch metadata.ID {
	case temporal.DateID:
		if metadata.Unit == temporal.Days {
			return arrow.FixedWidthTypes.Date32
		}
		return arrow.FixedWidthTypes.Date64
	case temporal.TimeID:
		switch metadata.Unit {
		case temporal.Seconds, temporal.Milliseconds:
			return &arrow.Time32Type{Unit: unitToArrow(metadata.Unit)}
		default:
			return &arrow.Time64Type{Unit: unitToArrow(metadata.Unit)}
		}
	default:
		return &arrow.TimestampType{Unit: unitToArrow(metadata.Unit), TimeZone: metadata.TimeZone}
	}
}

func unitToArrow(unit temporal.TimeUnit) arrow.TimeUnit {
	switch unit {
	case temporal.Seconds:
		return arrow.Second
	case temporal.Milliseconds:
		return arrow.Millisecond
	case temporal.Microseconds:
		return arrow.Microsecond
	default:
		return arrow.Nanosecond
	}
}

func unitFromArrow(unit arrow.TimeUnit) temporal.TimeUnit {
	switch unit {
	case arrow.Second:
		return temporal.Seconds
	case arrow.Millisecond:
		return temporal.Milliseconds
	case arrow.Microsecond:
		return temporal.Microseconds
	default:
		return temporal.Nanoseconds
	}
}

func FromArrowField(field arrow.Field) (dtype.DType, error) {
	t, err := FromArrow(field.Type, field.Nullable)
	if err != nil {
		return dtype.DType{}, errors.Wrapf(err, "couldn't convert field %s", field.Name)
	}
	return t, nil
}

// FromArrowSchema converts an Arrow schema into a non-nullable record.
func FromArrowSchema(schema *arrow.Schema) (dtype.DType, error) {
	return fromFields(schema.Fields(), dtype.NonNullable)
}

func fromFields(arrowFields []arrow.Field, n dtype.Nullability) (dtype.DType, error) {
	names := make([]string, len(arrowFields))
	fields := make([]dtype.DType, len(arrowFields))
	for i, field := range arrowFields {
		t, err := FromArrowField(field)
		if err != nil {
			return dtype.DType{}, err
		}
		names[i] = field.Name
		fields[i] = t
	}
	return dtype.NewRecord(names, fields, n)
}

func FromArrow(arrowType arrow.DataType, nullable bool) (dtype.DType, error) {
	n := dtype.NullabilityOf(nullable)

	switch arrowType.ID() {
	case arrow.NULL:
		return dtype.Null, nil
	case arrow.BOOL:
		return dtype.MakeBool(n), nil
	case arrow.UINT8:
		return dtype.MakePrimitive(dtype.U8, n), nil
	case arrow.UINT16:
		return dtype.MakePrimitive(dtype.U16, n), nil
	case arrow.UINT32:
		return dtype.MakePrimitive(dtype.U32, n), nil
	case arrow.UINT64:
		return dtype.MakePrimitive(dtype.U64, n), nil
	case arrow.INT8:
		return dtype.MakePrimitive(dtype.I8, n), nil
	case arrow.INT16:
		return dtype.MakePrimitive(dtype.I16, n), nil
	case arrow.INT32:
		return dtype.MakePrimitive(dtype.I32, n), nil
	case arrow.INT64:
		return dtype.MakePrimitive(dtype.I64, n), nil
	case arrow.FLOAT16:
		return dtype.MakePrimitive(dtype.F16, n), nil
	case arrow.FLOAT32:
		return dtype.MakePrimitive(dtype.F32, n), nil
	case arrow.FLOAT64:
		return dtype.MakePrimitive(dtype.F64, n), nil
	case arrow.DECIMAL128:
		decimal := arrowType.(*arrow.Decimal128Type)
		if decimal.Precision < 0 || decimal.Precision > math.MaxUint8 || decimal.Scale < math.MinInt8 || decimal.Scale > math.MaxInt8 {
			return dtype.DType{}, errors.Wrapf(dtype.ErrInvalidPrecisionScale, "precision %d, scale %d", decimal.Precision, decimal.Scale)
		}
		return dtype.NewDecimal(uint8(decimal.Precision), int8(decimal.Scale), n)
	case arrow.STRING, arrow.LARGE_STRING:
		return dtype.MakeUtf8(n), nil
	case arrow.BINARY, arrow.LARGE_BINARY:
		return dtype.MakeBinary(n), nil
	case arrow.STRUCT:
		return fromFields(arrowType.(*arrow.StructType).Fields(), n)
	case arrow.LIST:
		element, err := FromArrowField(arrowType.(*arrow.ListType).ElemField())
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.MakeList(element, n), nil
	case arrow.LARGE_LIST:
		element, err := FromArrowField(arrowType.(*arrow.LargeListType).ElemField())
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.MakeList(element, n), nil
	case arrow.DATE32:
		return temporal.MakeDate(temporal.Days, n)
	case arrow.DATE64:
		return temporal.MakeDate(temporal.Milliseconds, n)
	case arrow.TIME32:
		return temporal.MakeTime(unitFromArrow(arrowType.(*arrow.Time32Type).Unit), n)
	case arrow.TIME64:
		return temporal.MakeTime(unitFromArrow(arrowType.(*arrow.Time64Type).Unit), n)
	case arrow.TIMESTAMP:
		timestamp := arrowType.(*arrow.TimestampType)
		return temporal.MakeTimestamp(unitFromArrow(timestamp.Unit), timestamp.TimeZone, n)
	default:
		return dtype.DType{}, errors.Wrapf(ErrUnsupportedArrowType, "%s", arrowType)
	}
}
