// Package typespec reads and writes DTypes as YAML documents, e.g.
//
//	type: record
//	nullable: false
//	fields:
//	  - name: id
//	    type: i64
//	    nullable: false
//	  - name: created_at
//	    type: timestamp
//	    unit: us
//	    timezone: UTC
//	  - name: tags
//	    type: list
//	    element: {type: utf8}
//
// Nullable defaults to true. Extension metadata is written as a hex string.
package typespec

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cube2222/octotype/dtype"
	"github.com/cube2222/octotype/temporal"
)

const (
	TypeNull      = "null"
	TypeBool      = "bool"
	TypeDecimal   = "decimal"
	TypeUtf8      = "utf8"
	TypeBinary    = "binary"
	TypeRecord    = "record"
	TypeList      = "list"
	TypeExtension = "extension"
	TypeDate      = "date"
	TypeTime      = "time"
	TypeTimestamp = "timestamp"
)

type Spec struct {
	Type      string  `yaml:"type"`
	Nullable  *bool   `yaml:"nullable,omitempty"`
	Precision uint8   `yaml:"precision,omitempty"`
	Scale     int8    `yaml:"scale,omitempty"`
	Fields    []Field `yaml:"fields,omitempty"`
	Element   *Spec   `yaml:"element,omitempty"`
	ID        string  `yaml:"id,omitempty"`
	Storage   *Spec   `yaml:"storage,omitempty"`
	Metadata  *string `yaml:"metadata,omitempty"`
	Unit      string  `yaml:"unit,omitempty"`
	TimeZone  string  `yaml:"timezone,omitempty"`
}

type Field struct {
	Name string `yaml:"name"`
	Spec `yaml:",inline"`
}

func Parse(data []byte) (Spec, error) {
	var spec Spec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return Spec{}, errors.Wrap(err, "couldn't decode yaml type spec")
	}
	return spec, nil
}

func ReadFile(path string) (Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, errors.Wrap(err, "couldn't read type spec file")
	}
	return Parse(data)
}

func (spec *Spec) nullability() dtype.Nullability {
	if spec.Nullable == nil {
		return dtype.Nullable
	}
	return dtype.NullabilityOf(*spec.Nullable)
}

// Build constructs the DType this Spec describes.
func (spec *Spec) Build() (dtype.DType, error) {
	return spec.build("$")
}

func (spec *Spec) build(path string) (dtype.DType, error) {
	n := spec.nullability()

	if ptype, ok := dtype.PTypeFromString(spec.Type); ok {
		return dtype.MakePrimitive(ptype, n), nil
	}

	switch spec.Type {
	case TypeNull:
		if spec.Nullable != nil && !*spec.Nullable {
			return dtype.DType{}, errors.Errorf("%s: null type can't be non-nullable", path)
		}
		return dtype.Null, nil
	case TypeBool:
		return dtype.MakeBool(n), nil
	case TypeDecimal:
		out, err := dtype.NewDecimal(spec.Precision, spec.Scale, n)
		if err != nil {
			return dtype.DType{}, errors.Wrapf(err, "%s", path)
		}
		return out, nil
	case TypeUtf8:
		return dtype.MakeUtf8(n), nil
	case TypeBinary:
		return dtype.MakeBinary(n), nil
	case TypeRecord:
		names := make([]string, len(spec.Fields))
		fields := make([]dtype.DType, len(spec.Fields))
		for i := range spec.Fields {
			field, err := spec.Fields[i].build(path + "." + spec.Fields[i].Name)
			if err != nil {
				return dtype.DType{}, err
			}
			names[i] = spec.Fields[i].Name
			fields[i] = field
		}
		return dtype.NewRecord(names, fields, n)
	case TypeList:
		if spec.Element == nil {
			return dtype.DType{}, errors.Errorf("%s: list without element type", path)
		}
		element, err := spec.Element.build(path + "[]")
		if err != nil {
			return dtype.DType{}, err
		}
		return dtype.MakeList(element, n), nil
	case TypeExtension:
		if spec.ID == "" {
			return dtype.DType{}, errors.Errorf("%s: extension without id", path)
		}
		if spec.Storage == nil {
			return dtype.DType{}, errors.Errorf("%s: extension without storage type", path)
		}
		storage, err := spec.Storage.build(path)
		if err != nil {
			return dtype.DType{}, err
		}
		if spec.Nullable != nil {
			storage = storage.WithNullability(n)
		}
		ext := dtype.NewExtType(dtype.ExtID(spec.ID), storage)
		if spec.Metadata != nil {
			metadata, err := hex.DecodeString(*spec.Metadata)
			if err != nil {
				return dtype.DType{}, errors.Wrapf(err, "%s: couldn't decode extension metadata", path)
			}
			ext = ext.WithMetadata(metadata)
		}
		return dtype.MakeExtension(ext), nil
	case TypeDate, TypeTime, TypeTimestamp:
		return spec.buildTemporal(path, n)
	case "":
		return dtype.DType{}, errors.Errorf("%s: missing type", path)
	default:
		return dtype.DType{}, errors.Errorf("%s: unknown type %s", path, spec.Type)
	}
}

func (spec *Spec) buildTemporal(path string, n dtype.Nullability) (dtype.DType, error) {
	unit := temporal.Microseconds
	if spec.Type == TypeDate {
		unit = temporal.Days
	}
	if spec.Unit != "" {
		var ok bool
		if unit, ok = temporal.TimeUnitFromString(spec.Unit); !ok {
			return dtype.DType{}, errors.Errorf("%s: unknown time unit %s", path, spec.Unit)
		}
	}

	var out dtype.DType
	var err error
	switch spec.Type {
	case TypeDate:
		out, err = temporal.MakeDate(unit, n)
	case TypeTime:
		out, err = temporal.MakeTime(unit, n)
	default:
		out, err = temporal.MakeTimestamp(unit, spec.TimeZone, n)
	}
	if err != nil {
		return dtype.DType{}, errors.Wrapf(err, "%s", path)
	}
	return out, nil
}

// FromDType describes t as a spec. Temporal extensions use the date, time and timestamp shorthands.
func FromDType(t dtype.DType) Spec {
	nullable := func() *bool {
		out := t.IsNullable()
		return &out
	}

	switch t.ID() {
	case dtype.TypeIDNull:
		return Spec{Type: TypeNull}
	case dtype.TypeIDBool:
		return Spec{Type: TypeBool, Nullable: nullable()}
	case dtype.TypeIDPrimitive:
		ptype, _ := t.AsPrimitive()
		return Spec{Type: ptype.String(), Nullable: nullable()}
	case dtype.TypeIDDecimal:
		decimal, _ := t.AsDecimal()
		return Spec{Type: TypeDecimal, Nullable: nullable(), Precision: decimal.Precision(), Scale: decimal.Scale()}
	case dtype.TypeIDUtf8:
		return Spec{Type: TypeUtf8, Nullable: nullable()}
	case dtype.TypeIDBinary:
		return Spec{Type: TypeBinary, Nullable: nullable()}
	case dtype.TypeIDRecord:
		record, _ := t.AsRecord()
		fields := make([]Field, record.Arity())
		for i := range fields {
			fields[i] = Field{Name: record.Name(i), Spec: FromDType(record.FieldAt(i))}
		}
		return Spec{Type: TypeRecord, Nullable: nullable(), Fields: fields}
	case dtype.TypeIDList:
		element, _ := t.AsList()
		elementSpec := FromDType(element)
		return Spec{Type: TypeList, Nullable: nullable(), Element: &elementSpec}
	case dtype.TypeIDExtension:
		ext, _ := t.AsExtension()
		if metadata, err := temporal.FromExtension(ext); err == nil {
			return temporalSpec(metadata, nullable())
		}
		storage := FromDType(ext.Storage())
		out := Spec{Type: TypeExtension, ID: string(ext.ID()), Storage: &storage}
		if metadata, ok := ext.Metadata(); ok {
			encoded := hex.EncodeToString(metadata)
			out.Metadata = &encoded
		}
		return out
	}
	panic("impossible, type switch bug")
}

func temporalSpec(metadata temporal.Metadata, nullable *bool) Spec {
	out := Spec{Nullable: nullable, Unit: metadata.Unit.String(), TimeZone: metadata.TimeZone}
	switch metadata.ID {
	case temporal.DateID:
		out.Type = TypeDate
	case temporal.TimeID:
		out.Type = TypeTime
	case temporal.TimestampID:
		out.Type = TypeTimestamp
	default:
		panic(fmt.Sprintf("impossible, unknown temporal id %s", metadata.ID))
	}
	return out
}

func Marshal(t dtype.DType) ([]byte, error) {
	spec := FromDType(t)
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&spec); err != nil {
		return nil, errors.Wrap(err, "couldn't encode yaml type spec")
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(err, "couldn't encode yaml type spec")
	}
	return buf.Bytes(), nil
}
