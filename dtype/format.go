package dtype

import (
	"strconv"
	"strings"
)

// String renders the type for logs and error messages.
// The output is deterministic but isn't meant to be parsed back.
func (t DType) String() string {
	builder := &strings.Builder{}
	t.append(builder)
	return builder.String()
}

func (t DType) append(builder *strings.Builder) {
	switch t.id {
	case TypeIDNull:
		builder.WriteString("null")
		return

	case TypeIDBool:
		builder.WriteString("bool")

	case TypeIDPrimitive:
		builder.WriteString(t.ptype.String())

	case TypeIDDecimal:
		builder.WriteString(t.decimal.String())

	case TypeIDUtf8:
		builder.WriteString("utf8")

	case TypeIDBinary:
		builder.WriteString("binary")

	case TypeIDRecord:
		record := t.node.record
		builder.WriteString("{")
		for i := range record.names {
			if i > 0 {
				builder.WriteString(", ")
			}
			builder.WriteString(record.names[i])
			builder.WriteString("=")
			record.fields[i].append(builder)
		}
		builder.WriteString("}")

	case TypeIDList:
		builder.WriteString("list(")
		t.node.element.append(builder)
		builder.WriteString(")")

	case TypeIDExtension:
		ext := t.node.ext
		builder.WriteString("ext(")
		builder.WriteString(string(ext.id))
		builder.WriteString(", ")
		ext.storage.append(builder)
		if ext.hasMetadata {
			builder.WriteString(", b")
			builder.WriteString(strconv.Quote(string(ext.metadata)))
		}
		builder.WriteString(")")

	default:
		panic("impossible, type switch bug")
	}
	builder.WriteString(t.Nullability().String())
}
