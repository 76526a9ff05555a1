package docs

import (
	"fmt"

	"github.com/cube2222/octotype/dtype"
)

// ExtensionDescriber explains extension metadata, see extensions.Registry.
type ExtensionDescriber interface {
	Describe(ext dtype.ExtType) string
}

// Outline documents the tree of t, one list item per record field, list element and extension storage.
// The describer may be nil.
func Outline(t dtype.DType, describer ExtensionDescriber) Documentation {
	children := outlineChildren(t, describer)
	if len(children) == 0 {
		return Section(t.String(), Text(label(t, describer)))
	}
	return Section(t.String(), List(children...))
}

func outlineChildren(t dtype.DType, describer ExtensionDescriber) []Documentation {
	switch t.ID() {
	case dtype.TypeIDRecord:
		record, _ := t.AsRecord()
		out := make([]Documentation, record.Arity())
		for i := range out {
			out[i] = outlineItem(record.Name(i), record.FieldAt(i), describer)
		}
		return out
	case dtype.TypeIDList:
		element, _ := t.AsList()
		return []Documentation{outlineItem("element", element, describer)}
	case dtype.TypeIDExtension:
		ext, _ := t.AsExtension()
		return []Documentation{outlineItem("storage", ext.Storage(), describer)}
	}
	return nil
}

func outlineItem(name string, t dtype.DType, describer ExtensionDescriber) Documentation {
	return Item(fmt.Sprintf("%s: %s", name, label(t, describer)), outlineChildren(t, describer)...)
}

func label(t dtype.DType, describer ExtensionDescriber) string {
	switch t.ID() {
	case dtype.TypeIDRecord:
		record, _ := t.AsRecord()
		return fmt.Sprintf("record%s with %d fields", t.Nullability(), record.Arity())
	case dtype.TypeIDList:
		return fmt.Sprintf("list%s", t.Nullability())
	case dtype.TypeIDExtension:
		ext, _ := t.AsExtension()
		out := fmt.Sprintf("extension %s%s", ext.ID(), t.Nullability())
		if describer != nil {
			if description := describer.Describe(ext); description != "" {
				out += " (" + description + ")"
			}
		}
		return out
	default:
		return t.String()
	}
}
