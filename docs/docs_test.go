package docs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/octotype/dtype"
)

type fixedDescriber map[dtype.ExtID]string

func (d fixedDescriber) Describe(ext dtype.ExtType) string {
	return d[ext.ID()]
}

func render(d Documentation) string {
	var sb strings.Builder
	RenderDocumentation(d, &sb)
	return sb.String()
}

func TestRenderDocumentation(t *testing.T) {
	doc := Body(
		Section("Types", List(
			Item("a"),
			Item("b", Item("b1"), Item("b2", Item("b2a"))),
		)),
		Text("done"),
	)
	assert.Equal(t, "# Types\n* a\n* b\n\t* b1\n\t* b2\n\t\t* b2a\n\ndone\n", render(doc))
}

func TestOutline(t *testing.T) {
	uuid := dtype.MakeExtension(dtype.NewExtType("app.uuid", dtype.MakeBinary(dtype.NonNullable)))
	record, err := dtype.NewRecord(
		[]string{"id", "tags", "owner"},
		[]dtype.DType{
			uuid,
			dtype.MakeList(dtype.MakeUtf8(dtype.Nullable), dtype.Nullable),
			dtype.MakeExtension(dtype.NewExtType("other", dtype.MakePrimitive(dtype.I32, dtype.Nullable))),
		},
		dtype.NonNullable,
	)
	require.NoError(t, err)

	got := render(Outline(record, fixedDescriber{"app.uuid": "RFC 4122 UUID"}))
	assert.Equal(t, "# "+record.String()+"\n"+
		"* id: extension app.uuid! (RFC 4122 UUID)\n"+
		"\t* storage: binary!\n"+
		"* tags: list?\n"+
		"\t* element: utf8?\n"+
		"* owner: extension other?\n"+
		"\t* storage: i32?\n", got)
}

func TestOutlineLeaf(t *testing.T) {
	assert.Equal(t, "# i64!\ni64!\n", render(Outline(dtype.MakePrimitive(dtype.I64, dtype.NonNullable), nil)))
}
