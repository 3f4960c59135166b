package ld

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNQuads(t *testing.T) {
	t.Run("triples and quads", func(t *testing.T) {
		input := strings.Join([]string{
			`<http://ex/a> <http://ex/p> <http://ex/b> .`,
			`<http://ex/a> <http://ex/name> "Alice" .`,
			`<http://ex/a> <http://ex/name> "Alice"@en .`,
			`<http://ex/a> <http://ex/age> "30"^^<http://www.w3.org/2001/XMLSchema#integer> .`,
			`_:b0 <http://ex/p> _:b1 <http://ex/g> .`,
			`<http://ex/a> <http://ex/p> "v" _:g .`,
			``,
		}, "\n")

		dataset, err := ParseNQuads(input)
		require.NoError(t, err)

		defaultGraph := dataset.GetQuads("@default")
		require.Len(t, defaultGraph, 4)

		assert.Equal(t, NewIRI("http://ex/b"), defaultGraph[0].Object)
		assert.Equal(t, NewLiteral("Alice", XSDString, ""), defaultGraph[1].Object)
		assert.Equal(t, NewLiteral("Alice", RDFLangString, "en"), defaultGraph[2].Object)
		assert.Equal(t, NewLiteral("30", XSDInteger, ""), defaultGraph[3].Object)

		require.Len(t, dataset.GetQuads("http://ex/g"), 1)
		assert.Equal(t, NewBlankNode("_:b0"), dataset.GetQuads("http://ex/g")[0].Subject)
		require.Len(t, dataset.GetQuads("_:g"), 1)
	})

	t.Run("escapes round-trip", func(t *testing.T) {
		input := "<http://ex/a> <http://ex/p> \"line\\nbreak \\\"quoted\\\"\" .\n"
		dataset, err := ParseNQuads(input)
		require.NoError(t, err)
		literal := dataset.GetQuads("@default")[0].Object.(*Literal)
		assert.Equal(t, "line\nbreak \"quoted\"", literal.Value)

		serializer := &NQuadRDFSerializer{}
		out, err := serializer.Serialize(dataset)
		require.NoError(t, err)
		assert.Equal(t, input, out)
	})

	t.Run("duplicate quads are dropped", func(t *testing.T) {
		input := "<http://ex/a> <http://ex/p> \"v\" .\n<http://ex/a> <http://ex/p> \"v\" .\n"
		dataset, err := ParseNQuads(input)
		require.NoError(t, err)
		assert.Len(t, dataset.GetQuads("@default"), 1)
	})

	t.Run("invalid line", func(t *testing.T) {
		_, err := ParseNQuads("this is not a quad\n")
		assertErrorCode(t, err, SyntaxError)
	})

	t.Run("empty lines are skipped", func(t *testing.T) {
		dataset, err := ParseNQuads("\n  \n<http://ex/a> <http://ex/p> \"v\" .\n\n")
		require.NoError(t, err)
		assert.Len(t, dataset.GetQuads("@default"), 1)
	})
}

func TestNQuadSerializer(t *testing.T) {
	dataset := NewRDFDataset()
	dataset.AddQuad("@default", NewQuad(
		NewIRI("http://ex/a"), NewIRI("http://ex/p"), NewLiteral("v", "", ""), "@default"))
	dataset.AddQuad("http://ex/g", NewQuad(
		NewBlankNode("_:b0"), NewIRI("http://ex/p"), NewIRI("http://ex/b"), "http://ex/g"))

	serializer := &NQuadRDFSerializer{}
	out, err := serializer.Serialize(dataset)
	require.NoError(t, err)
	assert.Equal(t,
		"<http://ex/a> <http://ex/p> \"v\" .\n_:b0 <http://ex/p> <http://ex/b> <http://ex/g> .\n",
		out)

	var buf bytes.Buffer
	require.NoError(t, serializer.SerializeTo(&buf, dataset))
	assert.Equal(t, out, buf.String())

	parsed, err := serializer.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"@default", "http://ex/g"}, parsed.GraphNames())
}

func TestRDFDataset(t *testing.T) {
	dataset := NewRDFDataset()
	assert.Equal(t, []string{"@default"}, dataset.GraphNames())

	q1 := NewQuad(NewIRI("http://ex/a"), NewIRI("http://ex/p"), NewLiteral("v", "", ""), "@default")
	dataset.AddQuad("@default", q1)
	dataset.AddQuad("http://ex/g", NewQuad(
		NewIRI("http://ex/a"), NewIRI("http://ex/p"), NewLiteral("v", "", ""), "http://ex/g"))

	assert.Equal(t, []string{"@default", "http://ex/g"}, dataset.GraphNames())
	assert.Len(t, dataset.AllQuads(), 2)

	t.Run("quad equality", func(t *testing.T) {
		assert.True(t, q1.Equal(NewQuad(
			NewIRI("http://ex/a"), NewIRI("http://ex/p"), NewLiteral("v", XSDString, ""), "@default")))
		assert.False(t, q1.Equal(dataset.GetQuads("http://ex/g")[0]))
		assert.False(t, q1.Equal(nil))
	})

	t.Run("validity", func(t *testing.T) {
		bad := NewQuad(NewIRI("http://ex/a"), NewIRI("http://ex/p"),
			NewLiteral("v", "", "not a language!"), "@default")
		assert.False(t, bad.Valid())
		assert.True(t, q1.Valid())
	})
}
