package ld

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fromJSON decodes a JSON literal used as test input or expectation.
func fromJSON(t *testing.T, body string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func expand(t *testing.T, body string, opts *JsonLdOptions) []interface{} {
	t.Helper()
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(fromJSON(t, body), opts)
	require.NoError(t, err)
	return expanded
}

func TestExpand(t *testing.T) {
	for _, tc := range []struct {
		name     string
		input    string
		expected string
	}{
		{
			"compact property",
			`{"@context":{"name":"http://schema.org/name"},"name":"Alice"}`,
			`[{"http://schema.org/name":[{"@value":"Alice"}]}]`,
		},
		{
			"type-scoped context",
			`{"@context":{"@vocab":"http://ex/","Person":{"@id":"Person","@context":{"name":"http://schema.org/name"}}},
			  "@type":"Person","name":"Bob"}`,
			`[{"@type":["http://ex/Person"],"http://schema.org/name":[{"@value":"Bob"}]}]`,
		},
		{
			"property-scoped context",
			`{"@context":{"@vocab":"http://ex/","knows":{"@context":{"name":"http://schema.org/name"}}},
			  "knows":{"name":"Eve"}}`,
			`[{"http://ex/knows":[{"http://schema.org/name":[{"@value":"Eve"}]}]}]`,
		},
		{
			"list container",
			`{"@context":{"tags":{"@id":"http://ex/tags","@container":"@list"}},"tags":["a","b"]}`,
			`[{"http://ex/tags":[{"@list":[{"@value":"a"},{"@value":"b"}]}]}]`,
		},
		{
			"explicit list keyword",
			`{"@context":{"@vocab":"http://ex/"},"prop":{"@list":["a"]}}`,
			`[{"http://ex/prop":[{"@list":[{"@value":"a"}]}]}]`,
		},
		{
			"set is unwrapped",
			`{"@context":{"@vocab":"http://ex/"},"prop":{"@set":["a"]}}`,
			`[{"http://ex/prop":[{"@value":"a"}]}]`,
		},
		{
			"JSON literal",
			`{"@context":{"v":{"@id":"http://ex/v","@type":"@json"}},"v":{"x":1}}`,
			`[{"http://ex/v":[{"@value":{"x":1},"@type":"@json"}]}]`,
		},
		{
			"language map container",
			`{"@context":{"label":{"@id":"http://ex/label","@container":"@language"}},
			  "label":{"en":"Hi","de":["Hallo"]}}`,
			`[{"http://ex/label":[{"@value":"Hallo","@language":"de"},{"@value":"Hi","@language":"en"}]}]`,
		},
		{
			"index map container",
			`{"@context":{"@vocab":"http://ex/","post":{"@container":"@index"}},
			  "post":{"en":{"@id":"http://ex/p1"}}}`,
			`[{"http://ex/post":[{"@id":"http://ex/p1","@index":"en"}]}]`,
		},
		{
			"id map container",
			`{"@context":{"@vocab":"http://ex/","post":{"@container":"@id"}},
			  "post":{"http://ex/p1":{"name":"x"}}}`,
			`[{"http://ex/post":[{"@id":"http://ex/p1","http://ex/name":[{"@value":"x"}]}]}]`,
		},
		{
			"type map container",
			`{"@context":{"@vocab":"http://ex/","stuff":{"@container":"@type"}},
			  "stuff":{"Person":{"@id":"http://ex/p"}}}`,
			`[{"http://ex/stuff":[{"@id":"http://ex/p","@type":["http://ex/Person"]}]}]`,
		},
		{
			"graph container",
			`{"@context":{"@vocab":"http://ex/","claims":{"@container":"@graph"}},"claims":{"name":"x"}}`,
			`[{"http://ex/claims":[{"@graph":[{"http://ex/name":[{"@value":"x"}]}]}]}]`,
		},
		{
			"reverse term",
			`{"@context":{"children":{"@reverse":"http://ex/parent"}},
			  "@id":"http://ex/a","children":[{"@id":"http://ex/b"}]}`,
			`[{"@id":"http://ex/a","@reverse":{"http://ex/parent":[{"@id":"http://ex/b"}]}}]`,
		},
		{
			"reverse keyword",
			`{"@id":"http://ex/a","@reverse":{"http://ex/parent":{"@id":"http://ex/b"}}}`,
			`[{"@id":"http://ex/a","@reverse":{"http://ex/parent":[{"@id":"http://ex/b"}]}}]`,
		},
		{
			"nested properties",
			`{"@context":{"@vocab":"http://ex/","meta":"@nest"},
			  "@id":"http://ex/s","meta":{"name":"Bob"}}`,
			`[{"@id":"http://ex/s","http://ex/name":[{"@value":"Bob"}]}]`,
		},
		{
			"included blocks",
			`{"@context":{"@vocab":"http://ex/"},"@id":"http://ex/s","name":"a",
			  "@included":[{"@id":"http://ex/t","name":"b"}]}`,
			`[{"@id":"http://ex/s","http://ex/name":[{"@value":"a"}],
			   "@included":[{"@id":"http://ex/t","http://ex/name":[{"@value":"b"}]}]}]`,
		},
		{
			"base direction from context",
			`{"@context":{"@language":"ar","@direction":"rtl"},"http://ex/title":"X"}`,
			`[{"http://ex/title":[{"@value":"X","@language":"ar","@direction":"rtl"}]}]`,
		},
		{
			"free-floating scalar dropped",
			`["loose"]`,
			`[]`,
		},
		{
			"free-floating value object dropped",
			`{"@value":"loose"}`,
			`[]`,
		},
		{
			"free-floating node kept when it has properties",
			`{"http://ex/p":"v"}`,
			`[{"http://ex/p":[{"@value":"v"}]}]`,
		},
		{
			"lone @language dropped",
			`{"@context":{"@vocab":"http://ex/"},"prop":{"@language":"en"}}`,
			`[]`,
		},
		{
			"null values dropped",
			`{"@context":{"@vocab":"http://ex/"},"prop":null}`,
			`[]`,
		},
		{
			"top-level @graph unwrapped",
			`{"@graph":[{"@id":"http://ex/a","http://ex/p":"v"}]}`,
			`[{"@id":"http://ex/a","http://ex/p":[{"@value":"v"}]}]`,
		},
		{
			"keyword aliases",
			`{"@context":{"id":"@id","type":"@type"},
			  "id":"http://ex/a","type":"http://ex/T"}`,
			`[{"@id":"http://ex/a","@type":["http://ex/T"]}]`,
		},
		{
			"blank node identifiers survive",
			`{"@id":"_:b1","http://ex/p":{"@id":"_:b2"}}`,
			`[{"@id":"_:b1","http://ex/p":[{"@id":"_:b2"}]}]`,
		},
		{
			"typed value",
			`{"@context":{"age":{"@id":"http://ex/age","@type":"http://www.w3.org/2001/XMLSchema#integer"}},"age":30}`,
			`[{"http://ex/age":[{"@value":30,"@type":"http://www.w3.org/2001/XMLSchema#integer"}]}]`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual := expand(t, tc.input, nil)
			if diff := cmp.Diff(fromJSON(t, tc.expected), interface{}(actual)); diff != "" {
				t.Errorf("unexpected expansion (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpand_Idempotent(t *testing.T) {
	inputs := []string{
		`{"@context":{"name":"http://schema.org/name"},"name":"Alice"}`,
		`{"@context":{"tags":{"@id":"http://ex/tags","@container":"@list"}},"tags":["a","b"]}`,
		`{"@context":{"@vocab":"http://ex/"},"@id":"http://ex/s","a":{"b":"c"}}`,
	}
	proc := NewJsonLdProcessor()
	for _, input := range inputs {
		once := expand(t, input, nil)
		twice, err := proc.Expand(CloneDocument(once), nil)
		require.NoError(t, err)
		assert.True(t, DeepCompare(once, twice, true), "expansion must be idempotent")
	}
}

func TestExpand_Errors(t *testing.T) {
	proc := NewJsonLdProcessor()
	for _, tc := range []struct {
		name  string
		input string
		code  ErrorCode
	}{
		{"invalid @id", `{"@id":5}`, InvalidIDValue},
		{"invalid @type", `{"http://ex/p":"x","@type":5}`, InvalidTypeValue},
		{"colliding keywords", `{"@context":{"id":"@id"},"@id":"http://ex/a","id":"http://ex/b"}`, CollidingKeywords},
		{"value with disallowed sibling", `{"http://ex/p":{"@value":"v","@id":"http://ex/x"}}`, InvalidValueObject},
		{"value with language and type",
			`{"http://ex/p":{"@value":"v","@language":"en","@type":"http://ex/T"}}`, InvalidValueObject},
		{"structured @value", `{"http://ex/p":{"@value":{"x":1}}}`, InvalidValueObjectValue},
		{"non-string @language", `{"http://ex/p":{"@value":"v","@language":5}}`, InvalidLanguageTaggedString},
		{"non-string language-tagged value",
			`{"http://ex/p":{"@value":5,"@language":"en"}}`, InvalidLanguageTaggedValue},
		{"blank node typed value", `{"http://ex/p":{"@value":"v","@type":"_:b0"}}`, InvalidTypedValue},
		{"invalid @index", `{"http://ex/p":"x","@index":5}`, InvalidIndexValue},
		{"invalid @reverse", `{"@reverse":"x"}`, InvalidReverseValue},
		{"reverse property with value",
			`{"@context":{"children":{"@reverse":"http://ex/parent"}},"@id":"http://ex/a","children":["x"]}`,
			InvalidReversePropertyValue},
		{"keyword under @reverse", `{"@reverse":{"@id":"http://ex/a"}}`, InvalidReversePropertyMap},
		{"invalid @nest value", `{"@context":{"@vocab":"http://ex/","meta":"@nest"},"meta":"x","p":"y"}`,
			InvalidNestValue},
		{"nest with @value", `{"@context":{"@vocab":"http://ex/","meta":"@nest"},"meta":{"@value":"x"},"p":"y"}`,
			InvalidNestValue},
		{"invalid @direction", `{"http://ex/p":{"@value":"v","@direction":"up"}}`, InvalidBaseDirection},
		{"set with extra keys", `{"http://ex/p":{"@set":["a"],"@id":"http://ex/x"}}`, InvalidSetOrListObject},
		{"non-string language map entry",
			`{"@context":{"label":{"@id":"http://ex/l","@container":"@language"}},"label":{"en":5}}`,
			InvalidLanguageMapValue},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := proc.Expand(fromJSON(t, tc.input), nil)
			assertErrorCode(t, err, tc.code)
		})
	}
}

func TestExpand_OverridesProtectedViaPropertyScope(t *testing.T) {
	input := fromJSON(t, `{
		"@context": {
			"@protected": true,
			"name": "http://schema.org/name",
			"detail": {
				"@id": "http://ex/detail",
				"@context": {"name": "http://ex/name"}
			}
		},
		"name": "outer",
		"detail": {"name": "inner"}
	}`)
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(input, nil)
	require.NoError(t, err)

	expected := fromJSON(t, `[{
		"http://schema.org/name": [{"@value": "outer"}],
		"http://ex/detail": [{"http://ex/name": [{"@value": "inner"}]}]
	}]`)
	assert.True(t, DeepCompare(expected, expanded, true))
}

func TestExpand_TypeScopedContextReverted(t *testing.T) {
	// the type-scoped term "name" must not leak into nested nodes
	input := fromJSON(t, `{
		"@context": {
			"@vocab": "http://ex/",
			"Person": {"@id": "Person", "@context": {"name": "http://schema.org/name"}}
		},
		"@type": "Person",
		"name": "Bob",
		"friend": {"name": "Eve"}
	}`)
	proc := NewJsonLdProcessor()
	expanded, err := proc.Expand(input, nil)
	require.NoError(t, err)

	expected := fromJSON(t, `[{
		"@type": ["http://ex/Person"],
		"http://schema.org/name": [{"@value": "Bob"}],
		"http://ex/friend": [{"http://ex/name": [{"@value": "Eve"}]}]
	}]`)
	assert.True(t, DeepCompare(expected, expanded, true),
		"got: %v", expanded)
}

func TestExpand_OrderedOption(t *testing.T) {
	opts := NewJsonLdOptions("")
	opts.Ordered = true
	actual := expand(t, `{"@context":{"name":"http://schema.org/name"},"name":"Alice"}`, opts)
	expected := fromJSON(t, `[{"http://schema.org/name":[{"@value":"Alice"}]}]`)
	assert.True(t, DeepCompare(expected, actual, true))
}
