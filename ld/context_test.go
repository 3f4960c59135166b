package ld

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_Parse(t *testing.T) {
	opts := NewJsonLdOptions("")

	t.Run("simple term definition", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"name":   "http://schema.org/name",
			"schema": "http://schema.org/",
		})
		require.NoError(t, err)
		td := ctx.GetTermDefinition("name")
		require.NotNil(t, td)
		assert.Equal(t, "http://schema.org/name", td.IRI)
		assert.False(t, td.Prefix)
		assert.True(t, ctx.GetTermDefinition("schema").Prefix,
			"simple terms ending in a gen-delim act as prefixes")
	})

	t.Run("expanded term definition", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"age": map[string]interface{}{
				"@id":   "http://schema.org/age",
				"@type": "http://www.w3.org/2001/XMLSchema#integer",
			},
		})
		require.NoError(t, err)
		td := ctx.GetTermDefinition("age")
		require.NotNil(t, td)
		assert.Equal(t, "http://schema.org/age", td.IRI)
		assert.Equal(t, XSDInteger, td.TypeMapping)
	})

	t.Run("null term blocks vocab expansion", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"@vocab": "http://example.com/",
			"name":   nil,
		})
		require.NoError(t, err)
		assert.True(t, ctx.HasTermDefinition("name"))
		assert.Nil(t, ctx.GetTermDefinition("name"))

		iri, err := ctx.ExpandIri("name", false, true, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "", iri)
	})

	t.Run("compact IRI resolution", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"schema": "http://schema.org/",
			"name":   "schema:name",
		})
		require.NoError(t, err)
		assert.Equal(t, "http://schema.org/name", ctx.GetTermDefinition("name").IRI)
	})

	t.Run("invalid version", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{"@version": 1.0})
		assertErrorCode(t, err, InvalidVersionValue)
	})

	t.Run("version in 1.0 mode", func(t *testing.T) {
		opts10 := NewJsonLdOptions("")
		opts10.ProcessingMode = JsonLd_1_0
		_, err := NewContext(opts10).Parse(map[string]interface{}{"@version": 1.1})
		assertErrorCode(t, err, ProcessingModeConflict)
	})

	t.Run("invalid base", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{"@base": true})
		assertErrorCode(t, err, InvalidBaseIRI)
	})

	t.Run("base resolution", func(t *testing.T) {
		withBase := NewJsonLdOptions("http://example.com/doc")
		ctx, err := NewContext(withBase).Parse(map[string]interface{}{"@base": "sub/"})
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/sub/", ctx.Base())
	})

	t.Run("invalid vocab", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{"@vocab": 5.0})
		assertErrorCode(t, err, InvalidVocabMapping)
	})

	t.Run("default language is lowercased", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{"@language": "EN"})
		require.NoError(t, err)
		assert.Equal(t, "en", ctx.language)
	})

	t.Run("invalid direction", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{"@direction": "up"})
		assertErrorCode(t, err, InvalidBaseDirection)
	})

	t.Run("keyword redefinition", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"@reverse": "http://example.com/reverse",
		})
		assertErrorCode(t, err, KeywordRedefinition)
	})

	t.Run("cannot alias @context", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"ctx": "@context",
		})
		assertErrorCode(t, err, InvalidKeywordAlias)
	})

	t.Run("cyclic IRI mapping", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"a": "b:x",
			"b": "a:y",
		})
		assertErrorCode(t, err, CyclicIRIMapping)
	})

	t.Run("term without vocab is invalid", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"name": map[string]interface{}{"@type": "@id"},
		})
		assertErrorCode(t, err, InvalidIRIMapping)
	})
}

func TestContext_ParseProtected(t *testing.T) {
	opts := NewJsonLdOptions("")

	protected := map[string]interface{}{
		"@protected": true,
		"name":       "http://schema.org/name",
	}

	t.Run("redefinition fails", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(protected)
		require.NoError(t, err)
		_, err = ctx.Parse(map[string]interface{}{
			"name": "http://example.com/name",
		})
		assertErrorCode(t, err, ProtectedTermRedefinition)
	})

	t.Run("identical redefinition is allowed", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(protected)
		require.NoError(t, err)
		_, err = ctx.Parse(map[string]interface{}{
			"name": "http://schema.org/name",
		})
		assert.NoError(t, err)
	})

	t.Run("override flag permits redefinition", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(protected)
		require.NoError(t, err)
		ctx2, err := ctx.parse(map[string]interface{}{
			"name": "http://example.com/name",
		}, "", nil, true, true, true)
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/name", ctx2.GetTermDefinition("name").IRI)
	})

	t.Run("nullification fails with protected terms", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(protected)
		require.NoError(t, err)
		_, err = ctx.Parse(nil)
		assertErrorCode(t, err, InvalidContextNullification)
	})

	t.Run("nullification without protected terms resets", func(t *testing.T) {
		ctx, err := NewContext(opts).Parse(map[string]interface{}{
			"name": "http://schema.org/name",
		})
		require.NoError(t, err)
		ctx2, err := ctx.Parse(nil)
		require.NoError(t, err)
		assert.False(t, ctx2.HasTermDefinition("name"))
	})
}

func TestContext_ParsePropagate(t *testing.T) {
	opts := NewJsonLdOptions("")

	ctx, err := NewContext(opts).Parse(map[string]interface{}{
		"name": "http://schema.org/name",
	})
	require.NoError(t, err)

	noPropagation, err := ctx.Parse(map[string]interface{}{
		"@propagate": false,
		"nick":       "http://example.com/nick",
	})
	require.NoError(t, err)
	require.NotNil(t, noPropagation.previousContext)
	assert.True(t, noPropagation.HasTermDefinition("nick"))
	assert.False(t, noPropagation.previousContext.HasTermDefinition("nick"))

	_, err = ctx.Parse(map[string]interface{}{"@propagate": "yes"})
	assertErrorCode(t, err, InvalidPropagateValue)
}

func TestContext_ParseRemote(t *testing.T) {
	expectedError := errors.New("failed")
	opts := NewJsonLdOptions("")
	opts.DocumentLoader = errorDocumentLoader{err: expectedError}

	t.Run("loader failure on @context URL is wrapped", func(t *testing.T) {
		_, err := NewContext(opts).Parse("http://example.org/foo.jsonld")
		jsonLdError := new(JsonLdError)
		require.ErrorAs(t, err, &jsonLdError)
		assert.Equal(t, LoadingRemoteContextFailed, jsonLdError.Code)
		assert.ErrorIs(t, err, expectedError, "DocumentLoader error is not wrapped")
	})

	t.Run("loader failure on @import is wrapped", func(t *testing.T) {
		_, err := NewContext(opts).Parse(map[string]interface{}{
			"@import": "http://example.org/foo.jsonld",
		})
		jsonLdError := new(JsonLdError)
		require.ErrorAs(t, err, &jsonLdError)
		assert.Equal(t, LoadingRemoteContextFailed, jsonLdError.Code)
		assert.ErrorIs(t, err, expectedError)
	})

	t.Run("remote context cycle", func(t *testing.T) {
		cyclic := NewJsonLdOptions("")
		cyclic.DocumentLoader = stubDocumentLoader{docs: map[string]interface{}{
			"http://example.org/a": map[string]interface{}{
				"@context": "http://example.org/b",
			},
			"http://example.org/b": map[string]interface{}{
				"@context": "http://example.org/a",
			},
		}}
		_, err := NewContext(cyclic).Parse("http://example.org/a")
		assertErrorCode(t, err, RecursiveContextInclusion)
	})

	t.Run("remote context merge", func(t *testing.T) {
		remote := NewJsonLdOptions("")
		remote.DocumentLoader = stubDocumentLoader{docs: map[string]interface{}{
			"http://example.org/ctx": map[string]interface{}{
				"@context": map[string]interface{}{
					"name": "http://schema.org/name",
				},
			},
		}}
		ctx, err := NewContext(remote).Parse("http://example.org/ctx")
		require.NoError(t, err)
		assert.Equal(t, "http://schema.org/name", ctx.GetTermDefinition("name").IRI)
	})

	t.Run("import merges under current definitions", func(t *testing.T) {
		remote := NewJsonLdOptions("")
		remote.DocumentLoader = stubDocumentLoader{docs: map[string]interface{}{
			"http://example.org/base": map[string]interface{}{
				"@context": map[string]interface{}{
					"name": "http://schema.org/name",
					"nick": "http://schema.org/alternateName",
				},
			},
		}}
		ctx, err := NewContext(remote).Parse(map[string]interface{}{
			"@import": "http://example.org/base",
			"nick":    "http://example.com/nick",
		})
		require.NoError(t, err)
		assert.Equal(t, "http://schema.org/name", ctx.GetTermDefinition("name").IRI)
		assert.Equal(t, "http://example.com/nick", ctx.GetTermDefinition("nick").IRI)
	})

	t.Run("nested import is invalid", func(t *testing.T) {
		remote := NewJsonLdOptions("")
		remote.DocumentLoader = stubDocumentLoader{docs: map[string]interface{}{
			"http://example.org/base": map[string]interface{}{
				"@context": map[string]interface{}{
					"@import": "http://example.org/other",
				},
			},
		}}
		_, err := NewContext(remote).Parse(map[string]interface{}{
			"@import": "http://example.org/base",
		})
		assertErrorCode(t, err, InvalidContextEntry)
	})
}

func TestContext_ExpandIri(t *testing.T) {
	opts := NewJsonLdOptions("http://example.com/doc")
	ctx, err := NewContext(opts).Parse(map[string]interface{}{
		"@vocab": "http://vocab.example/",
		"ex":     "http://example.org/",
		"name":   "http://schema.org/name",
	})
	require.NoError(t, err)

	for _, tc := range []struct {
		name             string
		value            string
		documentRelative bool
		vocabRelative    bool
		expected         string
	}{
		{"keyword", "@type", false, true, "@type"},
		{"term", "name", false, true, "http://schema.org/name"},
		{"compact IRI", "ex:foo", false, true, "http://example.org/foo"},
		{"blank node", "_:b0", false, true, "_:b0"},
		{"absolute IRI", "http://other.example/x", false, true, "http://other.example/x"},
		{"vocab relative", "unknown", false, true, "http://vocab.example/unknown"},
		{"document relative", "other", true, false, "http://example.com/other"},
		{"document relative with fragment", "#frag", true, false, "http://example.com/doc#frag"},
		{"dot segments removed", "../a/./b", true, false, "http://example.com/a/b"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := ctx.ExpandIri(tc.value, tc.documentRelative, tc.vocabRelative, nil, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestContext_ExpandValue(t *testing.T) {
	opts := NewJsonLdOptions("http://example.com/")
	ctx, err := NewContext(opts).Parse(map[string]interface{}{
		"@language": "en",
		"link":      map[string]interface{}{"@id": "http://example.org/link", "@type": "@id"},
		"typed":     map[string]interface{}{"@id": "http://example.org/typed", "@type": XSDInteger},
		"silent":    map[string]interface{}{"@id": "http://example.org/silent", "@language": nil},
		"arabic":    map[string]interface{}{"@id": "http://example.org/arabic", "@language": "ar", "@direction": "rtl"},
	})
	require.NoError(t, err)

	for _, tc := range []struct {
		name     string
		property string
		value    interface{}
		expected map[string]interface{}
	}{
		{"id coercion", "link", "about", map[string]interface{}{"@id": "http://example.com/about"}},
		{"type coercion", "typed", 30.0, map[string]interface{}{"@value": 30.0, "@type": XSDInteger}},
		{"default language", "other", "hello", map[string]interface{}{"@value": "hello", "@language": "en"}},
		{"null language suppresses default", "silent", "hello", map[string]interface{}{"@value": "hello"}},
		{"term language and direction", "arabic", "hello",
			map[string]interface{}{"@value": "hello", "@language": "ar", "@direction": "rtl"}},
		{"non-string gets no language", "other", 1.0, map[string]interface{}{"@value": 1.0}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			actual, err := ctx.ExpandValue(tc.property, tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func assertErrorCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	jsonLdError := new(JsonLdError)
	require.ErrorAs(t, err, &jsonLdError)
	assert.Equal(t, code, jsonLdError.Code)
}

type errorDocumentLoader struct {
	err error
}

func (l errorDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	return nil, l.err
}

type stubDocumentLoader struct {
	docs map[string]interface{}
}

func (l stubDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	doc, ok := l.docs[u]
	if !ok {
		return nil, NewJsonLdError(LoadingDocumentFailed, u)
	}
	return &RemoteDocument{DocumentURL: u, ContentType: ApplicationJSONLDType, Document: doc}, nil
}
