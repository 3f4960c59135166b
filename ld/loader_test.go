package ld

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultDocumentLoader_Files(t *testing.T) {
	loader := NewDefaultDocumentLoader(nil)

	t.Run("jsonld file", func(t *testing.T) {
		path := writeTempFile(t, "doc.jsonld", `{"@id":"http://ex/a","http://ex/p":"v"}`)
		doc, err := loader.LoadDocument(path)
		require.NoError(t, err)
		assert.Equal(t, ApplicationJSONLDType, doc.ContentType)
		docMap := doc.Document.(map[string]interface{})
		assert.Equal(t, "http://ex/a", docMap["@id"])
	})

	t.Run("file URL", func(t *testing.T) {
		path := writeTempFile(t, "doc.json", `{"a":1}`)
		doc, err := loader.LoadDocument("file://" + path)
		require.NoError(t, err)
		assert.Equal(t, 1.0, doc.Document.(map[string]interface{})["a"])
	})

	t.Run("yaml-ld file", func(t *testing.T) {
		path := writeTempFile(t, "doc.yamlld", "\"@id\": http://ex/a\nhttp://ex/count: 3\n")
		doc, err := loader.LoadDocument(path)
		require.NoError(t, err)
		assert.Equal(t, ApplicationYAMLLDType, doc.ContentType)
		docMap := doc.Document.(map[string]interface{})
		assert.Equal(t, "http://ex/a", docMap["@id"])
		assert.Equal(t, 3.0, docMap["http://ex/count"], "yaml integers must decode like JSON numbers")
	})

	t.Run("n-quads file", func(t *testing.T) {
		path := writeTempFile(t, "doc.nq", "<http://ex/a> <http://ex/p> \"v\" .\n")
		doc, err := loader.LoadDocument(path)
		require.NoError(t, err)
		dataset, isDataset := doc.Document.(*RDFDataset)
		require.True(t, isDataset)
		assert.Len(t, dataset.GetQuads("@default"), 1)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadDocument(filepath.Join(t.TempDir(), "absent.jsonld"))
		assertErrorCode(t, err, LoadingDocumentFailed)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeTempFile(t, "doc.jsonld", `{"unterminated`)
		_, err := loader.LoadDocument(path)
		assertErrorCode(t, err, LoadingDocumentFailed)
	})
}

func TestParseDocumentBytes(t *testing.T) {
	t.Run("json suffix media types", func(t *testing.T) {
		doc, err := parseDocumentBytes("application/activity+json", []byte(`{"a":1}`))
		require.NoError(t, err)
		assert.Equal(t, 1.0, doc.(map[string]interface{})["a"])
	})

	t.Run("unknown media type", func(t *testing.T) {
		_, err := parseDocumentBytes("text/html", []byte("<html></html>"))
		assertErrorCode(t, err, LoadingDocumentFailed)
	})
}

func TestCachingDocumentLoader(t *testing.T) {
	t.Run("AddDocument short-circuits the next loader", func(t *testing.T) {
		loader := NewCachingDocumentLoader(errorDocumentLoader{err: NewJsonLdError(LoadingDocumentFailed, nil)})
		loader.AddDocument("http://example.com/ctx", map[string]interface{}{
			"@context": map[string]interface{}{"name": "http://schema.org/name"},
		})

		doc, err := loader.LoadDocument("http://example.com/ctx")
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/ctx", doc.DocumentURL)

		_, err = loader.LoadDocument("http://example.com/other")
		assert.Error(t, err)
	})

	t.Run("PreloadWithMapping serves remote URLs from local files", func(t *testing.T) {
		path := writeTempFile(t, "ctx.jsonld", `{"@context":{"name":"http://schema.org/name"}}`)
		loader := NewCachingDocumentLoader(NewDefaultDocumentLoader(nil))
		require.NoError(t, loader.PreloadWithMapping(map[string]string{
			"http://example.com/ctx": path,
		}))

		opts := NewJsonLdOptions("")
		opts.DocumentLoader = loader
		proc := NewJsonLdProcessor()
		expanded, err := proc.Expand(map[string]interface{}{
			"@context": "http://example.com/ctx",
			"name":     "Alice",
		}, opts)
		require.NoError(t, err)
		expected := []interface{}{map[string]interface{}{
			"http://schema.org/name": []interface{}{map[string]interface{}{"@value": "Alice"}},
		}}
		assert.True(t, DeepCompare(expected, expanded, true))
	})
}

func TestParseLinkHeader(t *testing.T) {
	header := `<http://json-ld.org/contexts/person.jsonld>; rel="http://www.w3.org/ns/json-ld#context"; type="application/ld+json"`
	parsed := ParseLinkHeader(header)
	entries := parsed[linkHeaderRel]
	require.Len(t, entries, 1)
	assert.Equal(t, "http://json-ld.org/contexts/person.jsonld", entries[0]["target"])
	assert.Equal(t, "application/ld+json", entries[0]["type"])
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "application/ld+json", mediaType("application/ld+json; charset=utf-8"))
	assert.Equal(t, "application/json", mediaType("application/json"))
}

func TestContentTypeFromFilename(t *testing.T) {
	assert.Equal(t, ApplicationJSONLDType, contentTypeFromFilename("a/b.jsonld"))
	assert.Equal(t, ApplicationNQuadsType, contentTypeFromFilename("b.nq"))
	assert.Equal(t, ApplicationYAMLLDType, contentTypeFromFilename("c.YAML"))
	assert.True(t, strings.HasPrefix(contentTypeFromFilename("no-extension"), "application/ld+json"))
}
