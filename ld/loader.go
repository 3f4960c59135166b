// Copyright 2019-2024 Weavelink Ltd
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ld

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pquerna/cachecontrol"
	"gopkg.in/yaml.v3"
)

const (
	// An HTTP Accept header that prefers JSON-LD.
	acceptHeader = "application/ld+json, application/json;q=0.9, application/javascript;q=0.5, text/javascript;q=0.5, text/plain;q=0.2, */*;q=0.1"

	// Media types with dedicated content handlers.
	ApplicationJSONLDType = "application/ld+json"
	ApplicationJSONType   = "application/json"
	ApplicationNQuadsType = "application/n-quads"
	ApplicationYAMLLDType = "application/ld+yaml"

	// JSON-LD link header rel
	linkHeaderRel = "http://www.w3.org/ns/json-ld#context"
)

// RemoteDocument is a document retrieved from a remote source.
type RemoteDocument struct {
	DocumentURL string
	ContentType string
	ContextURL  string
	Document    interface{}
}

// DocumentLoader knows how to load documents and contexts by URL. Load may
// block on I/O; it is the only suspension point of the processor.
type DocumentLoader interface {
	LoadDocument(u string) (*RemoteDocument, error)
}

// DocumentFromReader decodes a JSON document from the given reader.
func DocumentFromReader(r io.Reader) (interface{}, error) {
	var document interface{}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&document); err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	return document, nil
}

// parseDocumentBytes dispatches on media type: JSON and JSON-LD documents
// decode to JSON values, YAML-LD documents decode through yaml into
// JSON-shaped values, N-Quads parse to an *RDFDataset. Unknown media types
// fail with "loading document failed".
func parseDocumentBytes(contentType string, data []byte) (interface{}, error) {
	switch {
	case contentType == ApplicationJSONLDType || contentType == ApplicationJSONType ||
		rApplicationJSON.MatchString(contentType):
		var document interface{}
		if err := json.Unmarshal(data, &document); err != nil {
			return nil, NewJsonLdError(LoadingDocumentFailed, err)
		}
		return document, nil
	case contentType == ApplicationNQuadsType || contentType == "application/nquads":
		return ParseNQuadsFrom(data)
	case contentType == ApplicationYAMLLDType || contentType == "application/yaml" ||
		contentType == "text/yaml":
		var document interface{}
		if err := yaml.Unmarshal(data, &document); err != nil {
			return nil, NewJsonLdError(LoadingDocumentFailed, err)
		}
		return normalizeYAML(document), nil
	default:
		return nil, NewJsonLdError(LoadingDocumentFailed,
			fmt.Sprintf("no content handler for media type %q", contentType))
	}
}

// normalizeYAML aligns yaml-decoded values with the shapes produced by
// encoding/json: integers become float64.
func normalizeYAML(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		for k, item := range v {
			v[k] = normalizeYAML(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = normalizeYAML(item)
		}
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return value
	}
}

// contentTypeFromFilename guesses the media type of a local file.
func contentTypeFromFilename(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jsonld", ".json":
		return ApplicationJSONLDType
	case ".nq", ".nquads":
		return ApplicationNQuadsType
	case ".yaml", ".yml", ".yamlld":
		return ApplicationYAMLLDType
	default:
		// most JSON-LD fixtures carry no extension at all
		return ApplicationJSONLDType
	}
}

// DefaultDocumentLoader is a standard implementation of DocumentLoader
// which can retrieve documents via HTTP and from the local filesystem.
type DefaultDocumentLoader struct {
	httpClient *http.Client
}

// NewDefaultDocumentLoader creates a new instance of DefaultDocumentLoader.
func NewDefaultDocumentLoader(httpClient *http.Client) *DefaultDocumentLoader {
	rval := &DefaultDocumentLoader{httpClient: httpClient}
	if rval.httpClient == nil {
		rval.httpClient = http.DefaultClient
	}
	return rval
}

// loadFile reads a non-HTTP URL (file:// or a bare path) synchronously.
func loadFile(u string) (*RemoteDocument, error) {
	path := strings.TrimPrefix(u, "file://")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	contentType := contentTypeFromFilename(path)
	document, err := parseDocumentBytes(contentType, data)
	if err != nil {
		return nil, err
	}
	return &RemoteDocument{
		DocumentURL: u,
		ContentType: contentType,
		Document:    document,
	}, nil
}

// LoadDocument returns a RemoteDocument containing the contents of the
// resource at the given URL.
func (dl *DefaultDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, fmt.Sprintf("error parsing URL: %s", u))
	}

	protocol := parsedURL.Scheme
	if protocol != "http" && protocol != "https" {
		return loadFile(u)
	}

	req, err := http.NewRequest("GET", u, http.NoBody)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	req.Header.Add("Accept", acceptHeader)

	res, err := dl.httpClient.Do(req)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, NewJsonLdError(LoadingDocumentFailed,
			fmt.Sprintf("bad response status code: %d", res.StatusCode))
	}

	remoteDoc := &RemoteDocument{
		DocumentURL: res.Request.URL.String(),
	}

	contentType := mediaType(res.Header.Get("Content-Type"))
	remoteDoc.ContentType = contentType
	linkHeader := res.Header.Get("Link")

	if len(linkHeader) > 0 {
		parsedLinkHeader := ParseLinkHeader(linkHeader)
		contextLink := parsedLinkHeader[linkHeaderRel]
		if contextLink != nil && contentType != ApplicationJSONLDType &&
			(contentType == ApplicationJSONType || rApplicationJSON.MatchString(contentType)) {
			if len(contextLink) > 1 {
				return nil, NewJsonLdError(MultipleContextLinkHeaders, nil)
			}
			remoteDoc.ContextURL = contextLink[0]["target"]
		}

		// if the content type has no handler and an alternate JSON-LD
		// representation is advertised, follow it
		alternateLink := parsedLinkHeader["alternate"]
		if len(alternateLink) > 0 &&
			alternateLink[0]["type"] == ApplicationJSONLDType &&
			!rApplicationJSON.MatchString(contentType) {
			return dl.LoadDocument(Resolve(u, alternateLink[0]["target"]))
		}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	if remoteDoc.Document, err = parseDocumentBytes(contentType, data); err != nil {
		return nil, err
	}
	return remoteDoc, nil
}

// mediaType strips parameters from a Content-Type header value.
func mediaType(contentType string) string {
	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.TrimSpace(contentType)
}

var rSplitOnComma = regexp.MustCompile("(?:<[^>]*?>|\"[^\"]*?\"|[^,])+")
var rLinkHeader = regexp.MustCompile(`\s*<([^>]*?)>\s*(?:;\s*(.*))?`)
var rApplicationJSON = regexp.MustCompile(`^application/(\w*\+)?json$`)
var rParams = regexp.MustCompile("(.*?)=(?:(?:\"([^\"]*?)\")|([^\"]*?))\\s*(?:(?:;\\s*)|$)")

// ParseLinkHeader parses a Link header. The results are keyed by the value
// of "rel".
func ParseLinkHeader(header string) map[string][]map[string]string {
	rval := make(map[string][]map[string]string)

	entries := rSplitOnComma.FindAllString(header, -1)
	for _, entry := range entries {
		if !rLinkHeader.MatchString(entry) {
			continue
		}
		match := rLinkHeader.FindStringSubmatch(entry)

		result := map[string]string{
			"target": match[1],
		}
		for _, param := range rParams.FindAllStringSubmatch(match[2], -1) {
			if param[2] == "" {
				result[param[1]] = param[3]
			} else {
				result[param[1]] = param[2]
			}
		}
		rel := result["rel"]
		rval[rel] = append(rval[rel], result)
	}
	return rval
}

// CachingDocumentLoader is an overlay on top of a DocumentLoader instance
// which caches documents as they are retrieved. It may also be preloaded
// with documents, which is useful for testing.
type CachingDocumentLoader struct {
	nextLoader DocumentLoader
	cache      map[string]*RemoteDocument
}

// NewCachingDocumentLoader creates a new instance of CachingDocumentLoader.
func NewCachingDocumentLoader(nextLoader DocumentLoader) *CachingDocumentLoader {
	return &CachingDocumentLoader{
		nextLoader: nextLoader,
		cache:      make(map[string]*RemoteDocument),
	}
}

// LoadDocument returns the cached document for the URL, loading and caching
// it on first access.
func (cdl *CachingDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	if doc, cached := cdl.cache[u]; cached {
		return doc, nil
	}
	doc, err := cdl.nextLoader.LoadDocument(u)
	if err != nil {
		return nil, err
	}
	cdl.cache[u] = doc
	return doc, nil
}

// AddDocument populates the cache with the given document for the URL.
func (cdl *CachingDocumentLoader) AddDocument(u string, doc interface{}) {
	cdl.cache[u] = &RemoteDocument{DocumentURL: u, ContentType: ApplicationJSONLDType, Document: doc}
}

// PreloadWithMapping populates the cache with documents loaded from
// locations different from their original URLs, typically local files.
func (cdl *CachingDocumentLoader) PreloadWithMapping(urlMap map[string]string) error {
	for srcURL, mappedURL := range urlMap {
		doc, err := cdl.nextLoader.LoadDocument(mappedURL)
		if err != nil {
			return err
		}
		cdl.cache[srcURL] = doc
	}
	return nil
}

type cachedRemoteDocument struct {
	remoteDocument *RemoteDocument
	expireTime     time.Time
	neverExpires   bool
}

// RFC7234CachingDocumentLoader respects RFC 7234 caching headers in order
// to cache remote documents effectively.
type RFC7234CachingDocumentLoader struct {
	httpClient *http.Client
	cache      map[string]*cachedRemoteDocument
}

// NewRFC7234CachingDocumentLoader creates a new RFC7234CachingDocumentLoader.
func NewRFC7234CachingDocumentLoader(httpClient *http.Client) *RFC7234CachingDocumentLoader {
	rval := &RFC7234CachingDocumentLoader{
		httpClient: httpClient,
		cache:      make(map[string]*cachedRemoteDocument),
	}
	if httpClient == nil {
		rval.httpClient = http.DefaultClient
	}
	return rval
}

// LoadDocument returns a RemoteDocument containing the contents of the
// resource at the given URL, consulting the cache first.
func (rcdl *RFC7234CachingDocumentLoader) LoadDocument(u string) (*RemoteDocument, error) {
	if entry, ok := rcdl.cache[u]; ok && (entry.neverExpires || entry.expireTime.After(time.Now())) {
		return entry.remoteDocument, nil
	}

	parsedURL, err := url.Parse(u)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, fmt.Sprintf("error parsing URL: %s", u))
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		remoteDoc, err := loadFile(u)
		if err != nil {
			return nil, err
		}
		rcdl.cache[u] = &cachedRemoteDocument{remoteDocument: remoteDoc, neverExpires: true}
		return remoteDoc, nil
	}

	req, err := http.NewRequest("GET", u, http.NoBody)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	req.Header.Add("Accept", acceptHeader)

	res, err := rcdl.httpClient.Do(req)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, NewJsonLdError(LoadingDocumentFailed,
			fmt.Sprintf("bad response status code: %d", res.StatusCode))
	}

	remoteDoc := &RemoteDocument{DocumentURL: res.Request.URL.String()}
	contentType := mediaType(res.Header.Get("Content-Type"))
	remoteDoc.ContentType = contentType
	linkHeader := res.Header.Get("Link")

	if len(linkHeader) > 0 {
		parsedLinkHeader := ParseLinkHeader(linkHeader)
		contextLink := parsedLinkHeader[linkHeaderRel]
		if contextLink != nil && contentType != ApplicationJSONLDType {
			if len(contextLink) > 1 {
				return nil, NewJsonLdError(MultipleContextLinkHeaders, nil)
			} else if len(contextLink) == 1 {
				remoteDoc.ContextURL = contextLink[0]["target"]
			}
		}

		alternateLink := parsedLinkHeader["alternate"]
		if len(alternateLink) > 0 &&
			alternateLink[0]["type"] == ApplicationJSONLDType &&
			!rApplicationJSON.MatchString(contentType) {
			return rcdl.LoadDocument(Resolve(u, alternateLink[0]["target"]))
		}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, NewJsonLdError(LoadingDocumentFailed, err)
	}
	if remoteDoc.Document, err = parseDocumentBytes(contentType, data); err != nil {
		return nil, err
	}

	reasons, expireTime, err := cachecontrol.CachableResponse(req, res, cachecontrol.Options{})
	if err == nil && len(reasons) == 0 {
		rcdl.cache[u] = &cachedRemoteDocument{remoteDocument: remoteDoc, expireTime: expireTime}
	}

	return remoteDoc, nil
}
