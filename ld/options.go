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

const (
	JsonLd_1_0       = "json-ld-1.0"              //nolint:stylecheck
	JsonLd_1_1       = "json-ld-1.1"              //nolint:stylecheck
	JsonLd_1_1_Frame = "json-ld-1.1-expand-frame" //nolint:stylecheck
)

// Hash algorithms accepted by the canonicalization algorithm.
const (
	HashSHA256 = "SHA-256"
	HashSHA384 = "SHA-384"
)

// RdfDirection values controlling how base direction is carried into RDF.
const (
	RdfDirectionI18N            = "i18n-datatype"
	RdfDirectionCompoundLiteral = "compound-literal"
)

// DefaultMaxRemoteContexts is the cap on remote context dereferences during
// a single context-processing run.
const DefaultMaxRemoteContexts = 10

// JsonLdOptions type as specified in the JSON-LD-API specification:
// https://www.w3.org/TR/json-ld11-api/#the-jsonldoptions-type
type JsonLdOptions struct { //nolint:stylecheck

	// Base is the base IRI for document-relative resolution.
	Base string

	// ProcessingMode is one of json-ld-1.0, json-ld-1.1 or
	// json-ld-1.1-expand-frame.
	ProcessingMode string

	// ExpandContext is a context applied before processing the input.
	ExpandContext interface{}

	// DocumentLoader resolves remote documents and contexts.
	DocumentLoader DocumentLoader

	// Ordered forces lexicographic key iteration during expansion.
	Ordered bool

	// RDF conversion options.

	ProduceGeneralizedRdf bool
	RdfDirection          string
	UseNativeTypes        bool
	UseRdfType            bool

	// Canonicalization options.

	// HashAlgorithm selects the digest used by URDNA2015, SHA-256 (default)
	// or SHA-384.
	HashAlgorithm string

	// MaxCallDepth caps the recursion of the N-degree hashing step.
	// Zero means no limit.
	MaxCallDepth int

	// MaxRemoteContexts caps remote context dereferencing. Zero means
	// DefaultMaxRemoteContexts.
	MaxRemoteContexts int

	// Serialization selection.

	InputFormat string
	Format      string
}

// NewJsonLdOptions creates and returns new instance of JsonLdOptions with
// the given base.
func NewJsonLdOptions(base string) *JsonLdOptions { //nolint:stylecheck
	return &JsonLdOptions{
		Base:              base,
		ProcessingMode:    JsonLd_1_1,
		DocumentLoader:    NewDefaultDocumentLoader(nil),
		HashAlgorithm:     HashSHA256,
		MaxRemoteContexts: DefaultMaxRemoteContexts,
	}
}

// Copy creates a shallow copy of the JsonLdOptions object.
func (opt *JsonLdOptions) Copy() *JsonLdOptions {
	clone := *opt
	return &clone
}

func (opt *JsonLdOptions) maxRemoteContexts() int {
	if opt.MaxRemoteContexts <= 0 {
		return DefaultMaxRemoteContexts
	}
	return opt.MaxRemoteContexts
}
