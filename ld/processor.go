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
	"strings"
)

// JsonLdProcessor implements the JsonLdProcessor interface, see
// https://www.w3.org/TR/json-ld11-api/#the-jsonldprocessor-interface
type JsonLdProcessor struct { //nolint:stylecheck
}

// NewJsonLdProcessor creates an instance of JsonLdProcessor.
func NewJsonLdProcessor() *JsonLdProcessor { //nolint:stylecheck
	return &JsonLdProcessor{}
}

// Expand operation expands the given input according to the steps in the
// Expansion algorithm:
// https://www.w3.org/TR/json-ld11-api/#expansion-algorithm
//
// The input may be a JSON value or the URL of a document to dereference
// through the options' DocumentLoader.
func (jldp *JsonLdProcessor) Expand(input interface{}, opts *JsonLdOptions) ([]interface{}, error) {
	if opts == nil {
		opts = NewJsonLdOptions("")
	} else {
		opts = opts.Copy()
	}
	return jldp.expand(input, opts)
}

func (jldp *JsonLdProcessor) expand(input interface{}, opts *JsonLdOptions) ([]interface{}, error) {
	var remoteContext string

	// 2) dereference string inputs
	if iri, isString := input.(string); isString && strings.Contains(iri, ":") {
		rd, err := opts.DocumentLoader.LoadDocument(iri)
		if err != nil {
			return nil, err
		}
		if rd.Document == nil {
			return nil, NewJsonLdError(LoadingDocumentFailed, iri)
		}
		input = rd.Document

		// the base option overrides the document URL as the base IRI
		if opts.Base == "" {
			if rd.DocumentURL != "" {
				opts.Base = rd.DocumentURL
			} else {
				opts.Base = iri
			}
		}
		remoteContext = rd.ContextURL
	}

	// 3)
	activeCtx := NewContext(opts)

	// 4)
	if opts.ExpandContext != nil {
		exCtx := CloneDocument(opts.ExpandContext)
		if exCtxMap, isMap := exCtx.(map[string]interface{}); isMap {
			if ctx, hasCtx := exCtxMap["@context"]; hasCtx {
				exCtx = ctx
			}
		}
		var err error
		if activeCtx, err = activeCtx.Parse(exCtx); err != nil {
			return nil, err
		}
	}

	// 5) a context delivered via HTTP Link header applies before the body
	if remoteContext != "" {
		var err error
		if activeCtx, err = activeCtx.Parse(remoteContext); err != nil {
			return nil, err
		}
	}

	// 6)
	api := NewJsonLdApi()
	expanded, err := api.Expand(activeCtx, "", input, opts, false)
	if err != nil {
		return nil, err
	}

	// final step of the Expansion Algorithm
	if expandedMap, isMap := expanded.(map[string]interface{}); isMap {
		if graph, hasGraph := expandedMap["@graph"]; hasGraph && len(expandedMap) == 1 {
			expanded = graph
		} else if len(expandedMap) == 0 {
			expanded = nil
		}
	}
	if expanded == nil {
		return []interface{}{}, nil
	}
	if expandedList, isList := expanded.([]interface{}); isList {
		return expandedList, nil
	}
	return []interface{}{expanded}, nil
}

// ToRDF outputs the RDF dataset found in the given JSON-LD input. When the
// format option selects application/n-quads, the dataset is returned as
// N-Quads text; with no format it is returned as an *RDFDataset. Any other
// format fails with "unknown format".
func (jldp *JsonLdProcessor) ToRDF(input interface{}, opts *JsonLdOptions) (interface{}, error) {
	if opts == nil {
		opts = NewJsonLdOptions("")
	} else {
		opts = opts.Copy()
	}

	expandedInput, err := jldp.expand(input, opts)
	if err != nil {
		return nil, err
	}

	api := NewJsonLdApi()
	dataset, err := api.ToRDF(expandedInput, opts)
	if err != nil {
		return nil, err
	}

	switch opts.Format {
	case "":
		return dataset, nil
	case "application/n-quads", "application/nquads":
		serializer := &NQuadRDFSerializer{}
		return serializer.Serialize(dataset)
	default:
		return nil, NewJsonLdError(UnknownFormat, opts.Format)
	}
}

// Normalize performs RDF dataset canonicalization (URDNA2015) on the given
// input. The input is JSON-LD, an *RDFDataset, or N-Quads text when the
// inputFormat option is set. The output is canonical N-Quads unless the
// format option selects a dataset.
func (jldp *JsonLdProcessor) Normalize(input interface{}, opts *JsonLdOptions) (interface{}, error) {
	if opts == nil {
		opts = NewJsonLdOptions("")
	} else {
		opts = opts.Copy()
	}

	var dataset *RDFDataset
	switch {
	case opts.InputFormat != "":
		if opts.InputFormat != "application/n-quads" && opts.InputFormat != "application/nquads" {
			return nil, NewJsonLdError(UnknownFormat, opts.InputFormat)
		}
		var err error
		if dataset, err = ParseNQuadsFrom(input); err != nil {
			return nil, err
		}
	default:
		if ds, isDataset := input.(*RDFDataset); isDataset {
			dataset = ds
			break
		}
		toRDFOpts := opts.Copy()
		toRDFOpts.Format = ""
		datasetValue, err := jldp.ToRDF(input, toRDFOpts)
		if err != nil {
			return nil, err
		}
		dataset = datasetValue.(*RDFDataset)
	}

	api := NewJsonLdApi()
	return api.Normalize(dataset, opts)
}
