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
	"regexp"
	"strconv"
	"strings"

	"github.com/weavelink/jsonld/ld/internal/jcs"
)

var (
	rdfFirst = NewIRI(RDFFirst)
	rdfRest  = NewIRI(RDFRest)
	rdfNil   = NewIRI(RDFNil)
)

// ToRDF converts the given expanded JSON-LD input to an RDF dataset by way
// of a node map.
// See https://www.w3.org/TR/json-ld11-api/#deserialize-json-ld-to-rdf-algorithm
func (api *JsonLdApi) ToRDF(input interface{}, opts *JsonLdOptions) (*RDFDataset, error) {
	issuer := NewIdentifierIssuer("_:b")

	nodeMap := map[string]interface{}{
		"@default": make(map[string]interface{}),
	}
	if _, err := api.GenerateNodeMap(input, nodeMap, "@default", issuer, nil, "", nil); err != nil {
		return nil, err
	}

	dataset := NewRDFDataset()

	graphNames := GetOrderedKeys(nodeMap)
	for _, graphName := range graphNames {
		// 1.2)
		if IsRelativeIri(graphName) {
			continue
		}
		graph := nodeMap[graphName].(map[string]interface{})
		if err := api.graphToRDF(dataset, graphName, graph, issuer, opts); err != nil {
			return nil, err
		}
	}

	return dataset, nil
}

// graphToRDF emits the quads of a single node-map graph.
func (api *JsonLdApi) graphToRDF(dataset *RDFDataset, graphName string, graph map[string]interface{},
	issuer *IdentifierIssuer, opts *JsonLdOptions) error {

	triples := make([]*Quad, 0)

	for _, id := range GetOrderedKeys(graph) {
		if IsRelativeIri(id) {
			continue
		}
		node := graph[id].(map[string]interface{})
		for _, property := range GetOrderedKeys(node) {
			var values []interface{}
			switch {
			case property == "@type":
				values = node["@type"].([]interface{})
				property = RDFType
			case IsKeyword(property):
				continue
			case strings.HasPrefix(property, "_:") && !opts.ProduceGeneralizedRdf:
				// RDF forbids blank node predicates
				continue
			case IsRelativeIri(property):
				continue
			default:
				values = node[property].([]interface{})
			}

			var subject Node
			if strings.HasPrefix(id, "_:") {
				subject = NewBlankNode(id)
			} else {
				subject = NewIRI(id)
			}

			var predicate Node
			if strings.HasPrefix(property, "_:") {
				predicate = NewBlankNode(property)
			} else {
				predicate = NewIRI(property)
			}

			for _, item := range values {
				var object Node
				var err error
				object, triples, err = api.objectToRDF(item, issuer, graphName, triples, opts)
				if err != nil {
					return err
				}
				if object != nil {
					triples = append(triples, NewQuad(subject, predicate, object, graphName))
				}
			}
		}
	}

	sanitized := make([]*Quad, 0, len(triples))
	for _, t := range triples {
		if t.Valid() {
			sanitized = append(sanitized, t)
		}
	}
	dataset.setGraph(graphName, sanitized)
	return nil
}

// objectToRDF converts a JSON-LD value object to an RDF literal, or a node
// object to an RDF resource. Compound direction literals and lists
// introduce additional triples.
func (api *JsonLdApi) objectToRDF(item interface{}, issuer *IdentifierIssuer, graphName string,
	triples []*Quad, opts *JsonLdOptions) (Node, []*Quad, error) {

	if IsValue(item) {
		itemMap := item.(map[string]interface{})
		value := itemMap["@value"]
		datatype, _ := itemMap["@type"].(string)

		if datatype == "@json" {
			canonical, err := jcs.Canonicalize(value)
			if err != nil {
				return nil, triples, NewJsonLdError(InvalidInput, err)
			}
			return NewLiteral(string(canonical), RDFJSONLiteral, ""), triples, nil
		}

		booleanVal, isBool := value.(bool)
		floatVal, isFloat := value.(float64)
		if !isBool && !isFloat {
			// handle documents decoded with json.Decoder.UseNumber()
			if number, isNumber := value.(json.Number); isNumber {
				if f, err := number.Float64(); err == nil {
					floatVal, isFloat = f, true
				}
			}
		}
		isInteger := isFloat && floatVal == float64(int64(floatVal)) &&
			!strings.ContainsAny(fmt.Sprintf("%v", value), "eE.")

		switch {
		case isBool:
			if datatype == "" {
				datatype = XSDBoolean
			}
			return NewLiteral(strconv.FormatBool(booleanVal), datatype, ""), triples, nil
		case isFloat && (!isInteger || datatype == XSDDouble):
			if datatype == "" {
				datatype = XSDDouble
			}
			return NewLiteral(GetCanonicalDouble(floatVal), datatype, ""), triples, nil
		case isFloat:
			if datatype == "" {
				datatype = XSDInteger
			}
			return NewLiteral(strconv.FormatInt(int64(floatVal), 10), datatype, ""), triples, nil
		}

		strValue, isString := value.(string)
		if !isString {
			return nil, triples, nil
		}

		language, _ := itemMap["@language"].(string)
		direction, _ := itemMap["@direction"].(string)

		if direction != "" && opts.RdfDirection == RdfDirectionI18N {
			dt := I18NNS + strings.ToLower(language) + "_" + direction
			return NewLiteral(strValue, dt, ""), triples, nil
		}
		if direction != "" && opts.RdfDirection == RdfDirectionCompoundLiteral {
			compound := NewBlankNode(issuer.GetId(""))
			triples = append(triples,
				NewQuad(compound, NewIRI(RDFValue), NewLiteral(strValue, XSDString, ""), graphName))
			if language != "" {
				triples = append(triples,
					NewQuad(compound, NewIRI(RDFLanguage), NewLiteral(strings.ToLower(language), XSDString, ""), graphName))
			}
			triples = append(triples,
				NewQuad(compound, NewIRI(RDFDirection), NewLiteral(direction, XSDString, ""), graphName))
			return compound, triples, nil
		}

		if language != "" {
			if datatype == "" {
				datatype = RDFLangString
			}
			return NewLiteral(strValue, datatype, language), triples, nil
		}
		return NewLiteral(strValue, datatype, ""), triples, nil
	}

	if IsList(item) {
		node, newTriples := api.listToRDF(item.(map[string]interface{})["@list"].([]interface{}),
			issuer, graphName, triples, opts)
		return node, newTriples, nil
	}

	// node object or subject reference
	var id string
	if itemMap, isMap := item.(map[string]interface{}); isMap {
		id, _ = itemMap["@id"].(string)
		if id == "" || IsRelativeIri(id) {
			return nil, triples, nil
		}
	} else if idStr, isString := item.(string); isString {
		id = idStr
	} else {
		return nil, triples, nil
	}
	if strings.HasPrefix(id, "_:") {
		return NewBlankNode(id), triples, nil
	}
	return NewIRI(id), triples, nil
}

// listToRDF converts a JSON-LD list to an rdf:first/rdf:rest chain ending
// in rdf:nil.
func (api *JsonLdApi) listToRDF(list []interface{}, issuer *IdentifierIssuer, graphName string,
	triples []*Quad, opts *JsonLdOptions) (Node, []*Quad) {

	if len(list) == 0 {
		return rdfNil, triples
	}

	head := NewBlankNode(issuer.GetId(""))
	subject := Node(head)

	for i, entry := range list {
		object, newTriples, err := api.objectToRDF(entry, issuer, graphName, triples, opts)
		triples = newTriples
		if err == nil && object != nil {
			triples = append(triples, NewQuad(subject, rdfFirst, object, graphName))
		}

		var rest Node
		if i == len(list)-1 {
			rest = rdfNil
		} else {
			rest = NewBlankNode(issuer.GetId(""))
		}
		triples = append(triples, NewQuad(subject, rdfRest, rest, graphName))
		subject = rest
	}

	return head, triples
}

var canonicalDoubleRegex = regexp.MustCompile(`(\d)0*E\+?0*(\d)`)

// GetCanonicalDouble returns the canonical xsd:double lexical form of a
// float64, e.g. 1.5E0.
func GetCanonicalDouble(v float64) string {
	return canonicalDoubleRegex.ReplaceAllString(fmt.Sprintf("%1.15E", v), "${1}E${2}")
}
