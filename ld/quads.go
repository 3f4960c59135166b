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

	"github.com/cayleygraph/quad"
)

// ToQuads converts the dataset into cayley quads for handing to a graph
// store, default graph first, named graphs in insertion order.
func ToQuads(dataset *RDFDataset) []quad.Quad {
	quads := make([]quad.Quad, 0)
	for _, graphName := range dataset.GraphNames() {
		var label quad.Value
		if graphName != "@default" {
			label = graphValue(graphName)
		}
		for _, triple := range dataset.Graphs[graphName] {
			quads = append(quads, quad.Quad{
				Subject:   nodeToValue(triple.Subject),
				Predicate: nodeToValue(triple.Predicate),
				Object:    nodeToValue(triple.Object),
				Label:     label,
			})
		}
	}
	return quads
}

// DatasetFromQuads converts cayley quads back into an RDFDataset.
func DatasetFromQuads(quads []quad.Quad) *RDFDataset {
	dataset := NewRDFDataset()
	for _, q := range quads {
		graphName := "@default"
		if q.Label != nil {
			graphName = graphName2(q.Label)
		}
		dataset.AddQuad(graphName, NewQuad(
			valueToNode(q.Subject),
			valueToNode(q.Predicate),
			valueToNode(q.Object),
			graphName,
		))
	}
	return dataset
}

func graphValue(graphName string) quad.Value {
	if strings.HasPrefix(graphName, "_:") {
		return quad.BNode(graphName[2:])
	}
	return quad.IRI(graphName)
}

func graphName2(label quad.Value) string {
	switch v := label.(type) {
	case quad.IRI:
		return string(v)
	case quad.BNode:
		return "_:" + string(v)
	default:
		return label.String()
	}
}

func nodeToValue(n Node) quad.Value {
	switch v := n.(type) {
	case *IRI:
		return quad.IRI(v.Value)
	case *BlankNode:
		return quad.BNode(strings.TrimPrefix(v.Attribute, "_:"))
	case *Literal:
		switch {
		case v.Language != "":
			return quad.LangString{Value: quad.String(v.Value), Lang: v.Language}
		case v.Datatype != "" && v.Datatype != XSDString:
			return quad.TypedString{Value: quad.String(v.Value), Type: quad.IRI(v.Datatype)}
		default:
			return quad.String(v.Value)
		}
	default:
		return nil
	}
}

func valueToNode(v quad.Value) Node {
	switch value := v.(type) {
	case quad.IRI:
		return NewIRI(string(value))
	case quad.BNode:
		return NewBlankNode("_:" + string(value))
	case quad.String:
		return NewLiteral(string(value), XSDString, "")
	case quad.LangString:
		return NewLiteral(string(value.Value), RDFLangString, value.Lang)
	case quad.TypedString:
		return NewLiteral(string(value.Value), string(value.Type), "")
	default:
		if v == nil {
			return nil
		}
		return NewLiteral(quad.StringOf(v), XSDString, "")
	}
}
