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
	"regexp"
	"strings"
)

// Quad represents an RDF quad. Graph is nil for the default graph.
type Quad struct {
	Subject   Node
	Predicate Node
	Object    Node
	Graph     Node
}

// NewQuad creates a new instance of Quad. The graph name "" or "@default"
// denotes the default graph.
func NewQuad(subject Node, predicate Node, object Node, graph string) *Quad {
	q := &Quad{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
	if graph != "" && graph != "@default" {
		if strings.HasPrefix(graph, "_:") {
			q.Graph = NewBlankNode(graph)
		} else {
			q.Graph = NewIRI(graph)
		}
	}
	return q
}

// Equal returns true if this quad is equal to the given quad.
func (q *Quad) Equal(o *Quad) bool {
	if o == nil {
		return false
	}
	if (q.Graph == nil) != (o.Graph == nil) {
		return false
	}
	if q.Graph != nil && !q.Graph.Equal(o.Graph) {
		return false
	}
	return q.Subject.Equal(o.Subject) && q.Predicate.Equal(o.Predicate) && q.Object.Equal(o.Object)
}

var validLanguageRegex = regexp.MustCompile("^[a-zA-Z]+(-[a-zA-Z0-9]+)*$")

// Valid reports whether the quad's terms form a well-formed RDF statement.
func (q *Quad) Valid() bool {
	for _, node := range []Node{q.Subject, q.Predicate, q.Object, q.Graph} {
		if node == nil {
			continue
		}
		if literal, isLiteral := node.(*Literal); isLiteral {
			if literal.Language != "" && !validLanguageRegex.MatchString(literal.Language) {
				return false
			}
			if literal.Datatype != "" && !IsAbsoluteIri(literal.Datatype) {
				return false
			}
		}
	}
	return true
}

// RDFDataset is a set of quads grouped by graph name. The key "@default"
// holds the default graph. Graph names are kept in insertion order so that
// serializations round-trip stably.
type RDFDataset struct {
	Graphs map[string][]*Quad

	graphOrder []string
}

// NewRDFDataset creates a new instance of RDFDataset with an empty default
// graph.
func NewRDFDataset() *RDFDataset {
	ds := &RDFDataset{
		Graphs: make(map[string][]*Quad),
	}
	ds.Graphs["@default"] = make([]*Quad, 0)
	ds.graphOrder = append(ds.graphOrder, "@default")
	return ds
}

// GraphNames returns the graph names in insertion order.
func (ds *RDFDataset) GraphNames() []string {
	return ds.graphOrder
}

// GetQuads returns the quads of the given graph.
func (ds *RDFDataset) GetQuads(graphName string) []*Quad {
	return ds.Graphs[graphName]
}

// AllQuads returns every quad in the dataset, default graph first, named
// graphs in insertion order.
func (ds *RDFDataset) AllQuads() []*Quad {
	quads := make([]*Quad, 0)
	for _, graphName := range ds.graphOrder {
		quads = append(quads, ds.Graphs[graphName]...)
	}
	return quads
}

// AddQuad appends a quad to the given graph, skipping exact duplicates.
func (ds *RDFDataset) AddQuad(graphName string, quad *Quad) {
	triples, present := ds.Graphs[graphName]
	if !present {
		ds.Graphs[graphName] = []*Quad{quad}
		ds.graphOrder = append(ds.graphOrder, graphName)
		return
	}
	for _, existing := range triples {
		if quad.Equal(existing) {
			return
		}
	}
	ds.Graphs[graphName] = append(triples, quad)
}

// setGraph replaces the quads of a graph, registering the name if new.
func (ds *RDFDataset) setGraph(graphName string, quads []*Quad) {
	if _, present := ds.Graphs[graphName]; !present {
		ds.graphOrder = append(ds.graphOrder, graphName)
	}
	ds.Graphs[graphName] = quads
}
