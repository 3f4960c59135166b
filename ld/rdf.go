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
	RDFSyntaxNS string = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNS       string = "http://www.w3.org/2001/XMLSchema#"
	I18NNS      string = "https://www.w3.org/ns/i18n#"

	XSDBoolean string = XSDNS + "boolean"
	XSDDouble  string = XSDNS + "double"
	XSDInteger string = XSDNS + "integer"
	XSDString  string = XSDNS + "string"

	RDFType        string = RDFSyntaxNS + "type"
	RDFFirst       string = RDFSyntaxNS + "first"
	RDFRest        string = RDFSyntaxNS + "rest"
	RDFNil         string = RDFSyntaxNS + "nil"
	RDFJSONLiteral string = RDFSyntaxNS + "JSON"
	RDFLangString  string = RDFSyntaxNS + "langString"
	RDFValue       string = RDFSyntaxNS + "value"
	RDFLanguage    string = RDFSyntaxNS + "language"
	RDFDirection   string = RDFSyntaxNS + "direction"
)

// Node is the value of a subject, predicate, object or graph name:
// an IRI, a blank node, or (for objects only) a literal.
type Node interface {
	// GetValue returns the node's value.
	GetValue() string

	// Equal returns true if this node is equal to the given node.
	Equal(n Node) bool
}

// IRI represents an IRI value.
type IRI struct {
	Value string
}

// NewIRI creates a new instance of IRI.
func NewIRI(iri string) *IRI {
	return &IRI{Value: iri}
}

// GetValue returns the node's value.
func (iri *IRI) GetValue() string {
	return iri.Value
}

// Equal returns true if this node is equal to the given node.
func (iri *IRI) Equal(n Node) bool {
	if other, ok := n.(*IRI); ok {
		return iri.Value == other.Value
	}
	return false
}

// BlankNode represents a blank node value.
type BlankNode struct {
	Attribute string
}

// NewBlankNode creates a new instance of BlankNode.
func NewBlankNode(attribute string) *BlankNode {
	return &BlankNode{Attribute: attribute}
}

// GetValue returns the node's value.
func (bn *BlankNode) GetValue() string {
	return bn.Attribute
}

// Equal returns true if this node is equal to the given node.
func (bn *BlankNode) Equal(n Node) bool {
	if other, ok := n.(*BlankNode); ok {
		return bn.Attribute == other.Attribute
	}
	return false
}

// Literal represents a literal value with an optional language tag.
type Literal struct {
	Value    string
	Datatype string
	Language string
}

// NewLiteral creates a new instance of Literal. An empty datatype defaults
// to xsd:string.
func NewLiteral(value string, datatype string, language string) *Literal {
	l := &Literal{
		Value:    value,
		Language: language,
		Datatype: datatype,
	}
	if l.Datatype == "" {
		l.Datatype = XSDString
	}
	return l
}

// GetValue returns the node's value.
func (l *Literal) GetValue() string {
	return l.Value
}

// Equal returns true if this node is equal to the given node.
func (l *Literal) Equal(n Node) bool {
	other, ok := n.(*Literal)
	if !ok {
		return false
	}
	return l.Value == other.Value &&
		l.Language == other.Language &&
		l.Datatype == other.Datatype
}

// IsIRI returns true if the given node is an IRI node.
func IsIRI(node Node) bool {
	_, isIRI := node.(*IRI)
	return isIRI
}

// IsBlankNode returns true if the given node is a blank node.
func IsBlankNode(node Node) bool {
	_, isBlankNode := node.(*BlankNode)
	return isBlankNode
}

// IsLiteral returns true if the given node is a literal node.
func IsLiteral(node Node) bool {
	_, isLiteral := node.(*Literal)
	return isLiteral
}
