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
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// NQuadRDFSerializer parses and serializes N-Quads.
type NQuadRDFSerializer struct {
}

// Parse N-Quads from a string, []byte or io.Reader into an RDFDataset.
func (s *NQuadRDFSerializer) Parse(input interface{}) (*RDFDataset, error) {
	return ParseNQuadsFrom(input)
}

// SerializeTo writes the RDFDataset as N-Quads into a writer, graphs in
// insertion order.
func (s *NQuadRDFSerializer) SerializeTo(w io.Writer, dataset *RDFDataset) error {
	for _, graphName := range dataset.GraphNames() {
		name := graphName
		if name == "@default" {
			name = ""
		}
		for _, triple := range dataset.Graphs[graphName] {
			if _, err := io.WriteString(w, toNQuad(triple, name)); err != nil {
				return NewJsonLdError(IOError, err)
			}
		}
	}
	return nil
}

// Serialize an RDFDataset into an N-Quads string.
func (s *NQuadRDFSerializer) Serialize(dataset *RDFDataset) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := s.SerializeTo(buf, dataset); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// toNQuad renders one quad as a single N-Quads line terminated with ".\n".
func toNQuad(triple *Quad, graphName string) string {
	s := triple.Subject
	p := triple.Predicate
	o := triple.Object

	var sb strings.Builder

	if IsIRI(s) {
		sb.WriteString("<" + escape(s.GetValue()) + ">")
	} else {
		sb.WriteString(s.GetValue())
	}

	if IsIRI(p) {
		sb.WriteString(" <" + escape(p.GetValue()) + "> ")
	} else {
		sb.WriteString(" " + escape(p.GetValue()) + " ")
	}

	switch {
	case IsIRI(o):
		sb.WriteString("<" + escape(o.GetValue()) + ">")
	case IsBlankNode(o):
		sb.WriteString(o.GetValue())
	default:
		literal := o.(*Literal)
		sb.WriteString("\"" + escape(literal.GetValue()) + "\"")
		if literal.Datatype == RDFLangString {
			sb.WriteString("@" + literal.Language)
		} else if literal.Datatype != XSDString {
			sb.WriteString("^^<" + escape(literal.Datatype) + ">")
		}
	}

	if graphName != "" {
		if strings.HasPrefix(graphName, "_:") {
			sb.WriteString(" " + graphName)
		} else {
			sb.WriteString(" <" + escape(graphName) + ">")
		}
	}

	sb.WriteString(" .\n")
	return sb.String()
}

func escape(str string) string {
	str = strings.ReplaceAll(str, "\\", "\\\\")
	str = strings.ReplaceAll(str, "\"", "\\\"")
	str = strings.ReplaceAll(str, "\n", "\\n")
	str = strings.ReplaceAll(str, "\r", "\\r")
	str = strings.ReplaceAll(str, "\t", "\\t")
	return str
}

func unescape(str string) string {
	str = strings.ReplaceAll(str, "\\\\", "\\")
	str = strings.ReplaceAll(str, "\\\"", "\"")
	str = strings.ReplaceAll(str, "\\n", "\n")
	str = strings.ReplaceAll(str, "\\r", "\r")
	str = strings.ReplaceAll(str, "\\t", "\t")
	return str
}

const (
	wso = "[ \\t]*"
	iri = "(?:<([^:]+:[^>]*)>)"

	// https://www.w3.org/TR/turtle/#grammar-production-BLANK_NODE_LABEL

	pnCharsBase = "A-Z" + "a-z" +
		"\u00C0-\u00D6" +
		"\u00D8-\u00F6" +
		"\u00F8-\u02FF" +
		"\u0370-\u037D" +
		"\u037F-\u1FFF" +
		"\u200C-\u200D" +
		"\u2070-\u218F" +
		"\u2C00-\u2FEF" +
		"\u3001-\uD7FF" +
		"\uF900-\uFDCF" +
		"\uFDF0-\uFFFD"

	pnCharsU = pnCharsBase + "_"

	pnChars = pnCharsU +
		"0-9" +
		"-" +
		"\u00B7" +
		"\u0300-\u036F" +
		"\u203F-\u2040"

	blankNodeLabel = "(_:" +
		"(?:[" + pnCharsU + "0-9])" +
		"(?:(?:[" + pnChars + ".])*(?:[" + pnChars + "]))?" +
		")"

	plain    = "\"([^\"\\\\]*(?:\\\\.[^\"\\\\]*)*)\""
	datatype = "(?:\\^\\^" + iri + ")"
	language = "(?:@([a-zA-Z]+(?:-[a-zA-Z0-9]+)*))"
	literal  = "(?:" + plain + "(?:" + datatype + "|" + language + ")?)"
	ws       = "[ \\t]+"

	subject  = "(?:" + iri + "|" + blankNodeLabel + ")" + ws
	property = iri + ws
	object   = "(?:" + iri + "|" + blankNodeLabel + "|" + literal + ")" + wso
	graph    = "(?:\\.|(?:(?:" + iri + "|" + blankNodeLabel + ")" + wso + "\\.))"
)

var regexEmpty = regexp.MustCompile("^" + wso + "$")

var regexQuad = regexp.MustCompile("^" + wso + subject + property + object + graph + wso + "$")

type lineScanner interface {
	Bytes() []byte
	Scan() bool
	Err() error
}

type bytesLineScanner struct {
	err   error
	b     []byte
	token []byte
	i     int
}

func (ls *bytesLineScanner) Err() error { return ls.err }
func (ls *bytesLineScanner) Scan() bool {
	b, i := ls.b, ls.i
	if ls.err != nil || i >= len(b) {
		return false
	}
	di, token, err := bufio.ScanLines(b[i:], true)
	if err != nil {
		ls.err = err
		return false
	}
	ls.token = token
	ls.i += di
	return true
}
func (ls *bytesLineScanner) Bytes() []byte {
	return ls.token
}

func newScannerFor(o interface{}) (lineScanner, error) {
	switch inp := o.(type) {
	case []byte:
		return &bytesLineScanner{b: inp}, nil
	case string:
		return &bytesLineScanner{b: []byte(inp)}, nil
	case io.Reader:
		return bufio.NewScanner(inp), nil
	default:
		return nil, NewJsonLdError(InvalidInput, "expected []byte, string or io.Reader")
	}
}

// ParseNQuadsFrom parses RDF in the form of N-Quads from an io.Reader,
// []byte or string.
func ParseNQuadsFrom(o interface{}) (*RDFDataset, error) {
	dataset := NewRDFDataset()

	scanner, err := newScannerFor(o)
	if err != nil {
		return nil, err
	}

	lineNumber := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		lineNumber++

		if regexEmpty.Match(line) {
			continue
		}

		if !regexQuad.Match(line) {
			return nil, NewJsonLdError(SyntaxError,
				fmt.Errorf("error while parsing N-Quads; invalid quad. line: %d", lineNumber))
		}
		match := regexQuad.FindStringSubmatch(string(line))

		var subject Node
		if match[1] != "" {
			subject = NewIRI(unescape(match[1]))
		} else {
			subject = NewBlankNode(unescape(match[2]))
		}

		predicate := NewIRI(unescape(match[3]))

		var object Node
		switch {
		case match[4] != "":
			object = NewIRI(unescape(match[4]))
		case match[5] != "":
			object = NewBlankNode(unescape(match[5]))
		default:
			language := unescape(match[8])
			var datatype string
			switch {
			case match[7] != "":
				datatype = unescape(match[7])
			case match[8] != "":
				datatype = RDFLangString
			default:
				datatype = XSDString
			}
			object = NewLiteral(unescape(match[6]), datatype, language)
		}

		name := "@default"
		if match[9] != "" {
			name = unescape(match[9])
		} else if match[10] != "" {
			name = unescape(match[10])
		}

		dataset.AddQuad(name, NewQuad(subject, predicate, object, name))
	}
	if err := scanner.Err(); err != nil {
		return nil, NewJsonLdError(IOError, err)
	}

	return dataset, nil
}

// ParseNQuads parses RDF in the form of N-Quads.
func ParseNQuads(input string) (*RDFDataset, error) {
	return ParseNQuadsFrom(input)
}
