package ld_test

import (
	"fmt"

	"github.com/weavelink/jsonld/ld"
)

func ExampleJsonLdProcessor_Expand() {
	proc := ld.NewJsonLdProcessor()

	doc := map[string]interface{}{
		"@context": map[string]interface{}{
			"name": "http://schema.org/name",
		},
		"name": "Alice",
	}

	expanded, err := proc.Expand(doc, nil)
	if err != nil {
		panic(err)
	}

	node := expanded[0].(map[string]interface{})
	values := node["http://schema.org/name"].([]interface{})
	fmt.Println(values[0].(map[string]interface{})["@value"])
	// Output: Alice
}

func ExampleJsonLdProcessor_ToRDF() {
	proc := ld.NewJsonLdProcessor()

	opts := ld.NewJsonLdOptions("")
	opts.Format = "application/n-quads"

	doc := map[string]interface{}{
		"@id":              "http://example.com/alice",
		"http://ex/ishere": true,
	}

	nquads, err := proc.ToRDF(doc, opts)
	if err != nil {
		panic(err)
	}
	fmt.Print(nquads)
	// Output: <http://example.com/alice> <http://ex/ishere> "true"^^<http://www.w3.org/2001/XMLSchema#boolean> .
}

func ExampleJsonLdProcessor_Normalize() {
	proc := ld.NewJsonLdProcessor()

	opts := ld.NewJsonLdOptions("")
	opts.InputFormat = "application/n-quads"

	normalized, err := proc.Normalize("_:z <http://ex/p> \"v\" .\n", opts)
	if err != nil {
		panic(err)
	}
	fmt.Print(normalized)
	// Output: _:c14n0 <http://ex/p> "v" .
}
