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

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weavelink/jsonld/ld"
)

var expandCmd = &cobra.Command{
	Use:   "expand [file|url]",
	Short: "Expand a JSON-LD document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(args)
		if err != nil {
			return err
		}

		proc := ld.NewJsonLdProcessor()
		expanded, err := proc.Expand(input, options())
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(expanded, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var rdfCmd = &cobra.Command{
	Use:   "rdf [file|url]",
	Short: "Serialize a JSON-LD document to N-Quads",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := readInput(args)
		if err != nil {
			return err
		}

		opts := options()
		opts.Format = "application/n-quads"

		proc := ld.NewJsonLdProcessor()
		nquads, err := proc.ToRDF(input, opts)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), nquads)
		return nil
	},
}

var normalizeCmd = &cobra.Command{
	Use:     "normalize [file|url]",
	Aliases: []string{"canonize", "canonicalize"},
	Short:   "Canonicalize a document with URDNA2015",
	Long: `Canonicalize the RDF dataset of a document with URDNA2015 and print
canonical N-Quads. Input may be JSON-LD or N-Quads (by file extension or
--input-format).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := options()

		inputFormat, err := cmd.Flags().GetString("input-format")
		if err != nil {
			return err
		}
		if inputFormat == "" && len(args) == 1 &&
			(strings.HasSuffix(args[0], ".nq") || strings.HasSuffix(args[0], ".nquads")) {
			inputFormat = "application/n-quads"
		}

		var input interface{}
		if inputFormat != "" {
			opts.InputFormat = inputFormat
			data, err := readRaw(args)
			if err != nil {
				return err
			}
			input = data
		} else {
			if input, err = readInput(args); err != nil {
				return err
			}
		}

		proc := ld.NewJsonLdProcessor()
		normalized, err := proc.Normalize(input, opts)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), normalized)
		return nil
	},
}

func init() {
	normalizeCmd.Flags().String("input-format", "", "input format, e.g. application/n-quads")
}

// readInput resolves the positional argument: a URL or file path is passed
// through for the processor's document loader to dereference; with no
// argument, a JSON document is read from stdin.
func readInput(args []string) (interface{}, error) {
	if len(args) == 1 {
		arg := args[0]
		if strings.Contains(arg, ":") {
			return arg, nil
		}
		slog.Debug("reading document", "path", arg)
		return "file://" + arg, nil
	}
	return ld.DocumentFromReader(os.Stdin)
}

// readRaw reads the positional file (or stdin) without JSON parsing.
func readRaw(args []string) ([]byte, error) {
	if len(args) == 1 {
		return os.ReadFile(strings.TrimPrefix(args[0], "file://"))
	}
	return io.ReadAll(os.Stdin)
}
