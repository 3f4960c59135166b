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

// Command jsonld drives the JSON-LD processor from the command line:
// expansion, RDF serialization and dataset canonicalization.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weavelink/jsonld/ld"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "jsonld",
		Short: "jsonld is a JSON-LD 1.1 processor",
		Long: `A JSON-LD 1.1 processor: expands documents, serializes them
to RDF datasets as N-Quads, and canonicalizes datasets with URDNA2015.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			initLogging()
			return loadConfig()
		},
	}
)

// config carries the processing options shared by every subcommand.
type config struct {
	Base              string `mapstructure:"base"`
	ProcessingMode    string `mapstructure:"processingMode" validate:"oneof=json-ld-1.0 json-ld-1.1"`
	Ordered           bool   `mapstructure:"ordered"`
	RdfDirection      string `mapstructure:"rdfDirection" validate:"omitempty,oneof=i18n-datatype compound-literal"`
	GeneralizedRdf    bool   `mapstructure:"generalizedRdf"`
	HashAlgorithm     string `mapstructure:"hashAlgorithm" validate:"oneof=SHA-256 SHA-384"`
	MaxRemoteContexts int    `mapstructure:"maxRemoteContexts" validate:"gte=0"`
	CacheDocuments    bool   `mapstructure:"cacheDocuments"`
}

var cfg config

func init() {
	cobra.OnInitialize(initConfigFile)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.jsonld.yaml)")
	rootCmd.PersistentFlags().String("base", "", "base IRI for document-relative resolution")
	rootCmd.PersistentFlags().String("processing-mode", ld.JsonLd_1_1, "json-ld-1.0 or json-ld-1.1")
	rootCmd.PersistentFlags().Bool("ordered", false, "deterministic key iteration during expansion")
	rootCmd.PersistentFlags().String("rdf-direction", "", "i18n-datatype or compound-literal")
	rootCmd.PersistentFlags().Bool("generalized-rdf", false, "keep blank node predicates")
	rootCmd.PersistentFlags().String("hash-algorithm", ld.HashSHA256, "SHA-256 or SHA-384")
	rootCmd.PersistentFlags().Int("max-remote-contexts", ld.DefaultMaxRemoteContexts, "cap on remote context fetches")
	rootCmd.PersistentFlags().Bool("cache-documents", true, "cache remote documents per RFC 7234")

	bind := map[string]string{
		"base":              "base",
		"processingMode":    "processing-mode",
		"ordered":           "ordered",
		"rdfDirection":      "rdf-direction",
		"generalizedRdf":    "generalized-rdf",
		"hashAlgorithm":     "hash-algorithm",
		"maxRemoteContexts": "max-remote-contexts",
		"cacheDocuments":    "cache-documents",
	}
	for key, flag := range bind {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err.Error())
		}
	}

	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(rdfCmd)
	rootCmd.AddCommand(normalizeCmd)
}

func initConfigFile() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".jsonld")
	}

	viper.SetEnvPrefix("JSONLD")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

func initLogging() {
	level := slog.LevelInfo
	if os.Getenv("JSONLD_DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))
}

func loadConfig() error {
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// options builds JsonLdOptions from the merged flag/file configuration.
func options() *ld.JsonLdOptions {
	opts := ld.NewJsonLdOptions(cfg.Base)
	opts.ProcessingMode = cfg.ProcessingMode
	opts.Ordered = cfg.Ordered
	opts.RdfDirection = cfg.RdfDirection
	opts.ProduceGeneralizedRdf = cfg.GeneralizedRdf
	opts.HashAlgorithm = cfg.HashAlgorithm
	opts.MaxRemoteContexts = cfg.MaxRemoteContexts
	if cfg.CacheDocuments {
		opts.DocumentLoader = ld.NewRFC7234CachingDocumentLoader(nil)
	}
	return opts
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
