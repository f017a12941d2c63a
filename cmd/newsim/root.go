// Command newsim runs the near-duplicate news detection engine as a
// batch job: read a preprocessed article stream, build MinHash/LSH
// signatures, and write Jaccard similarity and duplicate-candidate
// decisions to a persistence backend.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "newsim",
	Short: "Near-duplicate news detection via MinHash/LSH",
	Long: `newsim ingests a stream of preprocessed articles (already
tokenized/stemmed upstream), signs each with MinHash, buckets
signatures with banded LSH, and verifies candidate pairs with an
estimated Jaccard similarity, persisting the results to a pluggable
key/value backend (in-memory or Redis).`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML config file overlay")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
