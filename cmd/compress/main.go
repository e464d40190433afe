// Command compress runs one prompt through the compression pipeline and
// prints the resulting Result record as JSON.
//
// It loads the phrase substitution table (from SUBSTITUTION_SOURCE_FILE if
// configured, falling back to the built-in set), wraps it in a persistent
// cache so a transient source outage still serves the last known-good table,
// initializes the cl100k_base tokenizer, runs a single compression, and
// exits. The long-running HTTP surface around the same pipeline lives in
// cmd/compress-service instead — this binary never opens a socket.
//
// Usage:
//
//	./compress -text "We did this in order to improve performance."
//	echo "We did this in order to improve performance." | ./compress
//	./compress -aggressive < prompt.txt
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"promptcompress"
	"promptcompress/internal/config"
)

func main() {
	text := flag.String("text", "", "prompt text to compress (reads stdin if omitted)")
	aggressive := flag.Bool("aggressive", false, "enable stage 5 (semantic pruning) and stage 6 (summarization)")
	flag.Parse()

	cfg := config.Load()

	input := *text
	if input == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read prompt: %v\n", err)
			os.Exit(1)
		}
		input = string(data)
	}

	if err := compressor.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init: %v\n", err)
		os.Exit(1)
	}

	result, err := compressor.Compress(input, compressor.Options{Aggressive: *aggressive || cfg.Aggressive})
	if err != nil {
		fmt.Fprintf(os.Stderr, "compress: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		os.Exit(1)
	}
}
