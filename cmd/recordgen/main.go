// Command recordgen is the go:generate-driven CLI around package gen: it
// parses a source file, finds an exported struct type, and writes
// "<type>_record.go" alongside it with the generated hash/sign/verify/
// record methods.
//
// Typical invocation, placed as a directive above a payload type:
//
//	//go:generate go run github.com/nisaacdz/blockify/cmd/recordgen -type=Vote
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nisaacdz/blockify/gen"
)

func main() {
	typeName := flag.String("type", "", "exported struct type to generate record methods for")
	file := flag.String("file", "", "source file to parse (defaults to $GOFILE)")
	flag.Parse()

	if *typeName == "" {
		fmt.Fprintln(os.Stderr, "recordgen: -type is required")
		os.Exit(1)
	}
	src := *file
	if src == "" {
		src = os.Getenv("GOFILE")
	}
	if src == "" {
		fmt.Fprintln(os.Stderr, "recordgen: -file or $GOFILE must identify the source file")
		os.Exit(1)
	}

	targets, err := gen.FindTargets(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recordgen: %v\n", err)
		os.Exit(1)
	}

	var target *gen.Target
	for i := range targets {
		if targets[i].Type == *typeName {
			target = &targets[i]
			break
		}
	}
	if target == nil {
		fmt.Fprintf(os.Stderr, "recordgen: type %s not found as an exported struct in %s\n", *typeName, src)
		os.Exit(1)
	}

	out, err := gen.Generate(*target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "recordgen: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(filepath.Dir(src), strings.ToLower(*typeName)+"_record.go")
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "recordgen: write %s: %v\n", outPath, err)
		os.Exit(1)
	}
	fmt.Printf("recordgen: wrote %s\n", outPath)
}
