// Command matgraphc compiles material graphs to HLSL pixel shaders.
//
// Usage:
//
//	matgraphc <command> [flags] <graph>...
//
// Examples:
//
//	matgraphc compile brick.matgraph.yaml                 # HLSL to stdout
//	matgraphc compile -o build --manifest *.yaml          # .hlsl and manifest files
//	matgraphc check brick.matgraph.yaml                   # validate without output
//	matgraphc watch -o build --metrics-addr :9464 *.yaml  # recompile on change
//	matgraphc format --write brick.matgraph.yaml          # canonical formatting
//	matgraphc nodes                                       # list node types
//
// A matgraph.yaml in the working directory, or the file named by --config,
// supplies the shader model, entry point, logging and slot hints.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
