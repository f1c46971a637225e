// Package main provides the tactics command line interface.
package main

import (
	"fmt"
	"os"
	"runtime"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	switch os.Args[1] {
	case "version":
		fmt.Printf("tactics %s (%s, %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	case "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "tactics: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("tactics - reverse-mode automatic differentiation for Go")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  tactics version    print the framework version")
	fmt.Println("  tactics help       print this help")
	fmt.Println()
	fmt.Println("The library lives in the tensor, variable, nn, optim and data")
	fmt.Println("packages; see examples/quickstart for a full training loop.")
}
