package main

import (
	"fmt"
	"os"
)

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

const appName = "employability-booking"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
