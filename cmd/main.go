package main

import "os"

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "development"

func main() {
	if err := newRootCmd(Version).Execute(); err != nil {
		os.Exit(1)
	}
}
