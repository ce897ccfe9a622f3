// Package main is the entry point for the versiondb command line tool.
package main

import "github.com/modpublish/versiondb/cmd"

func main() {
	cmd.Execute()
}
