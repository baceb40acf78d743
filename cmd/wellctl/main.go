// cmd/wellctl: CLI operator untuk inspeksi puits & rekonsiliasi dari terminal
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
