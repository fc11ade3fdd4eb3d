// Command heartshare runs the HeartShare donation marketplace server and
// its terminal client.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
