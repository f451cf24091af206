// Command storefront runs the web storefront, the terminal storefront, and
// scripting commands over the same durable cart.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
