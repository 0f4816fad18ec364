// Command morphplan plans paths for a shape-shifting alien through a maze of
// wall segments, using a discretised configuration space and best-first search.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := NewApp().Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
