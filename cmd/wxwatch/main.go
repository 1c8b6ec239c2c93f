package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// A cancelled context is the normal interrupt path, not a failure
		// worth reporting.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "wxwatch:", err)
		}
		os.Exit(1)
	}
}
