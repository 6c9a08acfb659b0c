// main is the entry point for the sprintlens CLI.
package main

import (
	"fmt"
	"os"

	"github.com/sprintlab/sprintlens/cmd"
	"github.com/sprintlab/sprintlens/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()

	// Stores and profiles must be flushed before any exit path.
	iocache.CloseStores()
	if profErr := cmd.StopProfiling(); profErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", profErr)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
