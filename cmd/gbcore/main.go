// Command gbcore runs a ROM either in a window or headless, grounded on the
// teacher's cmd/gbemu and cmd/cpurunner entry points. Flag parsing follows
// the spf13/cobra pattern the rest of the retrieved corpus reaches for
// (other_examples' chippy and S370 manifests both depend on it) instead of
// the teacher's stdlib flag package.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gbcore",
		Short: "a cycle-driven Game Boy core: windowed or headless",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newHeadlessCmd())
	return root
}
