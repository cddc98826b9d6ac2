package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/dryad-lang/dryad/internal/native"
	"github.com/spf13/cobra"
)

var nativesCmd = &cobra.Command{
	Use:   "natives",
	Short: "List the native modules and functions available to scripts",
	Long: `Natives introspects the native registry (Console, Fs, Math,
String, Array, Object, Json, Core, System) and prints each module's
callable names, for reference when writing a '#Module' directive.`,
	RunE: runNatives,
}

func init() {
	rootCmd.AddCommand(nativesCmd)
}

func runNatives(cmd *cobra.Command, args []string) error {
	reg := native.NewRegistry(io.Discard, nil)
	modules := reg.Modules()
	sort.Strings(modules)

	for _, m := range modules {
		fns := reg.Functions(m)
		sort.Strings(fns)
		fmt.Printf("%s\n", m)
		for _, fn := range fns {
			fmt.Printf("  %s.%s\n", m, fn)
		}
	}
	return nil
}
