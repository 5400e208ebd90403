package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var statePath string

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Print a summary of a persisted particle history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(statePath)
		},
	}

	inspectCmd.Flags().StringVarP(&statePath, "state", "s", "", "path to a persisted history (required)")
	inspectCmd.MarkFlagRequired("state")

	return inspectCmd
}

func runInspect(statePath string) error {
	store, err := loadStore(statePath)
	if err != nil {
		return err
	}
	if store.Len() == 0 {
		fmt.Println("history is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "GEN\tNP\tNPROP\tESS\tACCEPT\tEPSILON")
	for i := 0; i < store.Len(); i++ {
		gen := store.At(i)
		fmt.Fprintf(w, "%d\t%d\t%d\t%.2f\t%.4f\t%v\n",
			i+1, gen.NP(), gen.NProp(), gen.ESS(), gen.AcceptanceRate(), gen.Epsilon())
	}
	return w.Flush()
}
