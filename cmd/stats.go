package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/heymarley/writebot/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show backend request statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		stats, err := st.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("load request stats: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("No backend requests recorded yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ENDPOINT\tREQUESTS\tFAILURES\tAVG LATENCY")
		for _, es := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%dms\n",
				es.Endpoint, es.Requests, es.Failures, es.AvgLatencyMs)
		}
		return w.Flush()
	},
}
