package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aakarsha2003/AI-Job-Matcher/internal/db"
)

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the demo job catalog",
		Long:  "Insert the five demo jobs when the job table is empty. Running it again is a no-op.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := db.Seed(cmd.Context(), store)
			if err != nil {
				return fmt.Errorf("failed to seed catalog: %w", err)
			}

			out := cmd.OutOrStdout()
			if n == 0 {
				fmt.Fprintln(out, "Catalog already has jobs; nothing seeded")
				return nil
			}
			fmt.Fprintf(out, "Seeded %d jobs\n", n)
			return nil
		},
	}
}
