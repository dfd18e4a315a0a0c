package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var managersCmd = &cobra.Command{
	Use:   "managers",
	Short: "List business managers and their cities",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		svc, st, err := openService(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		managers, err := svc.Managers(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, m := range managers {
			cities, err := svc.Cities(ctx, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%s\n", m, strings.Join(cities, ","))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(managersCmd)
}
