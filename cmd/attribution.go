package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/dealer-scorecard/internal/attribution"
	"github.com/sells-group/dealer-scorecard/internal/ingest"
)

var (
	attributionFile  string
	attributionSheet string
)

var attributionCmd = &cobra.Command{
	Use:   "attribution",
	Short: "Manage the dealer → city / business manager table",
}

var attributionImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace the attribution table from a CSV or XLSX file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		text, err := ingest.ReadFile(attributionFile, ingest.SheetOption(attributionSheet))
		if err != nil {
			return eris.Wrap(err, "read attribution file")
		}

		svc, st, err := openService(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		m, err := svc.ImportAttribution(ctx, text)
		if err != nil {
			return err
		}

		zap.L().Info("attribution import complete",
			zap.Int("dealers", len(m)),
			zap.String("file", attributionFile),
		)
		return nil
	},
}

var attributionListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the attribution table as dealer,city,manager lines",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		svc, st, err := openService(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		m, err := svc.Attribution(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, a := range attribution.Entries(m) {
			fmt.Fprintf(out, "%s,%s,%s\n", a.DealerName, a.City, a.BusinessManager)
		}
		return nil
	},
}

func init() {
	attributionImportCmd.Flags().StringVar(&attributionFile, "file", "", "path to attribution CSV or XLSX (required)")
	attributionImportCmd.Flags().StringVar(&attributionSheet, "sheet", "", "xlsx sheet name or zero-based index (default first sheet)")
	_ = attributionImportCmd.MarkFlagRequired("file")

	attributionCmd.AddCommand(attributionImportCmd, attributionListCmd)
	rootCmd.AddCommand(attributionCmd)
}
