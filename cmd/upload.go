package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/dealer-scorecard/internal/ingest"
	"github.com/sells-group/dealer-scorecard/internal/model"
)

var (
	uploadManager string
	uploadType    string
	uploadFile    string
	uploadSheet   string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Store report CSV data for a business manager",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rt := model.ReportType(uploadType)
		if !rt.Valid() {
			return eris.Errorf("invalid --type %q (want performance or observation)", uploadType)
		}

		text, err := ingest.ReadFile(uploadFile, ingest.SheetOption(uploadSheet))
		if err != nil {
			return eris.Wrap(err, "read report file")
		}

		svc, st, err := openService(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		_, err = svc.Upload(ctx, uploadManager, rt, text)
		return err
	},
}

func init() {
	uploadCmd.Flags().StringVar(&uploadManager, "manager", "", "business manager the data belongs to (required)")
	uploadCmd.Flags().StringVar(&uploadType, "type", string(model.ReportTypePerformance), "report type: performance or observation")
	uploadCmd.Flags().StringVar(&uploadFile, "file", "", "path to CSV or XLSX export (required)")
	uploadCmd.Flags().StringVar(&uploadSheet, "sheet", "", "xlsx sheet name or zero-based index (default first sheet)")
	_ = uploadCmd.MarkFlagRequired("manager")
	_ = uploadCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(uploadCmd)
}
