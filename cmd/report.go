package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/dealer-scorecard/internal/dashboard"
	"github.com/sells-group/dealer-scorecard/internal/model"
	"github.com/sells-group/dealer-scorecard/internal/report"
)

var (
	reportManager string
	reportType    string
	reportCity    string
	reportStart   string
	reportEnd     string
	reportFormat  string
	reportAll     bool
)

// renderOptions controls how a snapshot is printed.
type renderOptions struct {
	Format string
	City   string
	Start  time.Time
	End    time.Time
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build and print the dealer scorecard",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		rtName := reportType
		if rtName == "" {
			rtName = cfg.Report.DefaultType
		}
		rt := model.ReportType(rtName)
		if !rt.Valid() {
			return eris.Errorf("invalid --type %q (want performance or observation)", rtName)
		}

		opts, err := parseRenderOptions(reportFormat, reportCity, reportStart, reportEnd, time.Now())
		if err != nil {
			return err
		}

		svc, st, err := openService(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		var managers []string
		if reportAll {
			managers, err = svc.Managers(ctx)
			if err != nil {
				return err
			}
		} else {
			m, err := svc.ActiveManager(ctx, reportManager)
			if err != nil {
				return err
			}
			if m == "" {
				return eris.New("no business manager: import attribution data or pass --manager")
			}
			managers = []string{m}
		}

		snaps := make([]*model.Snapshot, len(managers))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(cfg.Report.Concurrency, 1))
		for i, m := range managers {
			g.Go(func() error {
				snap, err := svc.Refresh(gctx, m, rt)
				if err != nil {
					if errors.Is(err, dashboard.ErrProcessingFailed) && snap != nil {
						zap.L().Warn("showing last good report", zap.String("manager", m), zap.Error(err))
						err = nil
					} else {
						return eris.Wrapf(err, "report for %s", m)
					}
				}
				snaps[i] = snap
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, snap := range snaps {
			if len(snaps) > 1 {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "== %s ==\n", snap.Manager)
			}
			if err := writeReport(out, snap, opts); err != nil {
				return err
			}
		}
		return nil
	},
}

func parseRenderOptions(format, city, start, end string, now time.Time) (renderOptions, error) {
	opts := renderOptions{Format: strings.ToLower(format), City: strings.TrimSpace(city)}
	switch opts.Format {
	case "text", "json", "yaml", "copy":
	default:
		return opts, eris.Errorf("invalid --format %q (want text, json, yaml or copy)", format)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	opts.Start, opts.End = today, today
	if start != "" {
		t, err := time.Parse(time.DateOnly, start)
		if err != nil {
			return opts, eris.Wrapf(err, "parse --start %q", start)
		}
		opts.Start = t
		opts.End = t
	}
	if end != "" {
		t, err := time.Parse(time.DateOnly, end)
		if err != nil {
			return opts, eris.Wrapf(err, "parse --end %q", end)
		}
		opts.End = t
	}
	if opts.End.Before(opts.Start) {
		return opts, eris.Errorf("--end %s is before --start %s", end, start)
	}
	return opts, nil
}

// cityFilter narrows r to a single city, keeping an empty report when the city has no dealers.
func cityFilter(r *model.CityReport, city string) *model.CityReport {
	if city == "" {
		return r
	}
	out := model.NewCityReport()
	for _, d := range r.Dealers(city) {
		out.Append(city, d)
	}
	return out
}

func writeReport(w io.Writer, snap *model.Snapshot, opts renderOptions) error {
	r := cityFilter(snap.Report, opts.City)

	switch opts.Format {
	case "json":
		b, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return eris.Wrap(err, "marshal report json")
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return eris.Wrap(err, "marshal report yaml")
		}
		return enc.Close()
	case "copy":
		for _, city := range r.Cities() {
			payload := report.CopyAll(city, r.Dealers(city), snap.ReportType, opts.Start, opts.End)
			if payload == "" {
				continue
			}
			if _, err := fmt.Fprintln(w, payload); err != nil {
				return err
			}
		}
		return nil
	default:
		if r.Len() == 0 {
			_, err := fmt.Fprintln(w, "暂无数据")
			return err
		}
		for i, city := range r.Cities() {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if _, err := io.WriteString(w, report.RenderText(city, r.Dealers(city), snap.ReportType, opts.Start, opts.End)); err != nil {
				return err
			}
		}
		return nil
	}
}

func init() {
	reportCmd.Flags().StringVar(&reportManager, "manager", "", "business manager (default: first listed)")
	reportCmd.Flags().StringVar(&reportType, "type", "", "report type: performance or observation (default from config)")
	reportCmd.Flags().StringVar(&reportCity, "city", "", "only print this city")
	reportCmd.Flags().StringVar(&reportStart, "start", "", "data range start, YYYY-MM-DD (default today)")
	reportCmd.Flags().StringVar(&reportEnd, "end", "", "data range end, YYYY-MM-DD (default start)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "output format: text, json, yaml or copy")
	reportCmd.Flags().BoolVar(&reportAll, "all", false, "render every business manager")
	rootCmd.AddCommand(reportCmd)
}
