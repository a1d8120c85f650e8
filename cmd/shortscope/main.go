// Package main provides the shortscope CLI, which runs one Shorts search from
// the terminal without starting the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"shortscope-backend/internal/config"
	"shortscope-backend/internal/models"
	"shortscope-backend/internal/services"
)

var version = "dev"

type runner interface {
	Run(ctx context.Context, req models.SearchRequest) (*models.SearchResult, error)
}

type sheetExporter interface {
	Configured() bool
	Export(ctx context.Context, req models.ExportRequest) (*models.ExportResult, error)
}

// deps builds the upstream clients; tests replace it with fakes.
type deps struct {
	loadConfig  func() (*config.Config, error)
	newAnalyzer func(ctx context.Context, cfg *config.Config) (runner, error)
	newExporter func(ctx context.Context, cfg *config.Config) (sheetExporter, error)
}

func defaultDeps() deps {
	return deps{
		loadConfig: config.Load,
		newAnalyzer: func(ctx context.Context, cfg *config.Config) (runner, error) {
			yt, err := services.NewYouTubeClient(ctx, cfg.YouTubeAPIKey, cfg.YouTubeRequestsPerSec)
			if err != nil {
				return nil, err
			}
			return services.NewAnalyzer(yt, yt, yt, services.AnalyzerConfig{
				Concurrency: cfg.DetailFetchConcurrency,
				Weights:     services.ScoreWeights{Views: cfg.ScoreViewWeight, Likes: cfg.ScoreLikeWeight},
			}), nil
		},
		newExporter: func(ctx context.Context, cfg *config.Config) (sheetExporter, error) {
			if !cfg.ExportEnabled() {
				return services.NewExporter(nil, ""), nil
			}
			w, err := services.NewSheetsWriter(ctx, cfg.GoogleServiceAccount)
			if err != nil {
				return nil, err
			}
			return services.NewExporter(w, cfg.SpreadsheetID), nil
		},
	}
}

func main() {
	if err := newRootCmd(defaultDeps()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(d deps) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "shortscope",
		Short:        "Rank recent YouTube Shorts for a keyword",
		Long:         "ShortScope searches YouTube for recent short videos, ranks them by views and subscriber ratios, and can export the table to Google Sheets.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newSearchCmd(d))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newSearchCmd(d deps) *cobra.Command {
	var (
		maxResults  int
		days        int
		order       string
		shortsOnly  bool
		maxDuration int
		region      string
		export      bool
		sheetName   string
		asJSON      bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Search, rank and optionally export Shorts for a keyword",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.SearchRequest{
				RunID:          uuid.New(),
				Keyword:        strings.Join(args, " "),
				MaxResults:     maxResults,
				Days:           days,
				Order:          models.ResolveOrder(order),
				Region:         strings.ToUpper(region),
				ShortsOnly:     shortsOnly,
				MaxDurationSec: maxDuration,
				AutoExport:     export,
				SheetName:      sheetName,
			}
			if fields := req.Validate(); fields != nil {
				return fmt.Errorf("invalid arguments: %s", formatFields(fields))
			}

			cfg, err := d.loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			var exporter sheetExporter
			if export {
				if exporter, err = d.newExporter(ctx, cfg); err != nil {
					return fmt.Errorf("sheets client: %w", err)
				}
				if !exporter.Configured() {
					return errors.New("--export needs GOOGLE_SA_JSON and SHEETS_PARENT_SPREADSHEET_ID")
				}
			}

			analyzer, err := d.newAnalyzer(ctx, cfg)
			if err != nil {
				return fmt.Errorf("youtube client: %w", err)
			}

			result, err := analyzer.Run(ctx, req)
			if err != nil {
				return err
			}

			switch {
			case export && result.Empty():
				result.ExportSkipped = fmt.Sprintf("nothing to export (%s)", result.Outcome)
			case export:
				result.Export, err = exporter.Export(ctx, models.ExportRequest{
					Keyword:   req.Keyword,
					SheetName: req.SheetName,
					Rows:      result.Videos,
				})
				if err != nil {
					return err
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			return printResult(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().IntVarP(&maxResults, "max", "n", 100, "Maximum number of search results (1-200)")
	cmd.Flags().IntVarP(&days, "days", "d", 90, "Only videos published in the last N days (1-180)")
	cmd.Flags().StringVarP(&order, "order", "o", "views", "Search order (views, date, relevance, rating, title, videoCount)")
	cmd.Flags().BoolVar(&shortsOnly, "shorts-only", true, "Drop videos longer than --max-duration")
	cmd.Flags().IntVar(&maxDuration, "max-duration", 60, "Maximum duration in seconds when --shorts-only (1-600)")
	cmd.Flags().StringVarP(&region, "region", "r", "", "ISO 3166-1 alpha-2 region code")
	cmd.Flags().BoolVar(&export, "export", false, "Write the ranked table to Google Sheets")
	cmd.Flags().StringVar(&sheetName, "sheet-name", "", "Sheet tab name (default <keyword>_<YYYYMMDD>)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Give up after this long")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the shortscope version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info, _ := debug.ReadBuildInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "shortscope version %s\n", resolveVersion(version, info))
		},
	}
}

// resolveVersion prefers a version stamped with -ldflags, then the module
// version recorded by go install.
func resolveVersion(ldflags string, info *debug.BuildInfo) string {
	if ldflags != "dev" {
		return ldflags
	}
	if info == nil || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "dev"
	}
	return info.Main.Version
}

func formatFields(fields map[string]string) string {
	parts := make([]string, 0, len(fields))
	for _, key := range []string{"q", "max_results", "days", "max_duration_sec", "region"} {
		if msg, ok := fields[key]; ok {
			parts = append(parts, key+" "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

func printResult(out io.Writer, result *models.SearchResult) error {
	if result.Empty() {
		fmt.Fprintf(out, "No videos found for %q (%s)\n", result.Keyword, result.Outcome)
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tVIEWS\tSUBS\tVIEWS/SUB\tSCORE\tSECS\tCHANNEL\tTITLE\tURL")
	for i, v := range result.Videos {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%.4f\t%d\t%s\t%s\t%s\n",
			i+1, v.ViewCount, optionalInt(v.SubscriberCount), optionalFloat(v.ViewsPerSub),
			v.ViralityScore, v.DurationSec, v.ChannelTitle, truncate(v.VideoTitle, 48), v.WatchURL)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n%d videos for %q\n", result.Count, result.Keyword)
	if result.Export != nil {
		fmt.Fprintf(out, "Exported %d rows to %s (tab %q)\n", result.Export.Rows, result.Export.SheetURL, result.Export.SheetName)
	}
	return nil
}

func optionalInt(p *int64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprint(*p)
}

func optionalFloat(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.4f", *p)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
