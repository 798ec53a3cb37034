package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"visitboard/domain"
	"visitboard/driver"
	"visitboard/gateway"
	"visitboard/usecase"
)

func newSummaryCmd(a *app) *cobra.Command {
	var (
		datasetPath string
		chartPath   string
		rows        int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dataset summary",
		Long: `Load the dataset the /titanic page uses and print its statistics, the
passenger counts per group and a preview of the leading rows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if datasetPath == "" {
				datasetPath = a.cfg.Dataset.Path
			}
			if rows <= 0 {
				rows = a.cfg.Dataset.PreviewRows
			}

			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelError}))
			uc := usecase.NewSummaryUsecase(driver.NewCSVDatasetDriver(datasetPath), gateway.NewChartGateway(), rows, log)

			summary := uc.BuildSummary(cmd.Context())
			if summary.Unavailable() {
				return fmt.Errorf("%s", summary.ErrorMessage())
			}

			out := cmd.OutOrStdout()
			printSummary(out, summary)

			if chartPath != "" {
				if summary.Chart == nil {
					return fmt.Errorf("chart could not be rendered")
				}
				if err := os.WriteFile(chartPath, summary.Chart.PNG, 0o644); err != nil {
					return fmt.Errorf("write chart: %w", err)
				}
				fmt.Fprintf(out, "\nChart written to %s\n", chartPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "dataset CSV (default: DATASET_PATH)")
	cmd.Flags().StringVar(&chartPath, "chart", "", "also write the survival chart PNG to this file")
	cmd.Flags().IntVar(&rows, "rows", 0, "preview rows (default: PREVIEW_ROWS)")

	return cmd
}

func printSummary(w io.Writer, s domain.RenderedSummary) {
	heading := color.New(color.FgCyan, color.Bold)

	heading.Fprintln(w, "Titanic Dataset")
	fmt.Fprintf(w, "  Total Passengers: %d\n", s.Stats.Total)
	fmt.Fprintf(w, "  Survived:         %s\n", color.GreenString("%d", s.Stats.Survived))
	fmt.Fprintf(w, "  Survival Rate:    %s%%\n", strconv.FormatFloat(s.Stats.Rate, 'f', 1, 64))

	heading.Fprintln(w, "\nSurvival by Gender")
	groupRows := make([][]string, 0, len(s.Groups.Groups))
	for _, g := range s.Groups.Groups {
		groupRows = append(groupRows, []string{
			g.Group,
			strconv.Itoa(g.Count(domain.OutcomeDied)),
			strconv.Itoa(g.Count(domain.OutcomeSurvived)),
			strconv.Itoa(g.Total()),
		})
	}
	renderTable(w, []string{domain.ColumnGroup, domain.OutcomeDied.Label(), domain.OutcomeSurvived.Label(), "Total"}, groupRows)

	heading.Fprintln(w, "\nData Preview")
	renderTable(w, s.Preview.Columns, s.Preview.Rows)
}

func renderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)
	table.Header(header)
	_ = table.Bulk(rows)
	_ = table.Render()
}
