package commands

import (
	"log/slog"
	"os"
	"schoolfinder/internal/config"
	"schoolfinder/internal/export"
	"schoolfinder/internal/schools"
	"schoolfinder/internal/scraper"
	"schoolfinder/internal/scrapers/asl"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var outPath string
var dbPath string
var preview bool

func init() {
	rootCmd.Flags().StringVar(&outPath, "out", "", "The csv file to write, overrides output_path of the config.")
	rootCmd.Flags().StringVar(&dbPath, "db", "", "A sqlite database to also write the schools to.")
	rootCmd.Flags().BoolVar(&preview, "preview", false, "Print the exported schools as a table.")
}

func loadConfig() config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fatal("failed to read config", err)
	}
	if outPath != "" {
		cfg.OutputPath = outPath
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	return cfg
}

func exportersFor(cfg config.Config) []scraper.Exporter {
	exporters := []scraper.Exporter{export.CSVExporter{Path: cfg.OutputPath}}
	if cfg.DatabasePath != "" {
		exporters = append(exporters, export.SQLiteExporter{Path: cfg.DatabasePath})
	}
	return exporters
}

func runScrape(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	tel := newTelemetryAPI()

	client, err := asl.NewClient(cfg, tel)
	if err != nil {
		fatal("failed to create scraper", err)
	}

	slog.Info("fetching schools data", "url", cfg.PageUrl())
	t1 := time.Now()
	result, err := scraper.Run(cmd.Context(), client, exportersFor(cfg), tel)
	if err != nil {
		fatal("failed to export schools", err)
	}
	t2 := time.Now()

	slog.Info(
		result.Message,
		"state", result.State.String(),
		"seconds", t2.Sub(t1).Seconds(),
	)

	if preview && len(result.Schools) > 0 {
		renderSchools(result.Schools)
	}
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func renderSchools(list []schools.School) {
	t := newTable()
	t.AppendHeader(table.Row{"#", "name", "city", "state", "phone", "website"})
	for i, school := range list {
		t.AppendRow(table.Row{
			i + 1,
			school.Name,
			school.City,
			school.State,
			school.Phone,
			school.Website,
		})
	}
	t.AppendFooter(table.Row{"", "total", len(list)})
	t.Render()
}
