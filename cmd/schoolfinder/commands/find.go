package commands

import (
	"fmt"
	"schoolfinder/internal/export"
	"schoolfinder/internal/schools"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var findCsv string
var findLimit int
var findThreshold float64

func init() {
	findCmd.Flags().StringVar(&findCsv, "csv", "", "The exported csv to search, defaults to output_path of the config.")
	findCmd.Flags().IntVar(&findLimit, "limit", 10, "The maximum number of schools to show.")
	findCmd.Flags().Float64Var(&findThreshold, "threshold", 0.8, "The minimum similarity (0-1) of a match.")
	rootCmd.AddCommand(findCmd)
}

var findCmd = &cobra.Command{
	Use:   "find <query> [--csv <path/to/schools.csv>] [--limit <n>] [--threshold <0-1>]",
	Short: "Searches a previous export for schools by name or city.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := findCsv
		if path == "" {
			path = loadConfig().OutputPath
		}

		list, err := export.ReadCSV(path)
		if err != nil {
			fatal("failed to read export", err)
		}

		matches := schools.Search(list, strings.Join(args, " "), findThreshold)
		if findLimit > 0 && len(matches) > findLimit {
			matches = matches[:findLimit]
		}
		if len(matches) == 0 {
			fmt.Println("no matching schools")
			return
		}

		t := newTable()
		t.AppendHeader(table.Row{"similarity", "name", "address", "city", "phone", "email"})
		for _, m := range matches {
			t.AppendRow(table.Row{
				fmt.Sprintf("%.2f", m.Similarity),
				m.School.Name,
				m.School.Address,
				m.School.City,
				m.School.Phone,
				m.School.Email,
			})
		}
		t.Render()
	},
}
