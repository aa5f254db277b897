package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"matview/explorer"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	var (
		row    int
		filter string
	)

	cmd := &cobra.Command{
		Use:   "show <file.mat> <variable>",
		Short: "Print a variable as a table",
		Long: `Print the table of one variable, capped at the row limit. The variable may
be a dotted path into 1x1 structs. With --row, the full details of that row
are printed instead.`,
		Example: `  matview show results.mat data
  matview show results.mat cfg.inner --filter "x > 2"
  matview show results.mat data --row 0`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ConfigFrom(cmd.Context())
			s := explorer.NewSession(cfg.Limits(), LoggerFrom(cmd.Context()))
			defer s.Close()

			// The first variable is selected on open; a display error there
			// does not concern the variable asked for.
			if err := s.Open(args[0]); err != nil {
				if kind, _ := explorer.KindOf(err); kind != explorer.DisplayError {
					return err
				}
			}
			if err := s.Select(args[1]); err != nil {
				return err
			}
			if filter != "" {
				if err := s.Filter(filter); err != nil {
					return err
				}
			}

			if cmd.Flags().Changed("row") {
				values, err := s.SelectRow(row)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), explorer.DetailText(s.Table().Columns(), values, s.Limits()))
				return nil
			}
			renderTable(cmd.OutOrStdout(), s.Table())
			return nil
		},
	}

	cmd.Flags().IntVar(&row, "row", 0, "Print the details of this row (0-based)")
	cmd.Flags().StringVar(&filter, "filter", "", "Row filter, e.g. \"id > 2 AND name ~ a\"")
	return cmd
}

func renderTable(w io.Writer, tbl *explorer.Table) {
	cols := tbl.Columns()
	if tbl.RowCount() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for r := 0; r < tbl.RowCount(); r++ {
		row := make(table.Row, len(cols))
		for c := range cols {
			row[c] = tbl.Summary(r, c)
		}
		t.AppendRow(row)
	}

	t.Render()
	if tbl.Truncated() {
		_, _ = fmt.Fprintf(w, "(%d of %d rows)\n", tbl.RowCount(), tbl.Matched())
		return
	}
	_, _ = fmt.Fprintf(w, "(%d rows)\n", tbl.RowCount())
}
