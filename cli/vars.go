package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"matview/explorer"
)

// NewVarsCommand creates the vars command.
func NewVarsCommand() *cobra.Command {
	var fields bool

	cmd := &cobra.Command{
		Use:   "vars <file.mat>",
		Short: "List the variables of a file",
		Long: `List every user variable of a .mat file with its size and class.
With --fields, the fields of 1x1 structs are listed as dotted paths.`,
		Example: `  matview vars results.mat
  matview vars --fields results.mat`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := LoggerFrom(cmd.Context())
			contents, err := explorer.Load(args[0])
			if err != nil {
				return err
			}
			logger.Debug("listing variables", "path", args[0], "count", contents.Len())
			renderVars(cmd.OutOrStdout(), contents, fields)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fields, "fields", false, "Also list fields of 1x1 structs")
	return cmd
}

func renderVars(w io.Writer, contents *explorer.Contents, fields bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	t.AppendHeader(table.Row{"Name", "Size", "Class"})

	var walk func(names []string)
	walk = func(names []string) {
		for _, name := range names {
			a, ok := contents.Lookup(name)
			if !ok {
				continue
			}
			t.AppendRow(table.Row{name, a.Shape(), a.TypeName()})
			if fields {
				walk(contents.Children(name))
			}
		}
	}
	walk(contents.Names())

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d variables)\n", contents.Len())
}
