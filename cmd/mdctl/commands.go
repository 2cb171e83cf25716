package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/LabMaster/internal/codec"
	"github.com/JonMunkholm/LabMaster/internal/core"
	"github.com/JonMunkholm/LabMaster/internal/core/categories"
)

var noStore = map[string]string{annotationStore: "none"}

func cmdCategories() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:         "categories",
		Short:       "list master-data categories and their required fields",
		Args:        cobra.NoArgs,
		Annotations: noStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := categories.NewRegistry()
			schemas := reg.All()
			if group != "" {
				schemas = reg.ByGroup(group)
				if len(schemas) == 0 {
					return fmt.Errorf("no categories in group %q (groups: %s)", group, strings.Join(reg.Groups(), ", "))
				}
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tGROUP\tLABEL\tREQUIRED")
			for _, s := range schemas {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ID, s.Group, s.Label, strings.Join(s.RequiredKeys(), ","))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "only list categories in this group")
	return cmd
}

func cmdTemplate() *cobra.Command {
	var output, format string
	cmd := &cobra.Command{
		Use:         "template <category>",
		Short:       "write an empty import template for a category",
		Args:        cobra.ExactArgs(1),
		Annotations: noStore,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := codec.ParseFormat(format)
			if err != nil {
				return err
			}
			gen := core.NewTemplateGenerator(categories.NewRegistry(), codec.New(f))
			data, err := gen.Run(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0] + "_template" + f.Extension()
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default <category>_template.<format>)`)
	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "file format: xlsx or csv")
	return cmd
}

func cmdImport(c *cli) *cobra.Command {
	var dryRun, asJSON, progress bool
	cmd := &cobra.Command{
		Use:   "import <category> <file>",
		Short: "import a spreadsheet into a category",
		Long: `Import validates every row and saves the valid ones in file order.
Rows that fail are listed with their row number; rows already saved are
never rolled back. With --dry-run nothing is saved.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			var report *core.ImportReport
			switch {
			case dryRun:
				report, err = c.service().Preview(cmd.Context(), args[0], data)
			case progress:
				report, err = c.service().ImportWithProgress(cmd.Context(), args[0], data, func(p core.ImportProgress) {
					fmt.Fprintf(cmd.ErrOrStderr(), "\r%s %s: %d/%d (%d%%)", p.CategoryID, p.Phase, p.CurrentRow, p.TotalRows, p.Percent())
				})
				fmt.Fprintln(cmd.ErrOrStderr())
			default:
				report, err = c.service().Import(cmd.Context(), args[0], data)
			}
			if report == nil {
				return err
			}

			if asJSON {
				if jerr := printJSON(cmd.OutOrStdout(), report); jerr != nil {
					return jerr
				}
			} else {
				printReport(cmd.OutOrStdout(), report)
			}
			if err != nil {
				return err
			}
			if report.ErrorCount > 0 {
				return errRowsFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate only, save nothing")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&progress, "progress", false, "show progress on stderr")
	return cmd
}

func cmdImportBatch(c *cli) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "import-batch <dir>",
		Short: "import every .xlsx and .csv file in a directory",
		Long: `Each file is imported into the category named by its file name
without extension, e.g. units.xlsx into "units". Categories are imported
concurrently and a failure in one never affects the others.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readBatchDir(args[0])
			if err != nil {
				return err
			}

			batch, err := c.service().ImportBatch(cmd.Context(), files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				if err := printJSON(out, batch); err != nil {
					return err
				}
			} else {
				for _, id := range batch.Categories() {
					printReport(out, batch.Reports[id])
				}
				for _, f := range batch.Failures {
					fmt.Fprintf(out, "%s: FAILED: %s\n", f.CategoryID, f.Error)
				}
				fmt.Fprintf(out, "total: %d rows, %d saved, %d rejected, %d categories failed\n",
					batch.TotalRows, batch.SuccessCount, batch.ErrorCount, len(batch.Failures))
			}
			if batch.ErrorCount > 0 || len(batch.Failures) > 0 {
				return errRowsFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the batch report as JSON")
	return cmd
}

// readBatchDir loads the spreadsheets of dir keyed by file stem.
func readBatchDir(dir string) (map[string][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	files := make(map[string][]byte)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".xlsx" && ext != ".csv" {
			continue
		}
		categoryID := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if _, dup := files[categoryID]; dup {
			return nil, fmt.Errorf("more than one file for category %q in %s", categoryID, dir)
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		files[categoryID] = data
	}
	return files, nil
}

// queryFlags are shared by export and query.
type queryFlags struct {
	search  string
	sort    string
	dir     string
	filters []string
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.search, "search", "s", "", "case-insensitive text search across all fields")
	cmd.Flags().StringVar(&q.sort, "sort", "", "field key to sort by")
	cmd.Flags().StringVar(&q.dir, "dir", "asc", "sort direction: asc or desc")
	cmd.Flags().StringArrayVar(&q.filters, "filter", nil, "column filter field=op:value, e.g. price=gte:10 (repeatable)")
}

func (q *queryFlags) state(schema *core.Schema) (core.QueryState, error) {
	state := core.QueryState{
		Search:        q.search,
		SortField:     q.sort,
		SortDirection: core.ParseSortDirection(q.dir),
	}
	for _, expr := range q.filters {
		name, rest, ok := strings.Cut(expr, "=")
		if !ok {
			return core.QueryState{}, fmt.Errorf("%w: %q: expected field=op:value", core.ErrInvalidFilter, expr)
		}
		field, ok := schema.Field(strings.TrimSpace(name))
		if !ok {
			return core.QueryState{}, fmt.Errorf("%w: unknown field %q", core.ErrInvalidFilter, name)
		}
		filter, err := core.ParseFilter(field, rest)
		if err != nil {
			return core.QueryState{}, err
		}
		state.Filters = append(state.Filters, filter)
	}
	return state, nil
}

func cmdExport(c *cli) *cobra.Command {
	var output, format string
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "export <category>",
		Short: "export a category's records to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := c.service().Schema(args[0])
			if err != nil {
				return err
			}
			f, err := codec.ParseFormat(format)
			if err != nil {
				return err
			}
			state, err := q.state(schema)
			if err != nil {
				return err
			}

			data, err := c.service().Export(cmd.Context(), args[0], &state, codec.New(f))
			if err != nil {
				return err
			}
			if output == "" {
				output = args[0] + f.Extension()
			}
			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default <category>.<format>)`)
	cmd.Flags().StringVarP(&format, "format", "f", "xlsx", "file format: xlsx or csv")
	q.register(cmd)
	return cmd
}

func cmdQuery(c *cli) *cobra.Command {
	var page, pageSize int
	var asJSON bool
	var q queryFlags
	cmd := &cobra.Command{
		Use:   "query <category>",
		Short: "list a category's records with search, sort, filters and paging",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := c.service().Schema(args[0])
			if err != nil {
				return err
			}
			state, err := q.state(schema)
			if err != nil {
				return err
			}
			state.Page = page
			state.PageSize = pageSize

			result, err := c.service().Query(cmd.Context(), args[0], state)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, result)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			header := append(core.ExportHeader(schema)[:len(schema.Fields)], core.FieldIsActive)
			fmt.Fprintln(tw, strings.Join(header, "\t"))
			for _, rec := range result.Items {
				values := core.ExportValues(schema, rec)[:len(schema.Fields)]
				values = append(values, core.FormatCell(rec[core.FieldIsActive]))
				fmt.Fprintln(tw, strings.Join(values, "\t"))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "page %d of %d (%d matching)\n", result.Page, result.TotalPages, result.TotalMatched)
			return nil
		},
	}
	q.register(cmd)
	cmd.Flags().IntVarP(&page, "page", "p", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", core.DefaultPageSize, "records per page")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func printReport(w io.Writer, r *core.ImportReport) {
	verb := "imported"
	if r.DryRun {
		verb = "validated"
	}
	fmt.Fprintf(w, "%s: %s %d rows, %d ok, %d rejected", r.CategoryID, verb, r.TotalRows, r.SuccessCount, r.ErrorCount)
	if r.Cancelled {
		fmt.Fprint(w, " (cancelled)")
	}
	fmt.Fprintln(w)
	if len(r.MissingColumns) > 0 {
		fmt.Fprintf(w, "  missing columns: %s\n", strings.Join(r.MissingColumns, ", "))
	}

	errs := append([]core.ValidationError(nil), r.Errors...)
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].RowNumber < errs[j].RowNumber })
	for _, e := range errs {
		if e.RowNumber > 0 {
			fmt.Fprintf(w, "  row %d: %s: %s\n", e.RowNumber, e.Field, e.Message)
		} else {
			fmt.Fprintf(w, "  %s: %s\n", e.Field, e.Message)
		}
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", path, len(data))
	return nil
}
