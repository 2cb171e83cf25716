// Command mdctl imports, exports and queries LabMaster master data from
// the command line, using the same configuration as the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/LabMaster/internal/app"
	"github.com/JonMunkholm/LabMaster/internal/config"
	"github.com/JonMunkholm/LabMaster/internal/core"
	"github.com/JonMunkholm/LabMaster/internal/logging"
)

// annotationStore set to "none" marks commands that run without a store.
const annotationStore = "store"

// errRowsFailed makes mdctl exit non-zero when an import rejected rows.
var errRowsFailed = errors.New("some rows were rejected")

func main() {
	if err := execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errRowsFailed) {
			fmt.Fprintln(os.Stderr, "mdctl:", err)
			if core.IsUserFacing(err) {
				fmt.Fprintln(os.Stderr, "      ", core.FormatUserError(err))
			}
		}
		os.Exit(1)
	}
}

// cli carries the opened application between the root and its subcommands.
type cli struct {
	envFile    string
	driver     string
	sqlitePath string
	logLevel   string

	app *app.App
}

func (c *cli) service() *core.Service {
	return c.app.Service
}

// execute runs one mdctl invocation and closes whatever store it opened.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{}
	root := newRootCmd(c)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if c.app != nil {
		if cerr := c.app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "mdctl",
		Short:         "LabMaster master-data command line utility",
		Long:          `Import, export and query laboratory master data (tests, units, prices, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[annotationStore] == "none" {
				return nil
			}
			return c.open(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file with configuration defaults")
	root.PersistentFlags().StringVar(&c.driver, "driver", "", "store driver override: remote, postgres, sqlite, memory")
	root.PersistentFlags().StringVar(&c.sqlitePath, "sqlite-path", "", "sqlite database file override")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level override: debug, info, warn, error")

	root.AddCommand(
		cmdCategories(),
		cmdTemplate(),
		cmdImport(c),
		cmdImportBatch(c),
		cmdExport(c),
		cmdQuery(c),
	)

	return root
}

func (c *cli) open(cmd *cobra.Command) error {
	cfg, err := config.Load(c.envFile)
	if err != nil {
		return err
	}
	if c.driver != "" {
		cfg.Persistence.Driver = c.driver
	}
	if c.sqlitePath != "" {
		cfg.Persistence.SQLitePath = c.sqlitePath
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
	a, err := app.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	c.app = a
	return nil
}
