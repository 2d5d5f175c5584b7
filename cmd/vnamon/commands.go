package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/vnamon/internal/app"
	"github.com/five82/vnamon/internal/config"
	"github.com/five82/vnamon/internal/prefs"
)

var version = "dev"

type rootFlags struct {
	configPath string
	prefsPath  string
	folder     string
}

func (f *rootFlags) options() app.Options {
	return app.Options{
		ConfigPath: f.configPath,
		PrefsPath:  f.prefsPath,
		Folder:     f.folder,
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "vnamon",
		Short: "Monitor antenna measurements from a VNA host",
		Long: `vnamon mirrors the data log and latest S-parameter sweep of a
measurement folder from an SFTP server and charts them in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.options())
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file path (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&flags.prefsPath, "prefs", "", "preferences file path (default "+prefs.DefaultPath()+")")
	root.Flags().StringVar(&flags.folder, "folder", "", "measurement folder to follow (default: last used)")

	root.AddCommand(newSyncCmd(flags), newRenderCmd(flags), newVersionCmd())
	return root
}

func newSyncCmd(flags *rootFlags) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "sync [folder]",
		Short: "Mirror a measurement folder without the UI",
		Long: `Runs the sync loop headless, logging each cycle. If a folder is
provided it replaces the last used one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.options()
			if len(args) > 0 {
				opts.Folder = args[0]
			}
			return app.Sync(cmd.Context(), opts, once)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single cycle and exit non-zero unless both files were fetched")
	return cmd
}

func newRenderCmd(flags *rootFlags) *cobra.Command {
	var (
		out       string
		smoothing int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the charts for the cached data as PNG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if smoothing < 0 {
				return fmt.Errorf("smoothing must be positive")
			}
			files, err := app.Render(flags.options(), out, smoothing)
			if err != nil {
				return err
			}
			for _, f := range files {
				cmd.Println(f)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", ".", "output directory")
	cmd.Flags().IntVar(&smoothing, "smoothing", 0, "rolling-mean window (default: saved preference)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("vnamon version %s\n", version)
		},
	}
}
