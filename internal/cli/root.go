// Package cli wires the forge commands into a cobra command tree. Running the
// root command without a subcommand starts the interactive editor.
package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/config"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/logging"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/service"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/ui"
)

type rootFlags struct {
	dir     string
	debug   bool
	verbose bool
}

// NewRootCommand builds the forge command tree. The service is created
// after flag parsing so --dir and --debug apply to every subcommand.
func NewRootCommand(version string) *cobra.Command {
	var flags rootFlags
	c := &CLI{out: os.Stdout, in: os.Stdin}
	var fileLogger logging.FileLogger

	root := &cobra.Command{
		Use:   "forge",
		Short: "Compose PowerShell install, launch and uninstall scripts",
		Long: `PowerShell Forge builds the three scripts needed to package an application:
an add script, a launch script and a remove script. Commands come from a
catalog of PowerShell cmdlets that you can extend with your own.

Run without a subcommand to open the interactive editor.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flags.dir)
			if err != nil {
				return err
			}
			if flags.debug {
				cfg.Debug = true
			}
			fileLogger, err = logging.New(cfg.DataDir, cfg.Debug)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
			}
			svc, err := service.NewService(service.Options{Config: cfg, Logger: fileLogger.Logger})
			if err != nil {
				return err
			}
			c.service = svc
			fileLogger.Logger.Debug("command started", zap.String("command", cmd.CommandPath()))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return fileLogger.Close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(c.service)
		},
	}

	root.PersistentFlags().StringVar(&flags.dir, "dir", "", "Data directory (default $FORGE_DIR or ~/.powershell-forge)")
	root.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Write debug logs to <dir>/logs/forge.log")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Show error details")

	c.AddCommands(root)
	return root
}

func runTUI(svc *service.Service) error {
	model, err := ui.NewModel(svc)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// Execute runs the command line and returns the process exit code
func Execute(version string) int {
	root := NewRootCommand(version)
	cmd, err := root.ExecuteC()
	if err == nil {
		return 0
	}
	verbose, _ := root.PersistentFlags().GetBool("verbose")
	printError(os.Stderr, err, verbose)
	if !errors.IsAppError(err) {
		fmt.Fprintf(os.Stderr, "Run '%s --help' for usage.\n", cmd.CommandPath())
	}
	return 1
}

func printError(w io.Writer, err error, verbose bool) {
	if !errors.IsAppError(err) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(w, errors.NewCLIErrorHandler(verbose, nil).FormatError(err))
}
