package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/ai"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/api"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/catalog"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/renderer"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/service"
)

// CLI provides headless command-line interface functionality
type CLI struct {
	service *service.Service
	out     io.Writer
	in      io.Reader
}

// NewCLI creates a new CLI instance
func NewCLI(svc *service.Service) *CLI {
	return &CLI{service: svc, out: os.Stdout, in: os.Stdin}
}

func (c *CLI) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out, format, args...)
}

// AddCommands attaches every headless subcommand to root
func (c *CLI) AddCommands(root *cobra.Command) {
	root.AddCommand(
		c.commandsCmd(),
		c.scriptCmd(),
		c.bundleCmd(),
		c.generateCmd(),
		c.suggestCmd(),
		c.aiCmd(),
		c.serveCmd(),
	)
}

func parseScriptType(s string) (models.ScriptType, error) {
	t, err := models.ParseScriptType(s)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInvalidInput, err.Error())
	}
	return t, nil
}

// commands

func (c *CLI) commandsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "commands",
		Aliases: []string{"cmd"},
		Short:   "Browse and extend the command catalog",
	}

	var format, category string
	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List catalog commands",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			commands := c.service.ListCommands()
			if category != "" {
				commands = c.service.Catalog().ByCategory(category)
			}
			return c.formatCommands(commands, format)
		},
	}
	list.Flags().StringVarP(&format, "format", "f", "", "Output format: text, table, json or ids")
	list.Flags().StringVarP(&category, "category", "c", "", "Only list commands in this category")

	var searchFormat string
	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.formatCommands(c.service.SearchCommands(strings.Join(args, " ")), searchFormat)
		},
	}
	search.Flags().StringVarP(&searchFormat, "format", "f", "", "Output format: text, table, json or ids")

	var showFormat string
	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a catalog command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmpl, err := c.service.GetCommand(args[0])
			if err != nil {
				return err
			}
			return c.formatSingleCommand(tmpl, showFormat)
		},
	}
	show.Flags().StringVarP(&showFormat, "format", "f", "", "Output format: text or json")

	var req catalog.CustomCommandRequest
	var params []string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom command to the catalog",
		Example: `  forge commands add Invoke-Setup -p Path -p Silent
  forge commands add Invoke-Setup --params "Path, Silent" --category Install`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Name = args[0]
			for _, p := range params {
				req.Parameters = append(req.Parameters, catalog.ParseParameterList(p)...)
			}
			tmpl, err := c.service.AddCustomCommand(req)
			if err != nil {
				return err
			}
			c.printf("Added command %s (%s)\n", tmpl.Name, tmpl.ID)
			return nil
		},
	}
	add.Flags().StringArrayVarP(&params, "params", "p", nil, "Parameter names; repeat or separate with commas")
	add.Flags().StringVar(&req.ID, "id", "", "Command id (generated when empty)")
	add.Flags().StringVarP(&req.Description, "description", "d", "", "Description")
	add.Flags().StringVarP(&req.Category, "category", "c", "", "Category")

	categories := &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range c.service.Catalog().Categories() {
				c.printf("%s (%d)\n", name, len(c.service.Catalog().ByCategory(name)))
			}
			return nil
		},
	}

	cmd.AddCommand(list, search, show, add, categories)
	return cmd
}

// formatCommands formats commands for output
func (c *CLI) formatCommands(commands []models.CommandTemplate, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(commands)
	case "ids":
		for _, t := range commands {
			c.printf("%s\n", t.ID)
		}
	case "table":
		c.printf("%-20s %-24s %-10s %s\n", "ID", "Name", "Category", "Parameters")
		c.printf("%s\n", strings.Repeat("-", 80))
		for _, t := range commands {
			name := t.Name
			if len(name) > 24 {
				name = name[:21] + "..."
			}
			c.printf("%-20s %-24s %-10s %s\n", t.ID, name, t.Category, strings.Join(t.ParameterNames(), ", "))
		}
	case "", "text":
		for _, t := range commands {
			c.printf("%s - %s\n", t.ID, t.Name)
			if t.Summary != "" {
				c.printf("  %s\n", t.Summary)
			}
			if len(t.Parameters) > 0 {
				c.printf("  Parameters: %s\n", strings.Join(t.ParameterNames(), ", "))
			}
			c.printf("\n")
		}
	default:
		return errors.ValidationError(fmt.Sprintf("Unknown format '%s'", format))
	}
	return nil
}

// formatSingleCommand formats a single command for output
func (c *CLI) formatSingleCommand(t models.CommandTemplate, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case "", "text":
		c.printf("ID: %s\n", t.ID)
		c.printf("Name: %s\n", t.Name)
		if t.Category != "" {
			c.printf("Category: %s\n", t.Category)
		}
		if t.Summary != "" {
			c.printf("Description: %s\n", t.Summary)
		}
		if len(t.Parameters) > 0 {
			c.printf("Parameters: %s\n", strings.Join(t.ParameterNames(), ", "))
		}
		return nil
	default:
		return errors.ValidationError(fmt.Sprintf("Unknown format '%s'", format))
	}
}

// script

func (c *CLI) scriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Read and edit the add, launch and remove scripts",
	}

	var showFormat string
	show := &cobra.Command{
		Use:   "show <type>",
		Short: "Print a script",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseScriptType(args[0])
			if err != nil {
				return err
			}
			text, err := c.service.Script(t)
			if err != nil {
				return err
			}
			out, err := renderer.NewRenderer(t, text).Render(showFormat, 100)
			if err != nil {
				return errors.ValidationError(err.Error())
			}
			c.printf("%s", out)
			if out != "" && !strings.HasSuffix(out, "\n") {
				c.printf("\n")
			}
			return nil
		},
	}
	show.Flags().StringVarP(&showFormat, "format", "f", "", "Output format: text, markdown or preview")

	set := &cobra.Command{
		Use:   "set <type> [text]",
		Short: "Replace a script; reads standard input when no text is given",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseScriptType(args[0])
			if err != nil {
				return err
			}
			var text string
			if len(args) == 2 {
				text = args[1]
			} else {
				data, err := io.ReadAll(c.in)
				if err != nil {
					return errors.Wrap(err, errors.ErrCodeInvalidInput, "Failed to read standard input")
				}
				text = string(data)
			}
			return c.service.SetScript(t, text)
		},
	}

	insert := &cobra.Command{
		Use:   "insert <type> <command-id>",
		Short: "Append a catalog command to a script",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseScriptType(args[0])
			if err != nil {
				return err
			}
			line, err := c.service.Insert(t, args[1])
			if err != nil {
				return err
			}
			c.printf("Inserted at line %d\n", line)
			return nil
		},
	}

	bind := &cobra.Command{
		Use:     "bind <type> <line> Name=value...",
		Short:   "Set parameter values on a command line",
		Example: `  forge script bind launch 0 FilePath='C:\Program Files\App\app.exe'`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseScriptType(args[0])
			if err != nil {
				return err
			}
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return errors.ValidationError(fmt.Sprintf("Invalid line '%s'", args[1]))
			}
			values, err := parseAssignments(args[2:])
			if err != nil {
				return err
			}
			line, err := c.service.BindParameters(t, index, values)
			if err != nil {
				return err
			}
			c.printf("%s\n", line)
			return nil
		},
	}

	drop := &cobra.Command{
		Use:   "drop <type> [payload]",
		Short: "Insert a command from a drag payload; reads standard input when omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseScriptType(args[0])
			if err != nil {
				return err
			}
			var raw []byte
			if len(args) == 2 {
				raw = []byte(args[1])
			} else if raw, err = io.ReadAll(c.in); err != nil {
				return errors.Wrap(err, errors.ErrCodeInvalidInput, "Failed to read standard input")
			}
			target, line, err := c.service.Drop(raw, t)
			if err != nil {
				return err
			}
			c.printf("Inserted into %s at line %d\n", target, line)
			return nil
		},
	}

	export := &cobra.Command{
		Use:   "export <type> [path]",
		Short: "Save a script as a .ps1 file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseScriptType(args[0])
			if err != nil {
				return err
			}
			path, err := c.service.SaveScriptFile(t, optionalArg(args, 1))
			if err != nil {
				return err
			}
			c.printf("Saved %s\n", path)
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <type> <path>",
		Short: "Replace a script with a .ps1 or .txt file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseScriptType(args[0])
			if err != nil {
				return err
			}
			if err := c.service.LoadScriptFile(t, args[1]); err != nil {
				return err
			}
			c.printf("Loaded %s into the %s\n", args[1], strings.ToLower(t.Label()))
			return nil
		},
	}

	copyCmd := &cobra.Command{
		Use:   "copy <type>",
		Short: "Copy a script to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseScriptType(args[0])
			if err != nil {
				return err
			}
			if err := c.service.CopyScript(t); err != nil {
				return err
			}
			c.printf("Copied %s to clipboard\n", strings.ToLower(t.Label()))
			return nil
		},
	}

	paste := &cobra.Command{
		Use:   "paste <type>",
		Short: "Replace a script with the clipboard text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseScriptType(args[0])
			if err != nil {
				return err
			}
			if err := c.service.PasteScript(t); err != nil {
				return err
			}
			c.printf("Replaced %s from clipboard\n", strings.ToLower(t.Label()))
			return nil
		},
	}

	cmd.AddCommand(show, set, insert, bind, drop, export, importCmd, copyCmd, paste)
	return cmd
}

// parseAssignments splits Name=value arguments
func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		name = strings.TrimLeft(strings.TrimSpace(name), "-")
		if !ok || name == "" {
			return nil, errors.ValidationError(fmt.Sprintf("Expected Name=value, got '%s'", arg))
		}
		values[name] = value
	}
	return values, nil
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// bundle

func (c *CLI) bundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Save or load all three scripts as one JSON file",
	}

	export := &cobra.Command{
		Use:   "export [path]",
		Short: "Write all scripts to a JSON bundle",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if optionalArg(args, 0) == "-" {
				data, err := c.service.ExportBundle()
				if err != nil {
					return err
				}
				c.printf("%s\n", data)
				return nil
			}
			path, err := c.service.SaveBundleFile(optionalArg(args, 0))
			if err != nil {
				return err
			}
			c.printf("Saved %s\n", path)
			return nil
		},
	}

	importCmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Replace all scripts from a JSON bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "-" {
				data, err := io.ReadAll(c.in)
				if err != nil {
					return errors.Wrap(err, errors.ErrCodeInvalidInput, "Failed to read standard input")
				}
				return c.service.ImportBundle(data)
			}
			if err := c.service.LoadBundleFile(args[0]); err != nil {
				return err
			}
			c.printf("Loaded %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(export, importCmd)
	return cmd
}

// AI

func (c *CLI) generateCmd() *cobra.Command {
	var showDiff bool
	cmd := &cobra.Command{
		Use:   "generate <type> <description>",
		Short: "Replace a script with one generated from a description",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseScriptType(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			res, err := c.service.Generate(ctx, t, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			c.printResult(res, showDiff)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Print the change as a diff instead of the new script")
	return cmd
}

func (c *CLI) suggestCmd() *cobra.Command {
	var showDiff bool
	cmd := &cobra.Command{
		Use:   "suggest <type>",
		Short: "Refine a script with AI suggestions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseScriptType(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			res, err := c.service.Suggest(ctx, t)
			if err != nil {
				return err
			}
			c.printResult(res, showDiff)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Print the change as a diff instead of the new script")
	return cmd
}

func (c *CLI) printResult(res ai.Result, showDiff bool) {
	if showDiff {
		c.printf("%s", res.Diff.Unified())
	} else {
		c.printf("%s\n", res.Text)
	}
	c.printf("Updated %s (%s)\n", strings.ToLower(res.ScriptType.Label()), res.Diff)
}

func (c *CLI) aiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Turn AI suggestions on or off",
	}
	set := func(enabled bool) func(*cobra.Command, []string) error {
		return func(*cobra.Command, []string) error {
			c.service.SetAIEnabled(enabled)
			c.printAIStatus()
			return nil
		}
	}
	cmd.AddCommand(
		&cobra.Command{Use: "on", Short: "Enable AI suggestions", Args: cobra.NoArgs, RunE: set(true)},
		&cobra.Command{Use: "off", Short: "Disable AI suggestions", Args: cobra.NoArgs, RunE: set(false)},
		&cobra.Command{
			Use:   "status",
			Short: "Show the AI setting",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				c.printAIStatus()
				return nil
			},
		},
	)
	return cmd
}

func (c *CLI) printAIStatus() {
	state := "off"
	if c.service.AIEnabled() {
		state = "on"
	}
	c.printf("AI suggestions: %s (generator: %s)\n", state, c.service.Config().Generator)
}

// serve

func (c *CLI) serveCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == 0 {
				port = c.service.Config().Port
			}
			srv := api.NewAPIServer(c.service, port)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()
			c.printf("Serving on http://localhost:%d (docs at /api/docs)\n", port)

			select {
			case err := <-errCh:
				return errors.Wrap(err, errors.ErrCodeInternalError, "Server stopped")
			case <-ctx.Done():
			}
			return srv.Stop(context.Background())
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (defaults to the configured port)")
	return cmd
}
