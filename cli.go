package repoint

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

type CLIConfig struct {
	Old         string
	New         string
	Paths       []string
	Manifests   []string
	Clipboard   bool
	DryRun      bool
	Nvim        bool
	NoAnimation bool
	LogLevel    string
	Completion  string
}

func newRootCmd() *cobra.Command {
	cfg := &CLIConfig{}

	cmd := &cobra.Command{
		Use:   "repoint --old <string> --new <string> --paths <file> [<file> ...]",
		Short: "Replace a host or URL string in a list of fixture files.",
		Long: `Replace every literal occurrence of --old with --new in each listed file.

Files that do not contain --old are left untouched and missing files are
skipped. One status line is printed per path, in the order given.

Example: repoint --old localhost --new my-vm.example.com --paths fixtures/profiles.json docker-compose.yml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Completion != "" {
				return handleCompletion(cmd, cfg.Completion)
			}

			if err := checkRequiredFlags(cmd, "old", "new"); err != nil {
				return usageError(cmd, err)
			}

			// Positional args trail --paths, so "--paths a b c" keeps all three.
			if len(args) > 0 && !cmd.Flags().Changed("paths") {
				return usageError(cmd, fmt.Errorf("unexpected arguments %q: files must follow --paths", args))
			}
			paths := append(cfg.Paths, args...)
			if len(paths) == 0 && len(cfg.Manifests) == 0 && !cfg.Clipboard {
				return usageError(cmd, fmt.Errorf("%w: pass --paths, --manifest or --clipboard", ErrNoPaths))
			}

			app, err := NewApp(&Config{
				Old:       cfg.Old,
				New:       cfg.New,
				Paths:     paths,
				Manifests: cfg.Manifests,
				Clipboard: cfg.Clipboard,
				DryRun:    cfg.DryRun,
				Nvim:      cfg.Nvim,
				LogLevel:  cfg.LogLevel,
				Stdin:     cmd.InOrStdin(),
				LogOutput: cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			defer app.Close()

			ui := NewTUI(app, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.NoAnimation)
			return ui.Run()
		},
	}

	cmd.Flags().StringVar(&cfg.Old, "old", "", "Substring to replace (e.g. localhost)")
	cmd.Flags().StringVar(&cfg.New, "new", "", "Replacement host or URL")
	cmd.Flags().StringArrayVar(&cfg.Paths, "paths", nil, "Files to process; \"-\" reads paths from stdin")
	cmd.Flags().StringArrayVarP(&cfg.Manifests, "manifest", "m", nil, "Markdown file listing paths in ```paths blocks")
	cmd.Flags().BoolVar(&cfg.Clipboard, "clipboard", false, "Read additional paths from the clipboard")
	cmd.Flags().BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Report what would change without writing")
	cmd.Flags().BoolVar(&cfg.Nvim, "nvim", false, "Write through the running Neovim ($NVIM)")
	cmd.Flags().BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable spinner")
	cmd.Flags().StringVar(&cfg.LogLevel, "log-level", defaultLogLevel, "Log level: trace, debug, info, warn, error, off")
	cmd.Flags().StringVar(&cfg.Completion, "completion", "", "Generate completion script")

	cmd.MarkFlagsMutuallyExclusive("dry-run", "nvim")
	cmd.SetFlagErrorFunc(usageError)

	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	return cmd
}

// checkRequiredFlags runs inside RunE rather than through MarkFlagRequired so
// that --completion works on its own.
func checkRequiredFlags(cmd *cobra.Command, names ...string) error {
	var missing []string
	for _, n := range names {
		if !cmd.Flags().Changed(n) {
			missing = append(missing, strconv.Quote(n))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required flag(s) %s not set", strings.Join(missing, ", "))
	}
	return nil
}

func usageError(cmd *cobra.Command, err error) error {
	_ = cmd.Usage()
	return err
}

func handleCompletion(cmd *cobra.Command, shell string) error {
	out := cmd.OutOrStdout()
	switch shell {
	case "bash":
		return cmd.Root().GenBashCompletion(out)
	case "zsh":
		return cmd.Root().GenZshCompletion(out)
	case "fish":
		return cmd.Root().GenFishCompletion(out, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(out)
	default:
		return fmt.Errorf("unsupported shell for completion: %s", shell)
	}
}

func Execute() error {
	return ExecuteArgs(os.Args[1:])
}

func ExecuteArgs(args []string) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}
