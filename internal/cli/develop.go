package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/ai-dev-team/internal/core"
	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

var (
	developFile      string
	developOut       string
	developTemplates []string
	developDryRun    bool
	developQuiet     bool
)

var developCmd = &cobra.Command{
	Use:   "develop [requirements]",
	Short: "Run the team on project requirements",
	Long: `Plan, implement, verify and report on a project.

Requirements come from the argument, from --file, or from stdin with
--file -. Lines starting with "- " or "* " become the features listed
in the generated README.

Generated files are written to the output directory together with
project_report.txt, the run summary and the communication log. The
command fails when any task did not complete.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Projects == nil {
			return fmt.Errorf("project service not initialized")
		}

		requirements, err := readRequirements(cmd.InOrStdin(), args, developFile)
		if err != nil {
			return err
		}

		for _, spec := range developTemplates {
			category, path, err := parseTemplateFlag(spec)
			if err != nil {
				return err
			}
			if TmplMgr == nil {
				return fmt.Errorf("template manager not initialized")
			}
			if err := TmplMgr.RegisterTemplate(category, path); err != nil {
				return fmt.Errorf("registering template: %w", err)
			}
		}

		run, err := Projects.Develop(requirements, core.DevelopOptions{
			OutputDir:   developOut,
			SkipArchive: developDryRun,
		})
		var planErr *core.PlanningFailedError
		if errors.As(err, &planErr) {
			return fmt.Errorf("%w: provide requirements as an argument or with --file", err)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !developQuiet {
			fmt.Fprint(out, core.RenderReport(run.Summary))
		}
		if len(run.Written) > 0 {
			fmt.Fprintf(out, "\nWrote %d path(s):\n", len(run.Written))
			for _, p := range run.Written {
				fmt.Fprintf(out, "  %s\n", p)
			}
		}

		if !run.Summary.ProjectComplete() {
			p := run.Summary.Progress
			return fmt.Errorf("project incomplete: %d/%d tasks completed, %d open bug(s)", p.Completed, p.Total, p.OpenBugs)
		}
		return nil
	},
}

// readRequirements picks the requirements text from the positional
// argument or the --file flag, where "-" means stdin.
func readRequirements(stdin io.Reader, args []string, file string) (string, error) {
	if len(args) > 0 && file != "" {
		return "", fmt.Errorf("pass requirements either as an argument or with --file, not both")
	}
	if len(args) > 0 {
		return args[0], nil
	}

	switch file {
	case "":
		return "", nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading requirements from stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading requirements file: %w", err)
		}
		return string(data), nil
	}
}

// parseTemplateFlag splits a --template value of the form category=path.
// Relative paths are resolved against the working directory.
func parseTemplateFlag(spec string) (models.Category, string, error) {
	name, path, ok := strings.Cut(spec, "=")
	if !ok || strings.TrimSpace(path) == "" {
		return "", "", fmt.Errorf("invalid --template %q: expected category=path", spec)
	}
	category := models.Category(strings.TrimSpace(name))
	if !category.Valid() {
		return "", "", fmt.Errorf("invalid --template %q: unknown category %q", spec, name)
	}
	abs, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return "", "", fmt.Errorf("invalid --template %q: %w", spec, err)
	}
	return category, abs, nil
}

func init() {
	developCmd.Flags().StringVarP(&developFile, "file", "f", "", "Read requirements from a file (- for stdin)")
	developCmd.Flags().StringVarP(&developOut, "out", "o", "", "Output directory (defaults to output.dir from .teamconfig.yaml)")
	developCmd.Flags().StringArrayVar(&developTemplates, "template", nil, "Use a custom template file for a category (category=path, repeatable)")
	developCmd.Flags().BoolVar(&developDryRun, "dry-run", false, "Run the team without writing anything")
	developCmd.Flags().BoolVarP(&developQuiet, "quiet", "q", false, "Do not print the completion report")
	rootCmd.AddCommand(developCmd)
}
