package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"patch_visualizer/internal/diffcore"
	"patch_visualizer/internal/tui"
	"patch_visualizer/internal/visualizer"
)

func newDiffCmd(a *app) *cobra.Command {
	var out output
	cmd := &cobra.Command{
		Use:   "diff ORIGINAL REVISED",
		Short: "Compare two files in the context of the whole original",
		Args:  cobra.ExactArgs(2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			comparison, err := a.service.CompareFiles(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			a.printSummary(cmd, out, comparison.View)
			return a.emit(cmd, out, comparisonResult(a.service.PageTitle(comparison.View.RevisedName), comparison))
		}),
	}
	out.register(cmd)
	return cmd
}

func newPatchCmd(a *app) *cobra.Command {
	var (
		out  output
		base string
	)
	cmd := &cobra.Command{
		Use:   "patch FILE|-",
		Short: "Show a unified diff file, optionally merged over its base document",
		Long: `Show a unified diff file. Large binary sections are truncated first.

With --base the patch is merged over the base document so the whole document is shown with the
changes in place. Use - to read the patch from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}

			var (
				patch visualizer.Patch
				err   error
			)
			if args[0] == "-" {
				patch, err = a.service.LoadPatch(cmd.InOrStdin(), "stdin")
			} else {
				patch, err = a.service.LoadPatchFile(args[0])
			}
			if err != nil {
				return err
			}
			if notice := a.service.TruncationNotice(patch.Report); notice != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), notice)
			}

			if base == "" {
				r, err := patchResult(a.service.PageTitle(patch.Name), patch)
				if err != nil && out.format == formatTerm {
					return err
				}
				return a.emit(cmd, out, r)
			}

			doc, err := a.service.ReadDocument(base)
			if err != nil {
				return err
			}
			comparison, err := a.service.MergePatch(doc, patch)
			if err != nil {
				return err
			}
			a.printSummary(cmd, out, comparison.View)
			return a.emit(cmd, out, comparisonResult(a.service.PageTitle(doc.Name), comparison))
		}),
	}
	out.register(cmd)
	cmd.Flags().StringVarP(&base, "base", "b", "", "base document the patch applies to")
	return cmd
}

func newApplyCmd(a *app) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "apply BASE PATCH",
		Short: "Apply a single-file unified diff to a document",
		Args:  cobra.ExactArgs(2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			lines, err := a.service.ApplyPatchFile(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			var content string
			if len(lines) > 0 {
				content = strings.Join(lines, "\n") + "\n"
			}
			return writeOutput(cmd.OutOrStdout(), path, content)
		}),
	}
	cmd.Flags().StringVarP(&path, "output", "o", "", "write the patched document to this file instead of stdout")
	return cmd
}

func newGitCmd(a *app) *cobra.Command {
	var (
		out    output
		rev    string
		commit string
	)
	cmd := &cobra.Command{
		Use:   "git [PATH]",
		Short: "Compare a file at a revision with its working tree version, or show a commit",
		Long: `Compare the file at PATH as of --rev (default HEAD) with the working tree, in full context.

With --commit, show the patch the commit introduced instead; PATH then only selects the repository
and defaults to the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			path := "."
			if len(args) == 1 {
				path = args[0]
			}

			if commit != "" {
				patch, err := a.service.CommitPatch(path, commit)
				if err != nil {
					return err
				}
				r, err := patchResult(a.service.PageTitle(commit), patch)
				if err != nil && out.format == formatTerm {
					return err
				}
				return a.emit(cmd, out, r)
			}

			if info, err := os.Stat(path); err == nil && info.IsDir() {
				return errors.New("git needs a file path unless --commit is set")
			}
			comparison, err := a.service.CompareGitRevision(path, rev)
			if err != nil {
				return err
			}
			a.printSummary(cmd, out, comparison.View)
			return a.emit(cmd, out, comparisonResult(a.service.PageTitle(comparison.View.RevisedName), comparison))
		}),
	}
	out.register(cmd)
	cmd.Flags().StringVar(&rev, "rev", "HEAD", "revision to compare the working tree against")
	cmd.Flags().StringVar(&commit, "commit", "", "show the patch introduced by this commit")
	return cmd
}

func newDirCmd(a *app) *cobra.Command {
	var (
		out     output
		include string
	)
	cmd := &cobra.Command{
		Use:   "dir ORIGINAL_DIR REVISED_DIR",
		Short: "Compare every file under two directories",
		Args:  cobra.ExactArgs(2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			if err := out.validate(); err != nil {
				return err
			}
			comparisons, err := a.service.CompareDirectories(cmd.Context(), args[0], args[1], include)
			if err != nil {
				return err
			}
			if out.path != "" || out.format == formatTerm {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d changed files\n", len(comparisons))
			}
			return a.emit(cmd, out, comparisonResult(a.service.DirectoryTitle(args[0], args[1]), comparisons...))
		}),
	}
	out.register(cmd)
	cmd.Flags().StringVar(&include, "include", "", "only compare files matching this glob (default **/*)")
	return cmd
}

func newViewCmd(a *app) *cobra.Command {
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "view ORIGINAL REVISED",
		Short: "Browse the comparison of two files interactively, reloading on change",
		Args:  cobra.ExactArgs(2),
		RunE: a.runE(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			loader := func() (diffcore.MergedView, error) {
				comparison, err := a.service.CompareFiles(ctx, args[0], args[1])
				if err != nil {
					return diffcore.MergedView{}, err
				}
				return comparison.View, nil
			}

			var watcher *tui.Watcher
			if !noWatch {
				w, err := tui.NewWatcher(args[0], args[1])
				if err != nil {
					a.logger.Warn("Live reload disabled", map[string]any{"error": err.Error()})
				} else {
					watcher = w
					defer watcher.Close()
				}
			}

			model := tui.New(tui.Options{
				Loader:    loader,
				Watcher:   watcher,
				Summary:   a.service.Summary,
				Highlight: true,
			})
			program := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(ctx),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := program.Run(); err != nil {
				a.logger.Error("program error", err, nil)
				return fmt.Errorf("run program: %w", err)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "do not reload when the files change")
	return cmd
}

// printSummary reports the differences on stderr when the main output is not meant for reading
// in the terminal.
func (a *app) printSummary(cmd *cobra.Command, out output, view diffcore.MergedView) {
	if out.path == "" && out.format != formatTerm {
		return
	}
	fmt.Fprintln(cmd.ErrOrStderr(), a.service.Summary(view))
}
