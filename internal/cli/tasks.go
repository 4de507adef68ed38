package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/tasktrackr/internal/client"
	"github.com/Makepad-fr/tasktrackr/internal/model"
	"github.com/Makepad-fr/tasktrackr/internal/ui"
)

func (a *app) newListCmd() *cobra.Command {
	var (
		group  bool
		output string
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Args:    usageArgs(cobra.NoArgs, "tasktrackr ls [--group] [-o table|json|yaml]"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch output {
			case "table", "json", "yaml":
			default:
				return usagef("ls: unknown output %q (want table, json or yaml)", output)
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			tasks, err := c.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			w := cmd.OutOrStdout()
			switch output {
			case "json":
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(tasks)
			case "yaml":
				enc := yaml.NewEncoder(w)
				enc.SetIndent(2)
				if err := enc.Encode(tasks); err != nil {
					return err
				}
				return enc.Close()
			}
			fmt.Fprintln(w, ui.PanelLines(listLines(tasks, group)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func (a *app) newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <title...>",
		Short: "Add a new task (title can be multiple words)",
		Args:  usageArgs(cobra.MinimumNArgs(1), "tasktrackr add <title...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return usagef("add: empty title")
			}
			c, err := a.client()
			if err != nil {
				return err
			}
			if _, err := c.Create(cmd.Context(), title); err != nil {
				return fmt.Errorf("add: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "added")
			return nil
		},
	}
}

func (a *app) newDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Toggle done for the task at a 1-based index",
		Args:  usageArgs(cobra.ExactArgs(1), "tasktrackr done <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			t, err := taskAt(cmd, c, args[0], "done")
			if err != nil {
				return err
			}
			if _, err := c.SetCompleted(cmd.Context(), t.ID, !t.Completed); err != nil {
				return fmt.Errorf("done: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "toggled")
			return nil
		},
	}
}

func (a *app) newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"delete"},
		Short:   "Remove the task at a 1-based index",
		Args:    usageArgs(cobra.ExactArgs(1), "tasktrackr rm <index>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			t, err := taskAt(cmd, c, args[0], "rm")
			if err != nil {
				return err
			}
			if err := c.Delete(cmd.Context(), t.ID); err != nil {
				return fmt.Errorf("rm: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "removed")
			return nil
		},
	}
}

func (a *app) newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the API is reachable",
		Args:  usageArgs(cobra.NoArgs, "tasktrackr health"),
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client()
			if err != nil {
				return err
			}
			if err := c.Health(cmd.Context()); err != nil {
				return fmt.Errorf("health: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), "api ok at "+c.BaseURL())
			return nil
		},
	}
}

// taskAt resolves a 1-based index against the current listing.
func taskAt(cmd *cobra.Command, c *client.Client, raw, verb string) (model.Task, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return model.Task{}, usagef("%s: not a number: %s", verb, raw)
	}
	tasks, err := c.List(cmd.Context())
	if err != nil {
		return model.Task{}, fmt.Errorf("load: %w", err)
	}
	if n < 1 || n > len(tasks) {
		return model.Task{}, usagef("index out of range: have %d, got %d (run `tasktrackr ls` to see valid indexes)", len(tasks), n)
	}
	return tasks[n-1], nil
}

// -------------- rendering helpers --------------

func stats(tasks []model.Task) (done, pending int) {
	for _, t := range tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

func listLines(tasks []model.Task, group bool) []string {
	t := ui.Current()
	d, p := stats(tasks)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Tasks"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(tasks),
	)

	lines := []string{header, t.Muted.Render(ui.ProgressBar(d, d+p, 28)), ""}
	switch {
	case group:
		lines = append(lines, groupLines(tasks)...)
	case len(tasks) == 0:
		lines = append(lines, t.Muted.Render("no tasks"))
	default:
		lines = append(lines, flatLines(tasks, nil)...)
	}
	lines = append(lines, "", t.Muted.Render("Tip: add with `tasktrackr add \"Buy milk\"`"))
	return lines
}

// maxTitleWidth is the widest a title may render in a listing, in cells.
const maxTitleWidth = 80

// flatLines renders tasks; keep selects which ones, by position in tasks,
// so numbering always matches the full listing.
func flatLines(tasks []model.Task, keep func(model.Task) bool) []string {
	th := ui.Current()
	var out []string
	for i, task := range tasks {
		if keep != nil && !keep(task) {
			continue
		}
		idx := fmt.Sprintf("%2d.", i+1)
		box := th.Muted.Render(th.BoxUnchecked)
		if task.Completed {
			box = th.Success.Render(th.BoxChecked)
		}
		title := ansi.Truncate(task.Title, maxTitleWidth, "...")
		out = append(out, fmt.Sprintf("%s %s %s", th.Muted.Render(idx), box, title))
	}
	return out
}

func groupLines(tasks []model.Task) []string {
	th := ui.Current()
	section := func(name string, keep func(model.Task) bool) []string {
		lines := []string{th.Accent.Render(name)}
		body := flatLines(tasks, keep)
		if len(body) == 0 {
			return append(lines, th.Muted.Render("(none)"))
		}
		return append(lines, body...)
	}

	lines := section("Pending", func(t model.Task) bool { return !t.Completed })
	lines = append(lines, "")
	return append(lines, section("Done", func(t model.Task) bool { return t.Completed })...)
}
