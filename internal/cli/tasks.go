package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kittclouds/notegraph/internal/store"
)

// TasksOptions configures the tasks command group.
type TasksOptions struct {
	*RootOptions

	NoteID    string
	Checked   bool
	Unchecked bool
}

// NewTasksCommand creates the tasks command group.
func NewTasksCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Work with per-note checklists",
	}
	cmd.AddCommand(newTasksListCommand(root))
	cmd.AddCommand(newTasksSetCommand(root))
	cmd.AddCommand(newTasksToggleCommand(root))
	return cmd
}

func newTasksListCommand(root *RootOptions) *cobra.Command {
	opts := &TasksOptions{RootOptions: root}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks across all notes, or one note's checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Checked && opts.Unchecked {
				return fmt.Errorf("--checked and --unchecked are mutually exclusive")
			}

			svc, cleanup, err := openService(opts.RootOptions)
			if err != nil {
				return err
			}
			defer cleanup()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if opts.NoteID != "" {
				tasks, err := svc.Store().TasksForNote(ctx, opts.NoteID)
				if err != nil {
					return err
				}
				if opts.JSON {
					return printJSON(out, tasks)
				}
				for _, t := range tasks {
					fmt.Fprintf(out, "%s %s  %s\n", checkbox(t.Checked), t.ID, t.Content)
				}
				return nil
			}

			var filter *bool
			if opts.Checked {
				filter = boolPtr(true)
			}
			if opts.Unchecked {
				filter = boolPtr(false)
			}
			tasks, err := svc.Store().AllTasks(ctx, filter)
			if err != nil {
				return err
			}
			if opts.JSON {
				return printJSON(out, tasks)
			}
			for _, t := range tasks {
				fmt.Fprintf(out, "%s %s  %s  (%s)\n", checkbox(t.Checked), t.ID, t.Content, t.NoteTitle)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.NoteID, "note", "", "limit to one note's checklist")
	cmd.Flags().BoolVar(&opts.Checked, "checked", false, "only completed tasks")
	cmd.Flags().BoolVar(&opts.Unchecked, "unchecked", false, "only open tasks")

	return cmd
}

func newTasksSetCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <note-id>",
		Short: "Replace a note's checklist from stdin, one task per line",
		Long: "Reads the new checklist from stdin, one task per line. Lines starting " +
			"with \"[x]\" are completed. Tasks whose text matches an existing task " +
			"keep their id; omitted tasks are deleted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := readTaskLines(cmd)
			if err != nil {
				return err
			}

			svc, cleanup, err := openService(root)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.Store().ReplaceTasksFor(cmd.Context(), args[0], inputs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "set %d tasks on %s\n", len(inputs), args[0])
			return nil
		},
	}
}

// readTaskLines parses one TaskInput per non-empty stdin line. A "[x]" or
// "[ ]" prefix carries the checked state; its absence means unchecked.
func readTaskLines(cmd *cobra.Command) ([]store.TaskInput, error) {
	var inputs []store.TaskInput
	sc := bufio.NewScanner(cmd.InOrStdin())
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		checked := false
		switch {
		case strings.HasPrefix(line, "[x]"), strings.HasPrefix(line, "[X]"):
			checked = true
			line = strings.TrimSpace(line[3:])
		case strings.HasPrefix(line, "[ ]"):
			line = strings.TrimSpace(line[3:])
		}
		inputs = append(inputs, store.TaskInput{
			Content:  line,
			Checked:  checked,
			Position: len(inputs),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return inputs, nil
}

func newTasksToggleCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <task-id>",
		Short: "Flip a task's checked state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := openService(root)
			if err != nil {
				return err
			}
			defer cleanup()

			task, err := svc.Store().ToggleTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if task == nil {
				return fmt.Errorf("task %q not found", args[0])
			}

			if root.JSON {
				return printJSON(cmd.OutOrStdout(), task)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", checkbox(task.Checked), task.Content)
			return nil
		},
	}
}

func boolPtr(b bool) *bool { return &b }
