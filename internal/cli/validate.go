package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roach88/toolbench/internal/runlog"
	"github.com/roach88/toolbench/internal/task"
)

// NewValidateCommand creates the validate command. Two modes:
//
//	validate --task-file <path>       run one task script
//	validate --env <name> --all-tasks run every script under the environment
//
// Exit code 0 iff every action of every task passed.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		taskFile string
		envName  string
		allTasks bool
		logDB    string
	)

	cmd := &cobra.Command{
		Use:           "validate",
		Short:         "Run task scripts and score their tool-call traces",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			files, err := collectTaskFiles(rootOpts.Root, taskFile, envName, allTasks)
			if err != nil {
				_ = formatter.Error(err.Error(), nil)
				return WrapExitError(ExitCommandError, "collect task files", err)
			}

			var log *runlog.Log
			if logDB != "" {
				log, err = runlog.Open(logDB)
				if err != nil {
					_ = formatter.Error(err.Error(), nil)
					return WrapExitError(ExitCommandError, "open run log", err)
				}
				defer log.Close()
			}

			runner := &task.Runner{Root: rootOpts.Root, Logger: newLogger(rootOpts)}

			var results []*task.Result
			failedTasks := 0
			for _, file := range files {
				formatter.VerboseLog("Running %s", file)
				res, runErr := runner.RunFile(file)
				results = append(results, res)
				if runErr != nil || res.Failed > 0 {
					failedTasks++
				}
				if log != nil {
					if err := log.Record(context.Background(), res); err != nil {
						_ = formatter.Error(err.Error(), nil)
						return WrapExitError(ExitCommandError, "record run", err)
					}
				}
			}

			return outputResults(formatter, results, failedTasks)
		},
	}

	cmd.Flags().StringVar(&taskFile, "task-file", "", "path to a single task script")
	cmd.Flags().StringVar(&envName, "env", "", "environment name (with --all-tasks)")
	cmd.Flags().BoolVar(&allTasks, "all-tasks", false, "run every task script of the environment")
	cmd.Flags().StringVar(&logDB, "log-db", "", "SQLite database to record runs in (optional)")
	return cmd
}

func collectTaskFiles(root, taskFile, envName string, allTasks bool) ([]string, error) {
	switch {
	case taskFile != "" && envName != "":
		return nil, fmt.Errorf("--task-file and --env are mutually exclusive")
	case taskFile != "":
		return []string{taskFile}, nil
	case envName != "":
		if !allTasks {
			return nil, fmt.Errorf("--env requires --all-tasks")
		}
		pattern := filepath.Join(root, "envs", envName, "tasks", "*.json")
		files, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no task scripts found under %s", pattern)
		}
		sort.Strings(files)
		return files, nil
	default:
		return nil, fmt.Errorf("either --task-file or --env --all-tasks is required")
	}
}

func outputResults(formatter *OutputFormatter, results []*task.Result, failedTasks int) error {
	totalActions, passedActions := 0, 0
	for _, res := range results {
		totalActions += res.Total
		passedActions += res.Passed
	}

	if formatter.Format == "json" {
		payload := map[string]any{
			"tasks":          results,
			"total_actions":  totalActions,
			"passed_actions": passedActions,
			"failed_tasks":   failedTasks,
		}
		if err := formatter.Success(payload); err != nil {
			return err
		}
		if failedTasks > 0 {
			return NewExitError(ExitFailure, fmt.Sprintf("%d task(s) failed", failedTasks))
		}
		return nil
	}

	for _, res := range results {
		if res.Err != "" {
			fmt.Fprintf(formatter.Writer, "✗ %s: %s\n", res.TaskFile, res.Err)
			continue
		}
		mark := "✓"
		if res.Failed > 0 {
			mark = "✗"
		}
		fmt.Fprintf(formatter.Writer, "%s %s [%s] %d/%d actions passed\n",
			mark, res.TaskFile, res.Environment, res.Passed, res.Total)
		for _, ar := range res.Actions {
			if ar.Success {
				continue
			}
			fmt.Fprintf(formatter.Writer, "  ✗ %s: %s\n", ar.Name, ar.Error)
		}
	}
	fmt.Fprintf(formatter.Writer, "%d/%d actions passed across %d task(s)\n",
		passedActions, totalActions, len(results))

	if failedTasks > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d task(s) failed", failedTasks))
	}
	return nil
}
