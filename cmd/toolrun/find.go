package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/toolrun/agent"
	"github.com/spetersoncode/toolrun/tool"
)

// ReportArgs are the arguments of the report_files target tool.
type ReportArgs struct {
	Files []string `json:"files" jsonschema:"required,description=Paths of the matching files relative to the folder"`
	Notes string   `json:"notes,omitempty" jsonschema:"description=Anything worth knowing about the matches"`
}

var reportFiles = tool.MustNew("report_files",
	"Report the files that match the description. Call this once, when the search is complete.",
	func(ctx context.Context, args ReportArgs) (string, error) {
		return "reported", nil
	})

var findCmd = &cobra.Command{
	Use:   "find <description>",
	Short: "Find files matching a description and report them as a list",
	Long: `find works like ask but ends when the model calls report_files, so the
result is a structured list of paths.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	reg, err := rt.registry(ctx, folder)
	if err != nil {
		return err
	}

	task := findFilesTask(strings.Join(args, " ")) + " Report them with the report_files tool."
	a := agent.New(reg, rt.exec, task, agentOptions(rt, "find-file")...)
	report, err := agent.RunUntilTool(ctx, a, reportFiles)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range report.Files {
		fmt.Fprintln(out, f)
	}
	if report.Notes != "" {
		fmt.Fprintf(out, "\n%s\n", report.Notes)
	}
	return nil
}
