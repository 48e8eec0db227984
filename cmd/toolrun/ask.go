package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/toolrun/agent"
)

var (
	folder        string
	maxSteps      int
	errorFeedback bool
)

var askCmd = &cobra.Command{
	Use:   "ask <description>",
	Short: "Find files matching a description and answer in text",
	Long: `ask gives the model read_file, list_dir and search_files rooted at --folder
and runs until it replies with text listing the files that match.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	for _, c := range []*cobra.Command{askCmd, findCmd} {
		c.Flags().StringVarP(&folder, "folder", "f", ".", "folder the file tools are rooted at")
		c.Flags().IntVar(&maxSteps, "max-steps", 0, "maximum turns, 0 for unlimited")
		c.Flags().BoolVar(&errorFeedback, "error-feedback", false, "tell the model why a tool call was rejected")
	}
	rootCmd.AddCommand(askCmd)
}

func findFilesTask(description string) string {
	return fmt.Sprintf("Your task is to find the files that match the description %q in the folder %q. "+
		"You are provided tools to complete this task. Output a list when you find all of them.",
		description, folder)
}

func agentOptions(rt *runtime, prefix string) []agent.Option {
	return []agent.Option{
		agent.WithPrefix(prefix),
		agent.WithSettings(cfg.Settings()),
		agent.WithMaxSteps(maxSteps),
		agent.WithErrorFeedback(errorFeedback),
		agent.WithMetrics(rt.metrics),
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	a := agent.New(reg, rt.exec, findFilesTask(strings.Join(args, " ")), agentOptions(rt, "find-file")...)
	text, err := a.RunUntilText(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "LLM gives:\n%s\n", text)
	return nil
}
