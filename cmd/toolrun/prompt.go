package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/toolrun/agent"
)

var systemPrompt string

var promptCmd = &cobra.Command{
	Use:   "prompt <text>",
	Short: "Send a single prompt without tools",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		rt, err := newRuntime(ctx)
		if err != nil {
			return err
		}
		defer rt.close()

		reply, err := rt.exec.PromptWithRetry(ctx, systemPrompt, strings.Join(args, " "), "prompt", cfg.Settings())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}

func init() {
	promptCmd.Flags().StringVarP(&systemPrompt, "system", "s", agent.DefaultSystemPrompt, "system prompt")
	rootCmd.AddCommand(promptCmd)
}
