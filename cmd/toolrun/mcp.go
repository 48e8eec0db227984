package main

import (
	"github.com/spf13/cobra"

	"github.com/spetersoncode/toolrun/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the file tools over MCP stdio",
	Long: `mcp exposes read_file, list_dir and search_files rooted at --folder, plus
the tools of every --mcp-server, to an MCP client over stdin/stdout.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := newToolRuntime()
		defer rt.close()

		reg, err := rt.registry(cmd.Context(), mcpFolder)
		if err != nil {
			return err
		}
		return mcp.ServeStdio(reg, mcp.WithName("toolrun"), mcp.WithVersion(version))
	},
}

var mcpFolder string

func init() {
	mcpCmd.Flags().StringVarP(&mcpFolder, "folder", "f", ".", "folder the file tools are rooted at")
	rootCmd.AddCommand(mcpCmd)
}
