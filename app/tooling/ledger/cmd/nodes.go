package cmd

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <address>...",
	Short: "Register peer addresses with the node.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nodes := struct {
			Nodes []string `json:"nodes"`
		}{
			Nodes: args,
		}

		if err := call(cmd.OutOrStdout(), http.MethodPost, "nodes/register", nodes); err != nil {
			log.Fatal(err)
		}
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Ask the node to adopt the longest valid chain of its peers.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := call(cmd.OutOrStdout(), http.MethodGet, "nodes/resolve", nil); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(resolveCmd)
}
