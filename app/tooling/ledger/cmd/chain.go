package cmd

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the chain held by the node.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := call(cmd.OutOrStdout(), http.MethodGet, "chain", nil); err != nil {
			log.Fatal(err)
		}
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Print the transactions waiting to be mined.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := call(cmd.OutOrStdout(), http.MethodGet, "transactions/pending", nil); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(pendingCmd)
}
