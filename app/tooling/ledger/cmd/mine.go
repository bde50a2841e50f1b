package cmd

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine a block from its pending transactions.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := call(cmd.OutOrStdout(), http.MethodGet, "mine", nil); err != nil {
			log.Fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
}
