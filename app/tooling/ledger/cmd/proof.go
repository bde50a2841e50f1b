package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/ardanlabs/ledger/foundation/blockchain/ledger"
	"github.com/spf13/cobra"
)

var proofCmd = &cobra.Command{
	Use:   "proof <previous-proof>",
	Short: "Find the smallest proof that follows the previous proof.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		prev, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), ledger.FindProof(prev))
	},
}

func init() {
	rootCmd.AddCommand(proofCmd)
}
