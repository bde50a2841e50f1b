package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ardanlabs/ledger/foundation/digest"
	"github.com/spf13/cobra"
)

var digestCmd = &cobra.Command{
	Use:   "digest [file]",
	Short: "Print the SHA-256 digest of a file or standard input.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				log.Fatal(err)
			}
			defer f.Close()
			r = f
		}

		hash, err := digest.Sum(r)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), hash)
	},
}

func init() {
	rootCmd.AddCommand(digestCmd)
}
