package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/YoshihikoAbe/jsdeob/batch"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check FILES...",
	Short: "Check that scripts parse",
	Args:  cobra.MinimumNArgs(1),
	Run:   runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// checkCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// checkCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}

func runCheck(cmd *cobra.Command, args []string) {
	// missing files are part of the result
	var paths []string
	for _, name := range args {
		if info, err := os.Stat(name); err != nil || !info.IsDir() {
			paths = append(paths, name)
			continue
		}
		found, err := batch.Collect([]string{name})
		if err != nil {
			fatal(err)
		}
		paths = append(paths, found...)
	}

	result := batch.Check(paths)
	b, err := json.MarshalIndent(result, "", " ")
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(b)
}
