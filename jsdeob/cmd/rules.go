package cmd

import (
	"encoding/json"
	"os"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/YoshihikoAbe/jsdeob/deobfuscate"
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules FILE",
	Short: "Print the dynamic rules of a script as JSON",
	Args:  cobra.MinimumNArgs(1),

	Run: runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// rulesCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// rulesCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}

func runRules(cmd *cobra.Command, args []string) {
	filename := args[0]

	data, err := os.ReadFile(filename)
	if err != nil {
		fatal(err)
	}
	res := deobfuscate.Rules(string(data))
	logDiagnostics(log.WithField("file", filename), res.Diags)

	b, err := json.MarshalIndent(res.Value, "", "  ")
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(append(b, '\n'))
}
