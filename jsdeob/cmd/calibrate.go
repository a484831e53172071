package cmd

import (
	"encoding/json"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/YoshihikoAbe/jsdeob/deobfuscate"
)

// calibrateCmd represents the calibrate command
var calibrateCmd = &cobra.Command{
	Use:   "calibrate FILE",
	Short: "Find the index bias that decodes the most strings",
	Args:  cobra.MinimumNArgs(1),

	Run: runCalibrate,
}

func init() {
	rootCmd.AddCommand(calibrateCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// calibrateCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// calibrateCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
	calibrateCmd.Flags().Int("min", 0, "Lowest bias to try")
	calibrateCmd.Flags().Int("max", 1000, "Highest bias to try")
}

func runCalibrate(cmd *cobra.Command, args []string) {
	filename := args[0]
	lo, _ := cmd.Flags().GetInt("min")
	hi, _ := cmd.Flags().GetInt("max")

	opt, err := loadProfile(cmd).Options()
	if err != nil {
		fatal(err)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		fatal(err)
	}

	start := time.Now()
	c, err := deobfuscate.Calibrate(string(data), opt, lo, hi)
	if err != nil {
		fatal(err)
	}
	log.WithField("file", filename).Infof("time elapsed: %s", time.Since(start))

	b, err := json.MarshalIndent(c, "", " ")
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(append(b, '\n'))
}
