package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// profileCmd represents the profile command
var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the active profile as YAML",
	Args:  cobra.NoArgs,

	Run: runProfile,
}

func init() {
	rootCmd.AddCommand(profileCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// profileCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// profileCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}

func runProfile(cmd *cobra.Command, args []string) {
	if err := loadProfile(cmd).Write(os.Stdout); err != nil {
		fatal(err)
	}
}
