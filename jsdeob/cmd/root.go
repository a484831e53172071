package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/apex/log/handlers/cli"
	"github.com/spf13/cobra"

	"github.com/YoshihikoAbe/jsdeob/profile"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jsdeob",
	Short: "Deobfuscate scripts protected by a string pool obfuscator",

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetHandler(cli.New(os.Stderr))
		level, _ := cmd.Flags().GetString("log-level")
		l, err := log.ParseLevel(level)
		if err != nil {
			fatal(err)
		}
		log.SetLevel(l)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Here you will define your flags and configuration settings.
	// Cobra supports persistent flags, which, if defined here,
	// will be global for your application.
	rootCmd.PersistentFlags().StringP("profile", "p", "", "Profile file (YAML or JSON) overriding the default bias, accessor, rotation and alphabet")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
}

func fatal(err error) {
	log.WithError(err).Error("fatal")
	os.Exit(1)
}

func loadProfile(cmd *cobra.Command) *profile.Profile {
	name, _ := cmd.Flags().GetString("profile")
	if name == "" {
		return profile.Default()
	}
	p, err := profile.Load(name)
	if err != nil {
		fatal(err)
	}
	log.WithField("profile", p.Name).Debug("loaded profile")
	return p
}
