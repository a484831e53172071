package cmd

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/YoshihikoAbe/jsdeob/chain"
	"github.com/YoshihikoAbe/jsdeob/opmap"
	"github.com/YoshihikoAbe/jsdeob/pool"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Print the string pool, wrapper chain and operator map of a script",
	Args:  cobra.MinimumNArgs(1),

	Run: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// inspectCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// inspectCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}

type inspection struct {
	Pool     string        `json:"pool,omitempty"`
	Tokens   []string      `json:"tokens,omitempty"`
	Rotation *int          `json:"rotation,omitempty"`
	Bias     *int          `json:"bias,omitempty"`
	Wrappers []chain.Entry `json:"wrappers"`
	Map      *opmap.Map    `json:"map,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) {
	filename := args[0]

	opt, err := loadProfile(cmd).Options()
	if err != nil {
		fatal(err)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		fatal(err)
	}
	src := string(data)

	result := inspection{Wrappers: chain.Extract(src).Entries()}
	if result.Wrappers == nil {
		result.Wrappers = []chain.Entry{}
	}
	if p, err := pool.Extract(src); err == nil {
		result.Pool, result.Tokens = p.Name, p.Tokens
		if n, ok := pool.FindRotation(src, p.Name); ok {
			result.Rotation = &n
		}
	}
	if n, ok := chain.DetectBias(src, opt.Accessor); ok {
		result.Bias = &n
	}
	if m, err := opmap.Extract(src); err == nil {
		result.Map = m
	}

	b, err := json.MarshalIndent(result, "", " ")
	if err != nil {
		fatal(err)
	}
	os.Stdout.Write(append(b, '\n'))
}
