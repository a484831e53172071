package cmd

import (
	"encoding/json"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"github.com/YoshihikoAbe/jsdeob/batch"
	"github.com/YoshihikoAbe/jsdeob/deobfuscate"
)

// deobCmd represents the deob command
var deobCmd = &cobra.Command{
	Use:   "deob FILES...",
	Short: "Deobfuscate scripts and print their dynamic rules",
	Args:  cobra.MinimumNArgs(1),

	Run: runDeob,
}

func init() {
	rootCmd.AddCommand(deobCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// deobCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// deobCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
	deobCmd.Flags().IntP("workers", "w", 0, "Number of workers. Specify a value less than one, and the number of logical CPUs available to the process will be used")
	deobCmd.Flags().Bool("diff", false, "Also write a unified diff of every rewrite")
	deobCmd.Flags().Bool("check", false, "Parse every output and report syntax errors")
	deobCmd.Flags().Bool("no-rules", false, "Do not print the dynamic rules")
}

func runDeob(cmd *cobra.Command, args []string) {
	workers, _ := cmd.Flags().GetInt("workers")
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	writeDiff, _ := cmd.Flags().GetBool("diff")
	check, _ := cmd.Flags().GetBool("check")
	noRules, _ := cmd.Flags().GetBool("no-rules")

	opt, err := loadProfile(cmd).Options()
	if err != nil {
		fatal(err)
	}
	paths, err := batch.Collect(args)
	if err != nil {
		fatal(err)
	}

	start := time.Now()
	ch := batch.Read(paths)

	// rules are printed as whole blocks
	var stdout sync.Mutex

	wg := sync.WaitGroup{}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			for {
				file, ok := <-ch
				if !ok {
					wg.Done()
					return
				}

				ctx := log.WithField("file", file.Path)
				if !noRules {
					b, err := rulesBlock(ctx, file.Source)
					if err != nil {
						fatal(err)
					}
					stdout.Lock()
					os.Stdout.Write(b)
					stdout.Unlock()
				}

				res := deobfuscate.Source(file.Source, opt)
				logDiagnostics(ctx, res.Diags)
				ctx.WithField("summary", res.Value.String()).Info("deobfuscated")

				out := batch.OutputName(file.Path)
				if err := os.WriteFile(out, []byte(res.Value.Source), 0666); err != nil {
					fatal(err)
				}
				ctx.WithField("output", out).Info("wrote output")

				if writeDiff {
					d, err := batch.Diff(file.Path, out, file.Source, res.Value.Source, batch.DefaultContext)
					if err != nil {
						fatal(err)
					}
					if err := os.WriteFile(out+".diff", []byte(d), 0666); err != nil {
						fatal(err)
					}
				}
				if check {
					if err := batch.Syntax(out, res.Value.Source); err != nil {
						ctx.WithError(err).Warn("output does not parse")
					}
				}
			}
		}()
	}
	wg.Wait()
	log.WithField("files", len(paths)).Infof("time elapsed: %s", time.Since(start))
}

// rulesBlock renders the rules of src between two banner lines.
func rulesBlock(ctx log.Interface, src string) ([]byte, error) {
	res := deobfuscate.Rules(src)
	logDiagnostics(ctx, res.Diags)

	b, err := json.MarshalIndent(res.Value, "", "  ")
	if err != nil {
		return nil, err
	}
	out := []byte("\n--- Dynamic Rules ---\n")
	out = append(out, b...)
	out = append(out, "\n---------------------\n\n"...)
	return out, nil
}

func logDiagnostics(ctx log.Interface, diags []deobfuscate.Diagnostic) {
	for _, d := range diags {
		entry := ctx.WithField("stage", d.Stage).WithField("kind", d.Kind)
		if d.Offset >= 0 {
			entry = entry.WithField("offset", d.Offset)
		}
		switch d.Kind {
		case deobfuscate.KindAbsent, deobfuscate.KindIncomplete:
			entry.Warn(d.Msg)
		default:
			entry.Debug(d.Msg)
		}
	}
}
