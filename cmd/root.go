// Package cmd is for command line interactions with the autoprimer application
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jjtimmons/autoprimer/config"
	"github.com/jjtimmons/autoprimer/internal/fasta"
	"github.com/jjtimmons/autoprimer/internal/primer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "autoprimer <fasta> <chromosome> <position>",
		Short: "Design a PCR primer pair around a position in a reference genome",
		Long: `Design a PCR primer pair around a position in a reference genome

autoprimer takes up to 500bp either side of a position (1-based) on a
sequence in a FASTA file and asks primer3 for a single primer pair with a
600-800bp product. Primers are kept at least 100bp from the position.

The left and right primers are printed, lower-case, one per line.
primer3_core must be on the PATH, or set with --primer3.
Flags go before the arguments.`,
		Example:                    "  autoprimer hg38.fa chr7 55191822",
		Args:                       cobra.ExactArgs(3),
		Version:                    "0.1.0",
		SilenceUsage:               true,
		SilenceErrors:              true,
		SuggestionsMinimumDistance: 2,
		RunE: func(cmd *cobra.Command, args []string) error {
			return designExec(cmd, args, v)
		},
	}

	// stop parsing flags at the first argument so negative positions, eg: -1, are arguments
	cmd.Flags().SetInterspersed(false)

	cmd.Flags().String("primer3", config.DefaultPrimer3Path, "path to the primer3_core executable")
	cmd.Flags().Bool("keep-input", false, "keep the primer3 input file and log its path")
	cmd.Flags().BoolP("verbose", "v", false, "log the window and a primer summary to stderr")
	cmd.Flags().StringP("settings", "s", "", "YAML settings file (keys: primer3, keep-input, verbose, temp-dir)")

	// Bind the parameters to viper
	for _, name := range []string{"primer3", "keep-input", "verbose", "settings"} {
		v.BindPFlag(name, cmd.Flags().Lookup(name))
	}

	return cmd
}

// designExec reads the reference, designs primers around the position and
// prints them. Nothing is printed to stdout unless both primers are found.
func designExec(cmd *cobra.Command, args []string, v *viper.Viper) error {
	conf, err := config.New(v, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	log := conf.Logger()

	refPath, name := args[0], args[1]
	position, err := strconv.Atoi(strings.TrimSpace(args[2]))
	if err != nil {
		return fmt.Errorf("position must be an integer, got %q", args[2])
	}

	ref, err := fasta.Load(refPath, name)
	if err != nil {
		return err
	}
	log.Debug().Str("path", refPath).Int("sequences", ref.Len()).Int("kept", ref.Kept()).Msg("loaded reference")

	amplicon, err := primer.Design(ref, name, position, conf)
	if err != nil {
		return err
	}

	if conf.Verbose {
		primer.WriteSummary(cmd.ErrOrStderr(), amplicon)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, strings.ToLower(amplicon.Pair.Left.Seq))
	fmt.Fprintln(out, strings.ToLower(amplicon.Pair.Right.Seq))

	return nil
}

// Execute runs the root command. This is called by main.main().
// Errors are logged to stderr and exit with status 1.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		l := config.NewLogger(os.Stderr, false)
		l.Error().Msg(err.Error())
		os.Exit(1)
	}
}
