package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool

	// logOut receives verbose diagnostics and warnings.
	logOut io.Writer = os.Stderr
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "imgbench",
		Short: "Micro-benchmark for image encoders on one raw BGRA frame",
		Long: `imgbench loads one raw BGRA pixel buffer (1920x1080 by default) and times
how long each image library takes to encode it and, for the lossless
codecs, to decode it again.

The default run measures libjpeg, a descriptor based QOI codec and the
reference Go QOI port, printing one line per measurement:

  <label> encode time: <ms>, size: <bytes>
  <label> decode time: <ms>`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logOut = cmd.ErrOrStderr()
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	root.SetVersionTemplate(fmt.Sprintf(
		"imgbench %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))

	root.AddCommand(
		newRunCmd(),
		newGenCmd(),
		newCodecsCmd(),
		newStatsCmd(),
		newValidateCmd(),
	)
	return root
}

func Execute() error {
	return rootCmd.Execute()
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(logOut, "[imgbench] "+format+"\n", args...)
	}
}

// logWarn always prints.
func logWarn(format string, args ...any) {
	fmt.Fprintf(logOut, "[imgbench] warning: "+format+"\n", args...)
}
