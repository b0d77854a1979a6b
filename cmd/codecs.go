package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/imgbench/internal/codec"
	"github.com/AnyUserName/imgbench/internal/profile"
)

func newCodecsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "codecs",
		Short: "List the codecs this build can benchmark",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printCodecs(cmd, codec.NewRegistry())
			return nil
		},
	}
}

func printCodecs(cmd *cobra.Command, registry *codec.Registry) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-10s %-16s %-9s %-11s %s\n", "CODEC", "LABEL", "KIND", "STATUS", "LIBRARY")
	for _, c := range registry.Codecs() {
		kind := "lossy"
		if c.Lossless() {
			kind = "lossless"
		}
		status := "available"
		if !c.Available() {
			status = "missing"
		}
		fmt.Fprintf(out, "  %-10s %-16s %-9s %-11s %s\n", c.Name(), c.Label(), kind, status, codec.Library(c))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "  Profiles:")
	for _, name := range profile.Names() {
		p := profile.Get(name)
		fmt.Fprintf(out, "    %-9s %v (iterations=%d, warmup=%d)\n",
			name, p.ExpandCodecs(registry.Names()), p.Iterations, p.Warmup)
	}
	fmt.Fprintln(out)
}
