package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "quadras",
		Short:        "Public booking pages and operator tools for the municipal sports courts",
		SilenceUsage: true,
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newKeysCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newPingCmd())
	root.AddCommand(newCourtsCmd())
	root.AddCommand(newSlotsCmd())
	root.AddCommand(newWindowCmd())
	root.AddCommand(newBookCmd())
	root.AddCommand(newLookupCmd())
	root.AddCommand(newCPFCmd())

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
