package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "coordctl",
		Short: "Operate an in-memory commit coordinator",
		Long:  "coordctl serves a commit coordinator over HTTP and drives one as a client for testing and operations.",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML config file")
	root.PersistentFlags().String("endpoint", "http://127.0.0.1:8080", "base URL of a running coordinator")
	_ = viper.BindPFlag("endpoint", root.PersistentFlags().Lookup("endpoint"))

	root.AddCommand(newServeCmd())
	root.AddCommand(newCommitCmd())
	root.AddCommand(newGetCommitsCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newFaultCmd())

	return root
}
