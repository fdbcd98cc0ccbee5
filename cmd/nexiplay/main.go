package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "nexiplay",
	Short: "NexiPlay backend: catalog API, link checker and assistant",
	Long: `nexiplay - backend for the NexiPlay download catalog

Serves the public API, keeps download links healthy with bounded sweeps
and answers visitors through the scripted assistant on the web and Telegram.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("nexiplay {{.Version}}\n")
}
