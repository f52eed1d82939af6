// Package cmd provides the CLI commands for the order bot.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orderbot",
		Short: "WhatsApp order bot for Ali Doner Aktau",
		Long: `orderbot takes fast-food orders over WhatsApp.

It receives webhook messages from Twilio or UltraMsg, keeps a cart per
customer, collects the delivery address and phone, and hands the order
to the operator with a Kaspi payment link or cash on delivery.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMenuCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
