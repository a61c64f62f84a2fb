// Package main is the DID sandbox command: an educational playground for
// decentralized identifiers and verifiable credentials.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pilacorp/go-did-sandbox/cmd/did-sandbox/startcmd"
	"github.com/pilacorp/go-did-sandbox/cmd/did-sandbox/toolcmd"
	"github.com/pilacorp/go-did-sandbox/internal/log"
)

var logger = log.New("did-sandbox")

func main() {
	rootCmd := &cobra.Command{
		Use: "did-sandbox",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	rootCmd.AddCommand(startcmd.GetStartCmd(&startcmd.HTTPServer{}))
	rootCmd.AddCommand(toolcmd.GetCommands()...)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Failed to run did-sandbox", zap.Error(err))
		os.Exit(1)
	}
}
