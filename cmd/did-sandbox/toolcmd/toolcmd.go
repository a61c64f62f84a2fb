// Package toolcmd holds the one-shot sandbox commands that print JSON.
package toolcmd

import (
	"encoding/json"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/pilacorp/go-did-sandbox/cmd/did-sandbox/common"
	"github.com/pilacorp/go-did-sandbox/internal/log"
	"github.com/pilacorp/go-did-sandbox/simulator"
)

var logger = log.New("did-sandbox-tool")

// GetCommands returns every tool command.
func GetCommands() []*cobra.Command {
	return []*cobra.Command{
		GetGenerateCmd(),
		GetResolveCmd(),
		GetIssueCmd(),
		GetVerifyCmd(),
		GetDemoCmd(),
	}
}

func newSimulator(cmd *cobra.Command) (*simulator.Simulator, error) {
	cfg, err := common.LoadConfig(cmd)
	if err != nil {
		return nil, err
	}

	common.SetDefaultLogLevel(logger, cfg.LogLevel)

	return common.NewSimulator(cfg, prometheus.NewRegistry())
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
