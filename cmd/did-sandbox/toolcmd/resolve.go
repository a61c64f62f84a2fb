package toolcmd

import (
	"github.com/spf13/cobra"

	"github.com/pilacorp/go-did-sandbox/cmd/did-sandbox/common"
	"github.com/pilacorp/go-did-sandbox/did"
	"github.com/pilacorp/go-did-sandbox/resolver"
)

const (
	remoteFlagName  = "remote"
	remoteFlagUsage = "Base URL of a running sandbox server to resolve through, e.g. http://localhost:8080." +
		" Resolves locally when not set."
)

func GetResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <did>",
		Short: "Resolve a did:key, did:web or did:ethr identifier to its document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remote, err := cmd.Flags().GetString(remoteFlagName)
			if err != nil {
				return err
			}

			var doc *did.Document
			if remote != "" {
				doc, err = resolver.NewHTTPResolver(remote).Resolve(cmd.Context(), args[0])
			} else {
				doc, err = resolveLocal(cmd, args[0])
			}
			if err != nil {
				return err
			}

			return printJSON(cmd, doc)
		},
	}

	cmd.Flags().String(remoteFlagName, "", remoteFlagUsage)
	common.AddConfigFlags(cmd)

	return cmd
}

func resolveLocal(cmd *cobra.Command, d string) (*did.Document, error) {
	sim, err := newSimulator(cmd)
	if err != nil {
		return nil, err
	}
	return sim.ResolveDID(cmd.Context(), d)
}
