package toolcmd

import (
	"github.com/spf13/cobra"

	"github.com/pilacorp/go-did-sandbox/cmd/did-sandbox/common"
	"github.com/pilacorp/go-did-sandbox/did"
)

const (
	methodFlagName  = "method"
	methodFlagUsage = "DID method to generate. Possible values [key] [web] [ethr]."
	domainFlagName  = "domain"
	domainFlagUsage = "Domain the did:web identifier is built from. Required for --method web."
)

func GetGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a DID with its document and key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			methodName, err := cmd.Flags().GetString(methodFlagName)
			if err != nil {
				return err
			}
			domain, err := cmd.Flags().GetString(domainFlagName)
			if err != nil {
				return err
			}

			method, err := did.ParseMethod(methodName)
			if err != nil {
				return err
			}

			sim, err := newSimulator(cmd)
			if err != nil {
				return err
			}

			result, err := sim.GenerateDID(cmd.Context(), method, domain)
			if err != nil {
				return err
			}

			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringP(methodFlagName, "m", string(did.MethodKey), methodFlagUsage)
	cmd.Flags().StringP(domainFlagName, "d", "", domainFlagUsage)
	common.AddConfigFlags(cmd)

	return cmd
}
