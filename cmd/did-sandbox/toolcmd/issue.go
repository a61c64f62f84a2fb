package toolcmd

import (
	"github.com/spf13/cobra"

	"github.com/pilacorp/go-did-sandbox/cmd/did-sandbox/common"
	"github.com/pilacorp/go-did-sandbox/credential"
	"github.com/pilacorp/go-did-sandbox/internal/cmdutil"
)

const (
	issuerFlagName   = "issuer"
	issuerFlagUsage  = "DID of the issuer."
	subjectFlagName  = "subject"
	subjectFlagUsage = "DID of the credential subject."
	claimFlagName    = "claim"
	claimFlagUsage   = "Claim as key=value. Repeat for more claims."
	typeFlagName     = "type"
	typeFlagUsage    = "Credential type after VerifiableCredential. Repeat for more types. Defaults to " +
		credential.TypeEmployeeCredential + "."
)

func GetIssueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a verifiable credential from an issuer DID to a subject DID",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			issuer, err := cmd.Flags().GetString(issuerFlagName)
			if err != nil {
				return err
			}
			subject, err := cmd.Flags().GetString(subjectFlagName)
			if err != nil {
				return err
			}
			pairs, err := cmd.Flags().GetStringArray(claimFlagName)
			if err != nil {
				return err
			}
			types, err := cmd.Flags().GetStringArray(typeFlagName)
			if err != nil {
				return err
			}

			claims, err := cmdutil.ParseKeyValues(pairs)
			if err != nil {
				return err
			}

			var opts []credential.IssueOpt
			if len(types) > 0 {
				opts = append(opts, credential.WithTypes(types...))
			}

			sim, err := newSimulator(cmd)
			if err != nil {
				return err
			}

			vc, err := sim.IssueCredential(cmd.Context(), issuer, subject, claims, opts...)
			if err != nil {
				return err
			}

			return printJSON(cmd, vc)
		},
	}

	cmd.Flags().String(issuerFlagName, "", issuerFlagUsage)
	cmd.Flags().String(subjectFlagName, "", subjectFlagUsage)
	cmd.Flags().StringArray(claimFlagName, nil, claimFlagUsage)
	cmd.Flags().StringArray(typeFlagName, nil, typeFlagUsage)
	_ = cmd.MarkFlagRequired(issuerFlagName)
	_ = cmd.MarkFlagRequired(subjectFlagName)
	common.AddConfigFlags(cmd)

	return cmd
}
