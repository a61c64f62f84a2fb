package toolcmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pilacorp/go-did-sandbox/cmd/did-sandbox/common"
	"github.com/pilacorp/go-did-sandbox/credential"
	"github.com/pilacorp/go-did-sandbox/did"
	"github.com/pilacorp/go-did-sandbox/internal/cmdutil"
	"github.com/pilacorp/go-did-sandbox/sandbox"
)

const defaultDemoDomain = "example.com"

type demoResult struct {
	Organization *did.Result            `json:"organization"`
	Holder       *did.Result            `json:"holder"`
	Credential   *credential.Credential `json:"credential"`
	Verified     bool                   `json:"verified"`
}

func GetDemoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the issuer, holder and verifier walkthrough end to end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			domain, err := cmd.Flags().GetString(domainFlagName)
			if err != nil {
				return err
			}
			pairs, err := cmd.Flags().GetStringArray(claimFlagName)
			if err != nil {
				return err
			}

			claims := sandbox.DefaultClaims
			if len(pairs) > 0 {
				if claims, err = cmdutil.ParseKeyValues(pairs); err != nil {
					return err
				}
			}

			sim, err := newSimulator(cmd)
			if err != nil {
				return err
			}

			res := &demoResult{}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				res.Organization, err = sim.GenerateDID(ctx, did.MethodWeb, domain)
				return err
			})
			g.Go(func() error {
				var err error
				res.Holder, err = sim.GenerateDID(ctx, did.MethodKey, "")
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			res.Credential, err = sim.IssueCredential(cmd.Context(), res.Organization.DID, res.Holder.DID, claims)
			if err != nil {
				return err
			}

			res.Verified, err = sim.VerifyCredential(cmd.Context(), res.Credential)
			if err != nil {
				return err
			}

			return printJSON(cmd, res)
		},
	}

	cmd.Flags().StringP(domainFlagName, "d", defaultDemoDomain, "Domain of the issuing organization.")
	cmd.Flags().StringArray(claimFlagName, nil, claimFlagUsage+" Defaults to name=Alice role=Engineer.")
	common.AddConfigFlags(cmd)

	return cmd
}
