package toolcmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pilacorp/go-did-sandbox/cmd/did-sandbox/common"
	"github.com/pilacorp/go-did-sandbox/credential"
	"github.com/pilacorp/go-did-sandbox/dto"
)

const (
	fileFlagName  = "file"
	fileFlagUsage = "Credential JSON file to verify. Reads standard input when set to -."
)

func GetVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a verifiable credential and report schema violations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString(fileFlagName)
			if err != nil {
				return err
			}

			raw, err := readInput(cmd, path)
			if err != nil {
				return err
			}

			vc, err := credential.Parse(raw)
			if err != nil {
				return err
			}

			sim, err := newSimulator(cmd)
			if err != nil {
				return err
			}

			verified, err := sim.VerifyCredential(cmd.Context(), vc)
			if err != nil {
				return err
			}

			resp := &dto.VerifyCredentialResponse{Verified: verified}

			var schemaErr *credential.SchemaError
			if err := credential.Validate(vc); errors.As(err, &schemaErr) {
				resp.SchemaErrors = schemaErr.Details
			} else if err != nil {
				return err
			}

			return printJSON(cmd, resp)
		},
	}

	cmd.Flags().StringP(fileFlagName, "f", "-", fileFlagUsage)
	common.AddConfigFlags(cmd)

	return cmd
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return raw, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}
	return raw, nil
}
