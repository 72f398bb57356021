package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/phrazzld/anyapi/internal/service/auth"
)

// TokenResult is the output of the token command.
type TokenResult struct {
	Token            string `json:"token"`
	TokenType        string `json:"tokenType"`
	ExpiresInMinutes int    `json:"expiresInMinutes"`
}

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "token <client-id>",
		Short:   "Mint a bearer token for a client",
		Example: "  anyapi token reporting-job",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd)
			if err != nil {
				return err
			}

			jwtService, err := auth.NewJWTService(rt.cfg.Auth)
			if errors.Is(err, auth.ErrAuthNotConfigured) {
				return newUsageError("token: auth.jwt_secret must be configured to mint tokens")
			}
			if err != nil {
				return err
			}

			token, err := jwtService.GenerateToken(cmd.Context(), args[0])
			if err != nil {
				return report(cmd, nil, err)
			}
			return report(cmd, TokenResult{
				Token:            token,
				TokenType:        "Bearer",
				ExpiresInMinutes: rt.cfg.Auth.TokenLifetimeMinutes,
			}, nil)
		},
	}
}
