package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/phrazzld/anyapi/internal/service"
)

func newDocCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "doc <api-id>",
		Short:   "Show the documentation of one API",
		Example: "  anyapi doc jsonplaceholder",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiID := args[0]
			return withService(cmd, func(ctx context.Context, svc service.ProxyService) (any, error) {
				return svc.GetAPIDocumentation(ctx, apiID)
			})
		},
	}
}
