package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/phrazzld/anyapi/internal/service"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered APIs",
		Example: `  anyapi list
  anyapi list --category weather --requires-auth=false
  anyapi list --search github`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := listFilter(cmd)
			if err != nil {
				return err
			}
			return withService(cmd, func(ctx context.Context, svc service.ProxyService) (any, error) {
				return svc.ListAPIs(ctx, filter)
			})
		},
	}

	cmd.Flags().String("category", "", "Only APIs whose description mentions this text")
	cmd.Flags().String("search", "", "Only APIs whose id, name or description mentions this text")
	cmd.Flags().Bool("requires-auth", false, "Only APIs with this authentication requirement")
	return cmd
}

func listFilter(cmd *cobra.Command) (service.ListFilter, error) {
	var filter service.ListFilter
	flags := cmd.Flags()

	category, err := flags.GetString("category")
	if err != nil {
		return filter, err
	}
	filter.Category = category

	search, err := flags.GetString("search")
	if err != nil {
		return filter, err
	}
	filter.Search = search

	if flags.Changed("requires-auth") {
		requiresAuth, err := flags.GetBool("requires-auth")
		if err != nil {
			return filter, err
		}
		filter.RequiresAuth = &requiresAuth
	}
	return filter, nil
}
