package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/phrazzld/anyapi/internal/domain"
	"github.com/phrazzld/anyapi/internal/service"
)

func newCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <api-id> <endpoint>",
		Short: "Call an endpoint of a registered API",
		Long: "Call an endpoint, named or given by path, of a registered API. Repeat --path, " +
			"--query and --header for several values; query parameters keep their order.",
		Example: `  anyapi call jsonplaceholder get_post --path id=1
  anyapi call openweather current_weather --query q=London --token "$OPENWEATHER_KEY"
  anyapi call jsonplaceholder create_post --body '{"title":"t","body":"b","userId":1}'`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent, err := callIntent(cmd.Flags(), args[0], args[1])
			if err != nil {
				return err
			}
			return withService(cmd, func(ctx context.Context, svc service.ProxyService) (any, error) {
				return svc.MakeAPICall(ctx, intent)
			})
		},
	}

	flags := cmd.Flags()
	flags.String("method", "", "Override the endpoint's HTTP method")
	flags.String("token", "", "Access token for APIs that require authentication")
	flags.StringArray("path", nil, "Path parameter as key=value")
	flags.StringArray("query", nil, "Query parameter as key=value")
	flags.StringArray("header", nil, "Extra request header as name=value")
	flags.String("body", "", "JSON request body")
	return cmd
}

// callIntent assembles the intent from the positional arguments and flags.
func callIntent(flags *pflag.FlagSet, apiID, endpoint string) (*domain.CallIntent, error) {
	method, err := flags.GetString("method")
	if err != nil {
		return nil, err
	}
	token, err := flags.GetString("token")
	if err != nil {
		return nil, err
	}

	intent := &domain.CallIntent{
		APIID:       apiID,
		Endpoint:    endpoint,
		Method:      domain.HTTPMethod(strings.ToUpper(strings.TrimSpace(method))),
		AccessToken: token,
	}

	if intent.PathParams, err = pairMap(flags, "path"); err != nil {
		return nil, err
	}
	if intent.Headers, err = pairMap(flags, "header"); err != nil {
		return nil, err
	}

	queries, err := flags.GetStringArray("query")
	if err != nil {
		return nil, err
	}
	for _, raw := range queries {
		key, value, err := splitPair("query", raw)
		if err != nil {
			return nil, err
		}
		intent.QueryParams.Set(key, value)
	}

	body, err := flags.GetString("body")
	if err != nil {
		return nil, err
	}
	if body != "" {
		if !json.Valid([]byte(body)) {
			return nil, newUsageError("call: --body must be valid JSON")
		}
		intent.Body = json.RawMessage(body)
	}

	return intent, nil
}

// pairMap collects a repeated key=value flag. It returns nil when the flag
// was not given.
func pairMap(flags *pflag.FlagSet, name string) (map[string]string, error) {
	values, err := flags.GetStringArray(name)
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(values))
	for _, raw := range values {
		key, value, err := splitPair(name, raw)
		if err != nil {
			return nil, err
		}
		out[key] = value
	}
	return out, nil
}

func splitPair(flag, raw string) (string, string, error) {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", newUsageError(fmt.Sprintf("call: --%s expects key=value, got %q", flag, raw))
	}
	return key, value, nil
}
