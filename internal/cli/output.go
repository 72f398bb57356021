package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/phrazzld/anyapi/internal/api"
	"github.com/phrazzld/anyapi/internal/api/shared"
)

func writeEnvelope(w io.Writer, env shared.Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// report prints data, or the message for err, as an envelope on stdout.
// A reported err comes back wrapped in ErrReported.
func report(cmd *cobra.Command, data any, err error) error {
	out := cmd.OutOrStdout()
	if err != nil {
		if werr := writeEnvelope(out, shared.Envelope{Success: false, Error: api.ErrorMessage(err)}); werr != nil {
			return werr
		}
		return fmt.Errorf("%w: %w", ErrReported, err)
	}
	return writeEnvelope(out, shared.Envelope{Success: true, Data: data})
}
