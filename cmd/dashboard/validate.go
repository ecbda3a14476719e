package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gdpdash/internal/validator"
)

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [id...]",
		Short: "Fetch and lint source documents without loading them",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup()
			if err != nil {
				return err
			}

			ids := args
			if len(ids) == 0 {
				ids = e.cfg.Dashboard.Countries
			}

			v := validator.NewSourceValidator(e.cfg)
			out := cmd.OutOrStdout()
			invalid := 0

			for _, id := range ids {
				content, location, err := e.client.FetchDocument(cmd.Context(), id)
				if err != nil {
					fmt.Fprintf(out, "❌ INVALID %s | fetch failed: %v\n", id, err)

					invalid++

					continue
				}

				result := v.ValidateDocument(id, content)
				fmt.Fprintf(out, "%s | %s\n", result, location)
				result.PrintErrors(out)
				result.PrintWarnings(out)

				if !result.IsValid {
					invalid++
				}
			}

			if invalid > 0 {
				return fmt.Errorf("%d of %d documents failed validation", invalid, len(ids))
			}

			return nil
		},
	}
}
