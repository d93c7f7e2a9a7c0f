package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/haversine/haversine"
)

func (a *app) newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the input format",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			out, err := json.MarshalIndent(haversine.Schema(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling schema: %w", err)
			}

			out = append(out, '\n')

			_, err = a.stdout.Write(out)
			if err != nil {
				return fmt.Errorf("writing schema: %w", err)
			}

			return nil
		},
	}
}
