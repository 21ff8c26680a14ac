package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/4oBuko/spy-cat-agency-records/pkg/catapi"
)

func breedsCmd(opts *rootOptions) *cobra.Command {
	var check string
	cmd := &cobra.Command{
		Use:   "breeds",
		Short: "List the breeds accepted by the registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			breeds, err := newCatAPI(cfg.Registry, logger).ListBreeds(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list breeds: %w", err)
			}

			out := cmd.OutOrStdout()
			if check != "" {
				if !catapi.HasBreed(breeds, check) {
					fmt.Fprintf(out, "%s %s\n", color.New(color.FgRed).Sprint("UNKNOWN"), check)
					return fmt.Errorf("breed %q is not accepted", check)
				}
				fmt.Fprintf(out, "%s %s\n", color.New(color.FgGreen).Sprint("OK"), check)
				return nil
			}

			id := color.New(color.FgCyan)
			for _, b := range breeds {
				fmt.Fprintf(out, "%-6s %s", id.Sprint(b.Id), b.Name)
				if b.Origin != "" {
					fmt.Fprintf(out, " (%s)", b.Origin)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%d breeds\n", len(breeds))
			return nil
		},
	}
	cmd.Flags().StringVar(&check, "check", "", "report whether a single breed name is accepted")
	return cmd
}
