package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/setup-doctl/internal/config"
)

func newConfigCmd(a *app, f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as a Lua config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := a.reporter(f.debug)
			loader := config.NewLoader(config.NewParser(a.detector), rep, rep)

			cfg, err := loader.Merge(cmd.Context(), f.overrides(cmd))
			if err != nil {
				return err
			}
			// The token is not part of the printed config
			if err := cfg.Validate(); err != nil && !errors.Is(err, config.ErrMissingToken) {
				return err
			}

			_, err = fmt.Fprint(cmd.OutOrStdout(), config.NewGenerator().Generate(cfg))
			return err
		},
	}
}
