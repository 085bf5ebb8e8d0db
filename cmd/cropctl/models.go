package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"cropcal/pkg/app"
)

func newModelsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List catalogued crops and their varieties",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := app.LoadModels(c.cfg, c.log)
			if err != nil {
				return err
			}
			crops := reg.Crops()
			names := make([]string, 0, len(crops))
			for k := range crops {
				names = append(names, k)
			}
			sort.Strings(names)
			out := cmd.OutOrStdout()
			for _, k := range names {
				vs := crops[k]
				if len(vs) == 0 {
					fmt.Fprintf(out, "%s\n", k)
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", k, strings.Join(vs, ", "))
			}
			return nil
		},
	}
}
