// File: internal/cli/lang.go (complete file)

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/baptistax/ip-insight/internal/i18n"
)

func (a *app) langCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "lang [en|fa]",
		Short:     "Show the display language, or save a new one",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: languageNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				fmt.Fprintln(out, a.lang)
				return nil
			}

			l, err := i18n.Parse(args[0])
			if err != nil {
				return err
			}
			pref, err := a.preference()
			if err != nil {
				return failure(err)
			}
			if err := pref.Save(l); err != nil {
				return failure(err)
			}
			a.lang = l
			fmt.Fprintf(out, "language set to %s (%s)\n", l, pref.Path)
			return nil
		},
	}
}

func languageNames() []string {
	var names []string
	for _, l := range i18n.Languages() {
		names = append(names, l.String())
	}
	return names
}
