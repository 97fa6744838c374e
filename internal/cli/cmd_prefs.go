package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/trygginn/trygginn/internal/cli/formatter"
	"github.com/trygginn/trygginn/internal/prefs"
)

func newPrefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Vis eller endre tema og språk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printPrefs(cmd.OutOrStdout(), app.Prefs)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Vis tema og språk",
		Args:  cobra.NoArgs,
		RunE:  cmd.RunE,
	}

	theme := &cobra.Command{
		Use:       "theme <light|dark|toggle>",
		Short:     "Velg lyst eller mørkt tema",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if args[0] == "toggle" {
				if _, err := app.Prefs.ToggleTheme(ctx); err != nil {
					return err
				}
			} else {
				t, err := prefs.ParseTheme(args[0])
				if err != nil {
					return err
				}
				if err := app.Prefs.SetTheme(ctx, t); err != nil {
					return err
				}
			}
			formatter.ApplyTheme(app.Prefs.Theme())
			printPrefs(cmd.OutOrStdout(), app.Prefs)
			return nil
		},
	}

	lang := &cobra.Command{
		Use:       "lang <nb|en>",
		Short:     "Velg språk for datoer",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"nb", "en"},
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := prefs.ParseLanguage(args[0])
			if err != nil {
				return err
			}
			if err := app.Prefs.SetLanguage(cmd.Context(), l); err != nil {
				return err
			}
			printPrefs(cmd.OutOrStdout(), app.Prefs)
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset",
		Short: "Gå tilbake til standardvalgene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Prefs.Reset(cmd.Context(), app.SystemDark); err != nil {
				return err
			}
			formatter.ApplyTheme(app.Prefs.Theme())
			printPrefs(cmd.OutOrStdout(), app.Prefs)
			return nil
		},
	}

	cmd.AddCommand(show, theme, lang, reset)
	return cmd
}

func printPrefs(w io.Writer, s *prefs.Store) {
	fmt.Fprintf(w, "%s %s\n%s %s\n",
		formatter.Dim("tema: "), s.Theme(),
		formatter.Dim("språk:"), s.Language())
}
