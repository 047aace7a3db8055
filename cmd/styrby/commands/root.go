package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"styrby/internal/app"
)

var (
	home       string
	passphrase string
	relayURL   string

	wire *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "styrby",
		Short: "Observe and control coding-agent sessions from your phone",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".styrby")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			wire = app.NewWire(app.Config{Home: home, RelayURL: relayURL})
			return nil
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.styrby)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect keys")
	root.PersistentFlags().StringVar(&relayURL, "relay", "", "relay base URL (e.g. https://relay.styrby.dev)")

	root.AddCommand(initCmd(), pairCmd(), sendCmd(), historyCmd(), fingerprintCmd())
	return root.Execute()
}
