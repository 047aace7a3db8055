package commands

import (
	"crypto/rand"
	"fmt"

	"github.com/spf13/cobra"

	"styrby/internal/crypto"
	"styrby/internal/domain"
	"styrby/internal/util/memzero"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate the device identity and user secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}

			secret := make([]byte, domain.MinUserSecretSize)
			if _, err := rand.Read(secret); err != nil {
				return err
			}
			defer memzero.Zero(secret)
			pub, priv, err := crypto.GenerateKeyPair()
			if err != nil {
				return err
			}
			defer memzero.Zero(priv[:])

			id := domain.DeviceIdentity{UserSecret: secret, PublicKey: pub, SecretKey: priv}
			if err := wire.Identity.SaveIdentity(passphrase, id); err != nil {
				return err
			}
			fmt.Printf("Identity created.\nFingerprint: %s\n", crypto.Fingerprint(pub.Slice()))
			return nil
		},
	}
}
