package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"styrby/internal/domain"
	"styrby/internal/pairing"
)

func pairCmd() *cobra.Command {
	var (
		userID     string
		machineID  string
		deviceName string
		agent      string
		pngPath    string
	)

	cmd := &cobra.Command{
		Use:   "pair",
		Short: "Mint a pairing token and display the QR deep link",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" || machineID == "" {
				return fmt.Errorf("--user and --machine are required")
			}
			if relayURL == "" {
				return fmt.Errorf("--relay is required for pairing")
			}
			if deviceName == "" {
				if host, err := os.Hostname(); err == nil {
					deviceName = host
				} else {
					deviceName = "styrby-cli"
				}
			}

			token, err := pairing.GenerateToken()
			if err != nil {
				return err
			}
			payload := pairing.NewPayload(token, userID, machineID, deviceName, relayURL, domain.AgentKind(agent))

			// Register the pairing window with the relay; only the hash
			// leaves this process.
			ps, err := wire.Relay.BeginPairing(cmd.Context(), userID, machineID, pairing.HashToken(token), payload.ExpiresAt)
			if err != nil {
				return fmt.Errorf("begin pairing: %w", err)
			}

			if pngPath != "" {
				png, err := pairing.QRPNG(payload, 512)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pngPath, png, 0o600); err != nil {
					return err
				}
				fmt.Printf("QR code written to %s\n", pngPath)
			} else {
				qr, err := pairing.QRTerminal(payload)
				if err != nil {
					return err
				}
				fmt.Println(qr)
			}

			fmt.Printf("Scan with the styrby app, or open:\n%s\n", pairing.EncodeURL(payload))
			fmt.Printf("Pairing %s expires at %s.\n", ps.ID, time.UnixMilli(payload.ExpiresAt).Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "account id")
	cmd.Flags().StringVar(&machineID, "machine", "", "machine id")
	cmd.Flags().StringVar(&deviceName, "device-name", "", "display name for this machine (default hostname)")
	cmd.Flags().StringVar(&agent, "agent", "", "active coding agent (claude-code, codex, gemini, aider)")
	cmd.Flags().StringVar(&pngPath, "png", "", "write the QR code to a PNG instead of the terminal")
	return cmd
}
