package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"styrby/internal/domain"
)

func sendCmd() *cobra.Command {
	var (
		sessionID string
		machineID string
		msgType   string
	)

	cmd := &cobra.Command{
		Use:   "send [text...]",
		Short: "Encrypt and store a session message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if sessionID == "" || machineID == "" {
				return fmt.Errorf("--session and --machine are required")
			}

			id, err := wire.Identity.LoadIdentity(passphrase)
			if err != nil {
				return err
			}
			msgs := wire.Messages(id)

			rec, err := msgs.StoreMessage(cmd.Context(), sessionID, machineID, strings.Join(args, " "), msgType)
			if err != nil {
				return err
			}

			if wire.Relay != nil {
				env := domain.Envelope{
					SessionID:        rec.SessionID,
					MachineID:        rec.MachineID,
					SequenceNumber:   rec.SequenceNumber,
					MessageType:      rec.MessageType,
					ContentEncrypted: rec.ContentEncrypted,
					EncryptionNonce:  rec.EncryptionNonce,
					Timestamp:        rec.CreatedAt,
				}
				if err := wire.Relay.Send(cmd.Context(), env); err != nil {
					return fmt.Errorf("relay send: %w", err)
				}
			}

			fmt.Printf("Stored message %d in session %s.\n", rec.SequenceNumber, rec.SessionID)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "session id")
	cmd.Flags().StringVar(&machineID, "machine", "", "machine id")
	cmd.Flags().StringVar(&msgType, "type", "agent_output", "message type")
	return cmd
}
