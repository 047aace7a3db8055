package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"styrby/internal/domain"
)

func historyCmd() *cobra.Command {
	var (
		sessionID string
		machineID string
		limit     int
		offset    int
		after     int64
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Read a session's decrypted history",
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

			list, err := msgs.Messages(cmd.Context(), sessionID, machineID, domain.MessageQuery{
				Limit:         limit,
				Offset:        offset,
				AfterSequence: after,
			})
			if err != nil {
				return err
			}
			for _, m := range list {
				ts := time.UnixMilli(m.CreatedAt).Format(time.RFC3339)
				fmt.Printf("%6d  %s  %-14s  %s\n", m.SequenceNumber, ts, m.MessageType, m.Content)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "session id")
	cmd.Flags().StringVar(&machineID, "machine", "", "machine id")
	cmd.Flags().IntVar(&limit, "limit", 0, "max messages to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "messages to skip")
	cmd.Flags().Int64Var(&after, "after", 0, "only messages after this sequence number")
	return cmd
}
