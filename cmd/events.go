/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/memberdir/apiserver/config"
	"github.com/memberdir/apiserver/internal/mq"
	"github.com/memberdir/apiserver/types"
	"github.com/spf13/cobra"
)

// eventsCmd groups event-channel tooling.
var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the member event channel",
}

// eventsListenCmd tails the audit channel and prints each member event.
// Runs until interrupted.
var eventsListenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print member events as they are published",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		if cfg.EventsBackend == "" {
			return errors.New("EVENTS_BACKEND is not configured")
		}

		backend, err := mq.NewBackend(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			_ = backend.Close()
		}()

		channel := cfg.RabbitMQ.Queue
		if cfg.EventsBackend == mq.BackendPubSub {
			channel = cfg.PubSub.Topic
		}

		err = backend.Subscribe(cmd.Context(), channel, func(ctx context.Context, msg mq.Message) error {
			var event types.MemberEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				fmt.Printf("%s: unreadable event: %v\n", msg.ID, err)
				return nil
			}
			fmt.Printf("%s %s member=%d name=%q actor=%s\n",
				event.OccurredAt.Format("2006-01-02T15:04:05Z07:00"),
				event.Kind, event.MemberID, event.Name, event.Actor)
			return nil
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListenCmd)
}
