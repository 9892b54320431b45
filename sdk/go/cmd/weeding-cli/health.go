package main

import (
	"context"
	"fmt"

	weeding "github.com/Charlelielataste/weeding/sdk/go"
	"github.com/spf13/cobra"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Probe the service and its blob store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkConfig(); err != nil {
				return err
			}

			client, err := weeding.NewClient(weeding.ClientConfig{BaseURL: baseURL})
			if err != nil {
				return err
			}

			status, err := client.Health(context.Background())
			if err != nil {
				return err
			}

			fmt.Printf("Status:        %s\n", status.Status)
			fmt.Printf("Storage:       %s\n", status.Storage)
			fmt.Printf("Uptime:        %ds\n", status.UptimeSeconds)
			fmt.Printf("Open sessions: %d\n", status.OpenSessions)

			if status.Status != "ok" {
				return fmt.Errorf("service is %s", status.Status)
			}
			return nil
		},
	}
}
