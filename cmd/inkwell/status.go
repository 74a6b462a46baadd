// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkwell Contributors

package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/inkwell/inkwell/internal/config"
)

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show health of a running Inkwell server",
		Long:  `Query the liveness and readiness probes of a running Inkwell server.`,
		RunE:  runStatus,
	}

	cmd.Flags().String("addr", config.DefaultMetricsAddr, "observability server address")

	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	addr, err := cmd.Flags().GetString("addr")
	if err != nil {
		return oops.Wrap(err)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	base := "http://" + addr

	for _, probe := range []string{"liveness", "readiness"} {
		state, err := checkProbe(client, base+"/healthz/"+probe)
		if err != nil {
			return oops.Code("STATUS_UNREACHABLE").
				With("probe", probe).
				Wrap(err)
		}
		cmd.Printf("%-10s %s\n", probe, state)
	}
	return nil
}

func checkProbe(client *http.Client, url string) (string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort

	if resp.StatusCode == http.StatusOK {
		return "ok", nil
	}
	return fmt.Sprintf("not ready (%d)", resp.StatusCode), nil
}
