package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func waitCmd() *cobra.Command {
	var url string
	var interval time.Duration
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "wait",
		Short: "Wait until the REST service is available",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return waitUntilAvailable(ctx, http.DefaultClient, url, interval, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&url, "url", "http://localhost:8080/friends/search", "The URL to poll")
	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "Time between two attempts")
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Give up after this time")
	return cmd
}

// waitUntilAvailable polls url until it answers 200 OK or ctx is done.
func waitUntilAvailable(ctx context.Context, client *http.Client, url string, interval time.Duration, out io.Writer) error {
	start := time.Now()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		status, err := poll(ctx, client, url)
		if err == nil && status == http.StatusOK {
			fmt.Fprintf(out, "Available after %s\n", time.Since(start).Round(time.Second))
			return nil
		}
		if err != nil {
			logger.Debug("Service not reachable", zap.String("url", url), zap.Error(err))
		} else {
			logger.Debug("Service not ready", zap.String("url", url), zap.Int("status", status))
		}
		fmt.Fprintf(out, "Waiting %s\n", time.Since(start).Round(time.Second))

		select {
		case <-ctx.Done():
			return fmt.Errorf("service at %s not available: %w", url, ctx.Err())
		case <-ticker.C:
		}
	}
}

func poll(ctx context.Context, client *http.Client, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	res, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, res.Body)
	return res.StatusCode, nil
}
