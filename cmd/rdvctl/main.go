package main

import (
	"context"
	"os"

	"rendezvous/pkg/app"
	"rendezvous/pkg/config"
)

const ServiceName = "rdvctl"

func main() {
	rootCmd := newRootCmd(openEnv)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openEnv loads configuration and opens the configured store. Notifications
// are disabled: operator commands never message clients.
func openEnv(ctx context.Context) (*env, error) {
	cfg := config.Load(ServiceName)
	st, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &env{
		cfg:      cfg,
		services: app.NewServices(cfg, st, nil),
		close:    func() { _ = st.Close() },
	}, nil
}
