package main

import (
	"context"

	"rendezvous/internal/notification"
	"rendezvous/pkg/app"
	"rendezvous/pkg/config"
)

const ServiceName = "rendezvous-api"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting rendezvous API")

	application := app.NewApplication(cfg)
	if err := application.Setup(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to set up application", "error", err)
	}

	logAdminAccess(cfg, application)
	application.Run()
}

// logAdminAccess prints the back-office link once at startup; the token is not
// served by any unauthenticated route.
func logAdminAccess(cfg *config.Config, application *app.Application) {
	tok, err := application.Services().Admin.Token(context.Background())
	if err != nil {
		cfg.Log.Error("Admin token unavailable", "error", err)
		return
	}
	cfg.Log.Info("Admin access",
		"admin_url", notification.AdminLink(cfg.AdminBaseURL, tok.Token),
		"token_created_at", tok.CreatedAt,
	)
}
