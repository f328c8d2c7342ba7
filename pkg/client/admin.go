package client

import (
	"context"
	"net/http"

	"rendezvous/pkg/model"
)

type AdminClient struct {
	httpClient *HttpClient
}

func NewAdminClient(httpClient *HttpClient) *AdminClient {
	return &AdminClient{httpClient: httpClient}
}

// RefreshToken rotates the admin token and switches the client over to it.
func (c *AdminClient) RefreshToken(ctx context.Context) (string, error) {
	resp, err := c.httpClient.POST(ctx, "/api/admin/refresh-token", nil)
	if err != nil {
		return "", err
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := expect(resp, http.StatusOK, &body); err != nil {
		return "", err
	}
	c.httpClient.AdminToken = body.Token
	return body.Token, nil
}

func (c *AdminClient) Stats(ctx context.Context) (model.Stats, error) {
	resp, err := c.httpClient.GET(ctx, "/api/admin/stats")
	if err != nil {
		return model.Stats{}, err
	}
	var stats model.Stats
	err = expect(resp, http.StatusOK, &stats)
	return stats, err
}

func (c *AdminClient) Settings(ctx context.Context) (model.Settings, error) {
	resp, err := c.httpClient.GET(ctx, "/api/admin/settings")
	if err != nil {
		return model.Settings{}, err
	}
	var settings model.Settings
	err = expect(resp, http.StatusOK, &settings)
	return settings, err
}

func (c *AdminClient) UpdateSettings(ctx context.Context, settings model.Settings) (model.Settings, error) {
	resp, err := c.httpClient.PUT(ctx, "/api/admin/settings", settings)
	if err != nil {
		return model.Settings{}, err
	}
	var updated model.Settings
	err = expect(resp, http.StatusOK, &updated)
	return updated, err
}
