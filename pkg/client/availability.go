package client

import (
	"context"
	"net/http"
	"net/url"

	"rendezvous/pkg/model"
)

type AvailabilityClient struct {
	httpClient *HttpClient
}

func NewAvailabilityClient(httpClient *HttpClient) *AvailabilityClient {
	return &AvailabilityClient{httpClient: httpClient}
}

// List returns the days within [start, end]; either bound may be empty.
func (c *AvailabilityClient) List(ctx context.Context, start, end string) ([]model.AvailabilityDay, error) {
	q := url.Values{}
	if start != "" {
		q.Set("start", start)
	}
	if end != "" {
		q.Set("end", end)
	}
	path := "/api/availabilities"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	resp, err := c.httpClient.GET(ctx, path)
	if err != nil {
		return nil, err
	}
	var days []model.AvailabilityDay
	if err := expect(resp, http.StatusOK, &days); err != nil {
		return nil, err
	}
	return days, nil
}

func (c *AvailabilityClient) Create(ctx context.Context, req model.AvailabilityCreate) (model.AvailabilityDay, error) {
	resp, err := c.httpClient.POST(ctx, "/api/availabilities", req)
	if err != nil {
		return model.AvailabilityDay{}, err
	}
	var day model.AvailabilityDay
	err = expect(resp, http.StatusCreated, &day)
	return day, err
}

func (c *AvailabilityClient) ReplaceSlots(ctx context.Context, id string, req model.AvailabilitySlotsUpdate) (model.AvailabilityDay, error) {
	resp, err := c.httpClient.PUT(ctx, "/api/availabilities/"+url.PathEscape(id)+"/slots", req)
	if err != nil {
		return model.AvailabilityDay{}, err
	}
	var day model.AvailabilityDay
	err = expect(resp, http.StatusOK, &day)
	return day, err
}

func (c *AvailabilityClient) Delete(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, "/api/availabilities/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	return expect(resp, http.StatusNoContent, nil)
}
