package client

import (
	"context"
	"net/http"
	"net/url"

	"rendezvous/pkg/model"
)

type AppointmentClient struct {
	httpClient *HttpClient
}

func NewAppointmentClient(httpClient *HttpClient) *AppointmentClient {
	return &AppointmentClient{httpClient: httpClient}
}

func (c *AppointmentClient) List(ctx context.Context) ([]model.Appointment, error) {
	resp, err := c.httpClient.GET(ctx, "/api/appointments")
	if err != nil {
		return nil, err
	}
	var appointments []model.Appointment
	if err := expect(resp, http.StatusOK, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// Book sends the booking with an Idempotency-Key when one is given, so a retried
// request replays the first response instead of failing with a conflict.
func (c *AppointmentClient) Book(ctx context.Context, req model.BookingRequest, idempotencyKey string) (model.Appointment, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	resp, err := c.httpClient.POSTWithHeaders(ctx, "/api/appointments", req, headers)
	if err != nil {
		return model.Appointment{}, err
	}
	var appt model.Appointment
	err = expect(resp, http.StatusCreated, &appt)
	return appt, err
}

func (c *AppointmentClient) Cancel(ctx context.Context, id string) error {
	resp, err := c.httpClient.DELETE(ctx, "/api/appointments/"+url.PathEscape(id))
	if err != nil {
		return err
	}
	return expect(resp, http.StatusNoContent, nil)
}
