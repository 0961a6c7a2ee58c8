package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/qhuy/iot-console/internal/model"
)

// ListDevices retrieves all managed devices grouped by room.
func (c *Client) ListDevices(ctx context.Context) ([]model.Room, error) {
	var resp DevicesResponse
	if err := c.Get(ctx, "/api/devices", &resp); err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	return resp.Data, nil
}

// DeviceStats retrieves aggregate device counts for the stats view.
func (c *Client) DeviceStats(ctx context.Context) (*model.DeviceStats, error) {
	var resp StatsResponse
	if err := c.Get(ctx, "/api/devices/stats", &resp); err != nil {
		return nil, fmt.Errorf("fetching device stats: %w", err)
	}

	stats := &model.DeviceStats{}
	for _, r := range resp.ByRoom {
		stats.ByRoom = append(stats.ByRoom, model.StatCount{Label: r.Room, Count: r.Count})
	}
	for _, t := range resp.ByType {
		stats.ByType = append(stats.ByType, model.StatCount{Label: t.Type, Count: t.Count})
	}
	for _, s := range resp.ByStatus {
		stats.ByStatus = append(stats.ByStatus, model.StatCount{Label: s.Status, Count: s.Count})
	}
	return stats, nil
}

// CreateDevice registers a new device.
func (c *Client) CreateDevice(
	ctx context.Context, payload DevicePayload,
) (*model.Device, error) {
	var resp DeviceResponse
	if err := c.Post(ctx, "/api/devices", payload, &resp); err != nil {
		return nil, fmt.Errorf("creating device: %w", err)
	}
	return &resp.Data, nil
}

// UpdateDevice modifies an existing device.
func (c *Client) UpdateDevice(
	ctx context.Context, id string, payload DevicePayload,
) error {
	path := "/api/devices/" + url.PathEscape(id)
	if err := c.Put(ctx, path, payload, nil); err != nil {
		return fmt.Errorf("updating device %s: %w", id, err)
	}
	return nil
}

// DeleteDevice removes a device from the platform.
func (c *Client) DeleteDevice(ctx context.Context, id string) error {
	path := "/api/devices/" + url.PathEscape(id)
	if err := c.Delete(ctx, path); err != nil {
		return fmt.Errorf("deleting device %s: %w", id, err)
	}
	return nil
}
