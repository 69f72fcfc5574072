package livekit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// RoomClient drives the LiveKit RoomService over its Twirp HTTP endpoints.
type RoomClient struct {
	baseURL string
	minter  *TokenMinter
	client  *http.Client
}

func NewRoomClient(serverURL string, minter *TokenMinter) *RoomClient {
	return &RoomClient{
		baseURL: httpURL(serverURL),
		minter:  minter,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// httpURL maps a LiveKit websocket URL to its HTTP API base.
func httpURL(serverURL string) string {
	switch {
	case strings.HasPrefix(serverURL, "wss://"):
		return "https://" + strings.TrimPrefix(serverURL, "wss://")
	case strings.HasPrefix(serverURL, "ws://"):
		return "http://" + strings.TrimPrefix(serverURL, "ws://")
	default:
		return strings.TrimSuffix(serverURL, "/")
	}
}

// CreateRoom creates the room. A room that already exists is success; the
// participant will simply join it.
func (c *RoomClient) CreateRoom(ctx context.Context, name string) error {
	payload := map[string]interface{}{"name": name}
	if err := c.call(ctx, "CreateRoom", name, payload, nil); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "already exists") {
			return nil
		}
		return err
	}
	return nil
}

// DeleteRoom removes the room, disconnecting all participants.
func (c *RoomClient) DeleteRoom(ctx context.Context, name string) error {
	payload := map[string]interface{}{"room": name}
	return c.call(ctx, "DeleteRoom", name, payload, nil)
}

// ListParticipants returns the identities currently in the room.
func (c *RoomClient) ListParticipants(ctx context.Context, name string) ([]string, error) {
	payload := map[string]interface{}{"room": name}
	var result struct {
		Participants []struct {
			Identity string `json:"identity"`
		} `json:"participants"`
	}
	if err := c.call(ctx, "ListParticipants", name, payload, &result); err != nil {
		return nil, err
	}
	identities := make([]string, len(result.Participants))
	for i, p := range result.Participants {
		identities[i] = p.Identity
	}
	return identities, nil
}

// SendData pushes a data packet to the room's participants.
func (c *RoomClient) SendData(ctx context.Context, room string, data []byte, topic string) error {
	payload := map[string]interface{}{
		"room":  room,
		"data":  data, // base64-encoded by encoding/json
		"kind":  "LOSSY",
		"topic": topic,
	}
	return c.call(ctx, "SendData", room, payload, nil)
}

func (c *RoomClient) call(ctx context.Context, method, room string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", method, err)
	}

	token, err := c.minter.adminToken(room)
	if err != nil {
		return err
	}

	url := c.baseURL + "/twirp/livekit.RoomService/" + method
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s error: status %d, body: %s", method, resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("unmarshal %s response: %w", method, err)
		}
	}
	return nil
}
