// Package rocketchat implements the ChatClient port against the
// Rocket.Chat REST API (rooms.info, chat.postMessage, chat.update).
package rocketchat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ericfisherdev/prbridge/internal/domain/model"
	"github.com/ericfisherdev/prbridge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ChatClient = (*Client)(nil)

// Client talks to a Rocket.Chat server as the bridge's bot user. Messages
// it posts carry the configured alias and emoji avatar; edits go out under
// the same identity, so the bridge only ever touches its own messages.
type Client struct {
	http      *http.Client
	baseURL   *url.URL
	userID    string
	authToken string
	alias     string
	avatar    string
}

// NewClient creates a Client for the given server base URL, authenticating
// with the bot user's id and personal access token. alias and avatar
// decorate created messages and may be empty.
func NewClient(baseURL, userID, authToken, alias, avatar string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing chat base URL: %w", err)
	}

	return &Client{
		http:      &http.Client{Timeout: 15 * time.Second},
		baseURL:   u,
		userID:    userID,
		authToken: authToken,
		alias:     alias,
		avatar:    avatar,
	}, nil
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an
// httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, userID, authToken string) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing chat base URL: %w", err)
	}

	return &Client{
		http:      httpClient,
		baseURL:   u,
		userID:    userID,
		authToken: authToken,
	}, nil
}

// roomInfoResponse is the wire shape of GET /api/v1/rooms.info.
type roomInfoResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Room    struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
	} `json:"room"`
}

// postMessageRequest is the wire shape of POST /api/v1/chat.postMessage.
type postMessageRequest struct {
	RoomID      string       `json:"roomId"`
	Alias       string       `json:"alias,omitempty"`
	Emoji       string       `json:"emoji,omitempty"`
	Text        string       `json:"text"`
	Attachments []attachment `json:"attachments,omitempty"`
}

// updateMessageRequest is the wire shape of POST /api/v1/chat.update.
type updateMessageRequest struct {
	RoomID      string       `json:"roomId"`
	MsgID       string       `json:"msgId"`
	Text        string       `json:"text"`
	Attachments []attachment `json:"attachments"`
}

// attachment renders one reviewer group as a titled block.
type attachment struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// messageResponse is the wire shape shared by chat.postMessage and chat.update.
type messageResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message struct {
		ID string `json:"_id"`
	} `json:"message"`
}

// GetRoom resolves a room by id. Returns nil, nil when the server reports
// the room as unknown.
func (c *Client) GetRoom(ctx context.Context, roomID string) (*model.Room, error) {
	endpoint := c.endpoint("/api/v1/rooms.info")
	endpoint.RawQuery = url.Values{"roomId": {roomID}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build rooms.info request: %w", err)
	}
	c.authenticate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rooms.info for %s: %w", roomID, err)
	}
	defer resp.Body.Close()

	var info roomInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode rooms.info response for %s: %w", roomID, err)
	}

	// Rocket.Chat answers 400 with success=false for unknown rooms.
	if !info.Success {
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("rooms.info for %s: status %d: %s", roomID, resp.StatusCode, info.Error)
	}

	return &model.Room{ID: info.Room.ID, Name: info.Room.Name}, nil
}

// CreateMessage posts a new notification message and returns its id.
func (c *Client) CreateMessage(ctx context.Context, roomID string, body model.MessageBody) (string, error) {
	payload := postMessageRequest{
		RoomID:      roomID,
		Alias:       c.alias,
		Emoji:       c.avatar,
		Text:        renderText(body),
		Attachments: renderAttachments(body),
	}

	var result messageResponse
	if err := c.post(ctx, "/api/v1/chat.postMessage", payload, &result); err != nil {
		return "", fmt.Errorf("post message to room %s: %w", roomID, err)
	}
	if !result.Success {
		return "", fmt.Errorf("post message to room %s: %s", roomID, result.Error)
	}

	return result.Message.ID, nil
}

// UpdateMessage edits an existing notification message in place.
func (c *Client) UpdateMessage(ctx context.Context, roomID, messageID string, body model.MessageBody) error {
	payload := updateMessageRequest{
		RoomID:      roomID,
		MsgID:       messageID,
		Text:        renderText(body),
		Attachments: renderAttachments(body),
	}

	var result messageResponse
	if err := c.post(ctx, "/api/v1/chat.update", payload, &result); err != nil {
		return fmt.Errorf("update message %s in room %s: %w", messageID, roomID, err)
	}
	if !result.Success {
		return fmt.Errorf("update message %s in room %s: %s", messageID, roomID, result.Error)
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, payload any, result any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path).String(), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authenticate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	return nil
}

func (c *Client) authenticate(req *http.Request) {
	req.Header.Set("X-User-Id", c.userID)
	req.Header.Set("X-Auth-Token", c.authToken)
}

func (c *Client) endpoint(path string) *url.URL {
	u := *c.baseURL
	u.Path = path
	return &u
}
