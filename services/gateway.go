package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// GatewayClient talks to the chat-platform gateway service: it delivers
// rendered announcements and applies role changes. All calls carry the
// shared service token.
type GatewayClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

func NewGatewayClient(baseURL, token string) *GatewayClient {
	return &GatewayClient{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *GatewayClient) post(path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequest("POST", c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("gateway refused %s: missing permissions", path)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// Announce delivers a rendered message to a channel.
func (c *GatewayClient) Announce(channelID, content string) error {
	return c.post("/api/v1/messages", map[string]string{
		"channel_id": channelID,
		"content":    content,
	})
}

// GrantRole assigns a role to a member.
func (c *GatewayClient) GrantRole(guildID, userID, roleID string) error {
	return c.post("/api/v1/roles/grant", map[string]string{
		"guild_id": guildID,
		"user_id":  userID,
		"role_id":  roleID,
	})
}

// RevokeRole removes a role from a member.
func (c *GatewayClient) RevokeRole(guildID, userID, roleID string) error {
	return c.post("/api/v1/roles/revoke", map[string]string{
		"guild_id": guildID,
		"user_id":  userID,
		"role_id":  roleID,
	})
}
