// Package paypal はPayPal Orders APIの最小クライアントを提供する。
package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// OrderStatusCompleted は支払い完了を示す注文ステータス。
const OrderStatusCompleted = "COMPLETED"

// Order はPayPal注文の検証に必要な最小限のフィールド。
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Completed は注文の支払いが完了しているかどうかを返す。
func (o *Order) Completed() bool {
	return o.Status == OrderStatusCompleted
}

// Client はclient credentialsで認証するPayPal REST APIクライアント。
type Client struct {
	clientID     string
	clientSecret string
	apiBase      string
	httpClient   *http.Client
}

// NewClient はClientの新しいインスタンスを生成する。
// apiBaseはsandboxまたはliveのAPIベースURL。
func NewClient(clientID, clientSecret, apiBase string, timeout time.Duration) *Client {
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		apiBase:      strings.TrimRight(apiBase, "/"),
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// fetchAccessToken はclient credentialsフローでアクセストークンを取得する。
func (c *Client) fetchAccessToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiBase+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access token")
	}

	return token.AccessToken, nil
}

// GetOrder は注文IDで注文の状態を取得する。
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	accessToken, err := c.fetchAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.apiBase+"/v2/checkout/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create order request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("order not found: %s", orderID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order request returned status %d", resp.StatusCode)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}

	return &order, nil
}
