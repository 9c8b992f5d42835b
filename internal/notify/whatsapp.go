package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// WhatsAppClient talks to the self-hosted WhatsApp gateway. The
// gateway itself (session, QR pairing) is external; this client only
// posts messages.
type WhatsAppClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

type whatsAppSendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type whatsAppSendResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func NewWhatsAppClient(baseURL, token string) *WhatsAppClient {
	return &WhatsAppClient{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (w *WhatsAppClient) SendMessage(ctx context.Context, phone string, text string) error {
	if w.BaseURL == "" {
		return fmt.Errorf("whatsapp gateway not configured")
	}

	payload, err := json.Marshal(whatsAppSendRequest{
		Phone:   phone,
		Message: text,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		w.BaseURL+"/api/send",
		bytes.NewBuffer(payload),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", w.Token))
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whatsapp gateway status %d: %s", resp.StatusCode, string(body))
	}

	var out whatsAppSendResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return err
	}
	if out.Error != "" {
		return fmt.Errorf("whatsapp gateway: %s", out.Error)
	}

	return nil
}
