package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"return_app/internal/core/domain"
	"return_app/internal/ports/outbound"
)

const (
	TemplateName    = "oms-return-request"
	ApplicationName = "email"
)

type payload struct {
	TemplateName    string              `json:"TemplateName"`
	ApplicationName string              `json:"applicationName"`
	LogEvidence     bool                `json:"logEvidence"`
	JSONData        domain.Notification `json:"jsonData"`
}

// Sender posts notifications to the mail endpoint. The response body is
// ignored; only transport errors and non-2xx statuses are reported.
type Sender struct {
	url  string
	http *http.Client
}

func NewSender(url string, timeout time.Duration) *Sender {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Sender{url: url, http: &http.Client{Timeout: timeout}}
}

func (s *Sender) Send(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(payload{
		TemplateName:    TemplateName,
		ApplicationName: ApplicationName,
		LogEvidence:     false,
		JSONData:        n,
	})
	if err != nil {
		return fmt.Errorf("encode mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("post mail: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("post mail: http status %d", resp.StatusCode)
	}
	return nil
}

var _ outbound.MailSender = (*Sender)(nil)
