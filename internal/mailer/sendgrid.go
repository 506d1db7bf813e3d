package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/preiskampf/preiskampf/internal/httpclient"
)

const sendGridBaseURL = "https://api.sendgrid.com"

type SendGridProvider struct {
	apiKey    string
	fromEmail string
	fromName  string
	client    *httpclient.Client
	baseURL   string
}

func NewSendGridProvider(apiKey, fromEmail, fromName string) *SendGridProvider {
	p := &SendGridProvider{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   sendGridBaseURL,
	}
	p.client = httpclient.New(httpclient.Config{
		Name:    "sendgrid",
		Timeout: 30 * time.Second,
	}, httpclient.WithAuth(func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+p.apiKey)
	}))
	return p
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridRequest struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

type sendGridPersonalization struct {
	To []sendGridAddress `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendGridError struct {
	Errors []struct {
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"errors"`
}

func (s *SendGridProvider) Send(ctx context.Context, email Email) error {
	reqBody := sendGridRequest{
		Personalizations: []sendGridPersonalization{{To: []sendGridAddress{{Email: email.To}}}},
		From:             sendGridAddress{Email: s.fromEmail, Name: s.fromName},
		Subject:          email.Subject,
		Content:          []sendGridContent{{Type: "text/html", Value: email.Body}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v3/mail/send", bytes.NewReader(bodyBytes))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimitExceeded
	}

	if resp.StatusCode >= 400 {
		var apiErr sendGridError
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if err := json.Unmarshal(data, &apiErr); err == nil && len(apiErr.Errors) > 0 {
			return fmt.Errorf("sendgrid error: status %d: %s", resp.StatusCode, apiErr.Errors[0].Message)
		}
		return fmt.Errorf("sendgrid error: status %d", resp.StatusCode)
	}

	return nil
}

func (s *SendGridProvider) Type() ProviderType { return ProviderSendGrid }
func (s *SendGridProvider) IsAvailable() bool  { return s.apiKey != "" }
