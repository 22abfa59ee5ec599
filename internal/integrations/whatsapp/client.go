package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент WhatsApp Cloud API
type Client struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	languageCode  string
	httpClient    *http.Client
	log           Logger
}

// NewClient создает новый экземпляр клиента WhatsApp Cloud API
func NewClient(baseURL, accessToken, phoneNumberID, languageCode string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:       baseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		languageCode:  languageCode,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendTemplate отправляет сообщение по шаблону и возвращает ID сообщения
func (c *Client) SendTemplate(ctx context.Context, to, templateName string, parameters []string) (string, error) {
	message := TemplateMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "template",
		Template: TemplateBody{
			Name:     templateName,
			Language: Language{Code: c.languageCode},
		},
	}

	if len(parameters) > 0 {
		params := make([]TemplateParameter, len(parameters))
		for i, p := range parameters {
			params[i] = TemplateParameter{Type: "text", Text: p}
		}
		message.Template.Components = []TemplateComponent{{Type: "body", Parameters: params}}
	}

	id, err := c.send(ctx, message)
	if err != nil {
		return "", err
	}

	c.log.Info("WhatsApp template %s sent, message_id=%s", templateName, id)
	return id, nil
}

func (c *Client) send(ctx context.Context, message interface{}) (string, error) {
	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)

	payload, err := json.Marshal(message)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal message: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrInvalidResponse, err)
	}

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "", fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, string(body))
	default:
		return "", fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var sendResp SendResponse
	if err := json.Unmarshal(body, &sendResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if len(sendResp.Messages) == 0 {
		return "", fmt.Errorf("%w: no message id in response", ErrInvalidResponse)
	}

	return sendResp.Messages[0].ID, nil
}
