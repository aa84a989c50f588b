// Package generation wraps the outbound call to a third party inference
// endpoint that turns text prompts into images. The resulting bytes are
// encoded as a base64 data URI and stored as an opaque image URL, with no
// format validation beyond the reported content type.
package generation

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type Client struct {
	endpoint string
	token    string
	client   *http.Client
	logger   logrus.FieldLogger
}

func NewClient(logger logrus.FieldLogger, endpoint, token string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type inferenceRequest struct {
	Inputs string `json:"inputs"`
}

// Generate submits the prompt and returns the produced image as a data URI.
// Unlike storage operations, the call crosses the network and honours both the
// context and the client's timeout.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {

	body, err := json.Marshal(inferenceRequest{Inputs: prompt})
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	request.Header.Set("Authorization", "Bearer "+c.token)
	request.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(request)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		// inference endpoints report queue and model states in the body
		snippet, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		c.logger.Warnf("inference endpoint replied %d: %s", response.StatusCode, snippet)
		return "", fmt.Errorf("inference endpoint replied with status %d", response.StatusCode)
	}

	image, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("couldn't read generated image: %w", err)
	}

	var contentType = response.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(image)), nil
}
