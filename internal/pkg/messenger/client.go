// Package messenger sends outbound replies through the Facebook Send API:
// the clean text first, then each resolved image attachment in order.
package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"ai-salesbot-be/internal/pkg/apperror"
	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/pkg/retry"

	gocache "github.com/patrickmn/go-cache"
)

// Client talks to the Graph API. Image ids resolve to pre-uploaded
// attachment handles through a JSON mapping file; resolutions are cached
// because the mapping only changes on redeploy.
type Client struct {
	graphURL        string
	pageAccessToken string
	attachmentsFile string
	httpClient      *http.Client
	handleCache     *gocache.Cache
	retryCfg        retry.Config
	log             logger.ILogger
}

func NewClient(graphURL, pageAccessToken, attachmentsFile string, retryCfg retry.Config, log logger.ILogger) *Client {
	return &Client{
		graphURL:        graphURL,
		pageAccessToken: pageAccessToken,
		attachmentsFile: attachmentsFile,
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		handleCache:     gocache.New(30*time.Minute, 10*time.Minute),
		retryCfg:        retryCfg,
		log:             log,
	}
}

type sendPayload struct {
	Recipient recipient `json:"recipient"`
	Message   outbound  `json:"message"`
}

type recipient struct {
	Id string `json:"id"`
}

type outbound struct {
	Text       string          `json:"text,omitempty"`
	Attachment *attachmentSpec `json:"attachment,omitempty"`
}

type attachmentSpec struct {
	Type    string            `json:"type"`
	Payload attachmentPayload `json:"payload"`
}

type attachmentPayload struct {
	AttachmentId string `json:"attachment_id"`
}

// SendReply delivers the text message, then each image whose id resolves
// to an attachment handle. An unresolvable id is logged and skipped; a
// broken image must not suppress the text the customer already earned.
func (c *Client) SendReply(ctx context.Context, recipientId, text string, imageIds []string) error {
	if text != "" {
		if err := c.post(ctx, sendPayload{
			Recipient: recipient{Id: recipientId},
			Message:   outbound{Text: text},
		}); err != nil {
			return err
		}
	}

	for _, imageId := range imageIds {
		handle, ok := c.resolveHandle(imageId)
		if !ok {
			c.log.Warn("messenger", "no attachment handle for image, skipping", map[string]interface{}{
				"image_id": imageId,
			})
			continue
		}
		if err := c.post(ctx, sendPayload{
			Recipient: recipient{Id: recipientId},
			Message: outbound{
				Attachment: &attachmentSpec{
					Type:    "image",
					Payload: attachmentPayload{AttachmentId: handle},
				},
			},
		}); err != nil {
			c.log.Error("messenger", "image send failed", map[string]interface{}{
				"image_id": imageId,
				"error":    err.Error(),
			})
		}
	}

	return nil
}

// post sends one payload with the same bounded-retry policy every other
// external call uses. The platform's own reply window bounds how long we
// can keep trying, which the per-attempt timeout already respects.
func (c *Client) post(ctx context.Context, payload sendPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return apperror.New(apperror.KindParse, "messenger.send.marshal", err)
	}

	_, err = retry.Do(ctx, c.retryCfg, "messenger.send", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.attempt(ctx, body)
	})
	return err
}

func (c *Client) attempt(ctx context.Context, body []byte) error {
	url := fmt.Sprintf("%s?access_token=%s", c.graphURL, c.pageAccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	rsp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		return fmt.Errorf("send api returned %d", rsp.StatusCode)
	}
	return nil
}

// resolveHandle looks the image id up in the cached mapping, reloading the
// mapping file on a cache miss.
func (c *Client) resolveHandle(imageId string) (string, bool) {
	if cached, found := c.handleCache.Get(imageId); found {
		return cached.(string), true
	}

	mapping, err := c.loadMapping()
	if err != nil {
		c.log.Error("messenger", "attachment mapping unreadable", map[string]interface{}{
			"file":  c.attachmentsFile,
			"error": err.Error(),
		})
		return "", false
	}

	for id, handle := range mapping {
		c.handleCache.Set(id, handle, gocache.DefaultExpiration)
	}

	handle, ok := mapping[imageId]
	return handle, ok
}

func (c *Client) loadMapping() (map[string]string, error) {
	raw, err := os.ReadFile(c.attachmentsFile)
	if err != nil {
		return nil, err
	}
	var mapping map[string]string
	if err := json.Unmarshal(raw, &mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}
