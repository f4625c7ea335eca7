package evaluation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ericogr/chimera-descent/internal/constants"
	"github.com/ericogr/chimera-descent/internal/retry"
)

type webhookPayload struct {
	Outcome Outcome `json:"outcome"`
	Awards  []Award `json:"awards"`
}

// Webhook posts the outcome and its awards to an external achievement
// service. 5xx responses and transport errors are retried.
type Webhook struct {
	URL    string
	Client *http.Client
	Policy retry.Policy
}

func NewWebhook(url string, timeout time.Duration) *Webhook {
	return &Webhook{URL: url, Client: &http.Client{Timeout: timeout}, Policy: retry.DefaultPolicy}
}

func (w *Webhook) Name() string { return "webhook:" + w.URL }

func (w *Webhook) Evaluate(ctx context.Context, o Outcome) error {
	body, err := json.Marshal(webhookPayload{Outcome: o, Awards: Awards(o)})
	if err != nil {
		return err
	}
	return retry.Do(ctx, w.Policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set(constants.HeaderContentType, constants.ContentTypeJSON)
		resp, err := w.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("webhook returned %d", resp.StatusCode)
		case resp.StatusCode >= 400:
			return retry.Permanent(fmt.Errorf("webhook rejected outcome: %d", resp.StatusCode))
		}
		return nil
	})
}
