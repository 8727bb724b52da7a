package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"remindbot/internal/remind"
)

// HTTPPoster delivers replies as JSON POSTs to a configured sink URL. The
// sink is whatever service actually talks to the comment platform; this
// module only hands it finished messages. Outbound posts are rate limited so
// a burst of firing reminders cannot flood the sink.
type HTTPPoster struct {
	url     string
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
}

func NewHTTPPoster(url string, perSec int, log zerolog.Logger) *HTTPPoster {
	var limiter *rate.Limiter
	if perSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(perSec), perSec)
	}
	return &HTTPPoster{
		url:     url,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: limiter,
		log:     log.With().Str("component", "poster").Logger(),
	}
}

type outboundReply struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
	Issue int    `json:"issue"`
	Body  string `json:"body"`
	Final bool   `json:"final"`
}

func (p *HTTPPoster) Post(ctx context.Context, origin remind.Origin, body string, final bool) error {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	payload, err := json.Marshal(outboundReply{
		Owner: origin.Owner,
		Repo:  origin.Repo,
		Issue: origin.Issue,
		Body:  body,
		Final: final,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("transport: reply sink returned %s", resp.Status)
	}
	p.log.Debug().Int("issue", origin.Issue).Bool("final", final).Msg("reply posted")
	return nil
}
