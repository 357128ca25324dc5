package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultGoogleURL = "https://translate.googleapis.com/translate_a/single"

// Google calls the public web endpoint used by the browser translate widget.
type Google struct {
	client  *http.Client
	baseURL string
}

func NewGoogle(baseURL string, client ...*http.Client) Google {
	var c *http.Client
	if len(client) > 0 && client[0] != nil {
		c = client[0]
	} else {
		c = &http.Client{Timeout: 15 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultGoogleURL
	}
	return Google{client: c, baseURL: baseURL}
}

func (t Google) Translate(ctx context.Context, from, to Language, text string) (string, error) {
	q := url.Values{}
	q.Set("client", "gtx")
	q.Set("sl", string(from))
	q.Set("tl", string(to))
	q.Set("dt", "t")
	q.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", errors.Join(ErrTranslation, err)
	}

	res, err := t.client.Do(req)
	if err != nil {
		return "", errors.Join(ErrTranslation, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", errors.Join(ErrTranslation, fmt.Errorf("google: unexpected status %s", res.Status))
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", errors.Join(ErrTranslation, err)
	}

	return parseGoogle(body)
}

// The response is a nested array whose first element lists the translated
// sentences, each one being [translated, original, ...].
func parseGoogle(body []byte) (string, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return "", errors.Join(ErrTranslation, errors.New("google: malformed response"), err)
	}

	var sentences [][]any
	if err := json.Unmarshal(raw[0], &sentences); err != nil {
		return "", errors.Join(ErrTranslation, errors.New("google: malformed sentences"), err)
	}

	var b strings.Builder
	for _, s := range sentences {
		if len(s) == 0 {
			continue
		}
		if part, ok := s[0].(string); ok {
			b.WriteString(part)
		}
	}

	if b.Len() == 0 {
		return "", errors.Join(ErrTranslation, errors.New("google: empty translation"))
	}
	return b.String(), nil
}
