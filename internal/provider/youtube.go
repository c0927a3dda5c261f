package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// Youtube searches the channel for a video with a live broadcast.
type Youtube struct {
	client    *http.Client
	apiBase   string
	apiKey    string
	channelID string
}

func NewYoutube(client *http.Client, apiBase, apiKey, channelID string) *Youtube {
	return &Youtube{
		client:    client,
		apiBase:   strings.TrimRight(apiBase, "/"),
		apiKey:    apiKey,
		channelID: channelID,
	}
}

func (y *Youtube) Probe(ctx context.Context) (bool, error) {
	if y.apiKey == "" || y.channelID == "" {
		return false, failure(ModeYoutube, errors.New("api key and channel id are required"))
	}

	u, err := url.Parse(y.apiBase + "/search")
	if err != nil {
		return false, failure(ModeYoutube, err)
	}
	q := u.Query()
	q.Set("part", "id")
	q.Set("channelId", y.channelID)
	q.Set("eventType", "live")
	q.Set("type", "video")
	q.Set("maxResults", "1")
	q.Set("key", y.apiKey)
	u.RawQuery = q.Encode()

	resp, err := get(ctx, y.client, ModeYoutube, u.String(), nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var result struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, failure(ModeYoutube, err)
	}

	return len(result.Items) > 0, nil
}
