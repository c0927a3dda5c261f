package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// Kick reads the public channel endpoint; a non-null livestream means live.
type Kick struct {
	client  *http.Client
	apiBase string
	channel string
}

func NewKick(client *http.Client, apiBase, channel string) *Kick {
	return &Kick{client: client, apiBase: strings.TrimRight(apiBase, "/"), channel: channel}
}

func (k *Kick) Probe(ctx context.Context) (bool, error) {
	if k.channel == "" {
		return false, failure(ModeKick, errors.New("channel is required"))
	}

	endpoint := k.apiBase + "/api/v2/channels/" + url.PathEscape(k.channel)
	header := http.Header{}
	header.Set("Accept", "application/json")

	resp, err := get(ctx, k.client, ModeKick, endpoint, header)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var result struct {
		Livestream *struct {
			IsLive bool `json:"is_live"`
		} `json:"livestream"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, failure(ModeKick, err)
	}

	return result.Livestream != nil && result.Livestream.IsLive, nil
}
