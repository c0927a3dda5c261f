package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
)

// Twitch asks the Helix API whether the channel has a running stream.
type Twitch struct {
	client   *http.Client
	apiBase  string
	clientID string
	token    string
	channel  string
}

func NewTwitch(client *http.Client, apiBase, clientID, token, channel string) *Twitch {
	return &Twitch{
		client:   client,
		apiBase:  strings.TrimRight(apiBase, "/"),
		clientID: clientID,
		token:    token,
		channel:  channel,
	}
}

func (t *Twitch) Probe(ctx context.Context) (bool, error) {
	if t.clientID == "" || t.token == "" || t.channel == "" {
		return false, failure(ModeTwitch, errors.New("client id, access token and channel are required"))
	}

	u, err := url.Parse(t.apiBase + "/helix/streams")
	if err != nil {
		return false, failure(ModeTwitch, err)
	}
	q := u.Query()
	q.Set("user_login", t.channel)
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Client-Id", t.clientID)
	header.Set("Authorization", "Bearer "+t.token)

	resp, err := get(ctx, t.client, ModeTwitch, u.String(), header)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var result struct {
		Data []struct {
			UserLogin string `json:"user_login"`
			Type      string `json:"type"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, failure(ModeTwitch, err)
	}

	for _, s := range result.Data {
		if s.Type == "live" {
			return true, nil
		}
	}
	return false, nil
}
