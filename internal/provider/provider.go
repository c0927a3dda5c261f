package provider

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"linktree/internal/config"
	"linktree/internal/scheduler"
)

// Mode names accepted in live.provider.
const (
	ModeRandom  = "random"
	ModeManual  = "manual"
	ModeTwitch  = "twitch"
	ModeYoutube = "youtube"
	ModeKick    = "kick"
)

// Set is what New builds: the provider handed to the scheduler and, when
// "manual" is part of the mode, the switch the admin API flips.
type Set struct {
	Provider scheduler.LiveProvider
	Manual   *Manual
}

// New is a factory that returns the requested live-status provider.
// A comma-separated mode ("twitch,kick") means live on any of them.
func New(cfg *config.Config) (*Set, error) {
	client := &http.Client{Timeout: cfg.ProbeTimeout() + time.Second}

	var (
		members []scheduler.LiveProvider
		names   []string
		set     Set
	)
	for _, mode := range strings.Split(cfg.Live.Provider, ",") {
		mode = strings.ToLower(strings.TrimSpace(mode))
		if mode == "" {
			continue
		}

		var p scheduler.LiveProvider
		switch mode {
		case ModeRandom:
			p = NewRandom(cfg.Live.RandomProbability)
		case ModeManual:
			if set.Manual == nil {
				set.Manual = &Manual{}
			}
			p = set.Manual
		case ModeTwitch:
			p = NewTwitch(client, cfg.Twitch.APIBase, cfg.Twitch.ClientID, cfg.Twitch.AccessToken, cfg.Streamer.TwitchChannel)
		case ModeYoutube:
			p = NewYoutube(client, cfg.Youtube.APIBase, cfg.Youtube.APIKey, cfg.Streamer.YoutubeChannelID)
		case ModeKick:
			p = NewKick(client, cfg.Kick.APIBase, cfg.Streamer.KickChannel)
		default:
			return nil, fmt.Errorf("unknown live provider %q", mode)
		}
		members = append(members, p)
		names = append(names, mode)
	}

	switch len(members) {
	case 0:
		return nil, errors.New("live.provider is empty")
	case 1:
		set.Provider = members[0]
	default:
		set.Provider = Any(members...)
	}

	log.Printf("📡 Live provider: %s", strings.Join(names, " + "))
	return &set, nil
}

// failure wraps err as the provider error the scheduler absorbs.
func failure(name string, err error) error {
	return &scheduler.ProviderError{Provider: name, Err: err}
}

// get performs a GET and fails on anything other than 200.
func get(ctx context.Context, client *http.Client, name, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, failure(name, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("User-Agent", "Linktree/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, failure(name, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, failure(name, fmt.Errorf("status %d", resp.StatusCode))
	}
	return resp, nil
}
