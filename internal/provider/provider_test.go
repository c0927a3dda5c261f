package provider

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"linktree/internal/config"
	"linktree/internal/scheduler"
)

func TestTwitchProbe(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    bool
		wantErr bool
	}{
		{"Live", http.StatusOK, `{"data":[{"user_login":"strimando","type":"live"}]}`, true, false},
		{"Offline", http.StatusOK, `{"data":[]}`, false, false},
		{"Unauthorized", http.StatusUnauthorized, `{"error":"Unauthorized"}`, false, true},
		{"Garbage", http.StatusOK, `not json`, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/helix/streams" {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("user_login") != "strimando" {
					t.Errorf("Unexpected user_login %q", r.URL.Query().Get("user_login"))
				}
				if r.Header.Get("Client-Id") != "cid" || r.Header.Get("Authorization") != "Bearer tok" {
					t.Errorf("Missing auth headers: %v", r.Header)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewTwitch(srv.Client(), srv.URL, "cid", "tok", "strimando")
			got, err := p.Probe(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Probe error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var pe *scheduler.ProviderError
				if !errors.As(err, &pe) || pe.Provider != ModeTwitch {
					t.Errorf("Expected a twitch ProviderError, got %T %v", err, err)
				}
			}
			if got != tt.want {
				t.Errorf("Probe = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTwitchRequiresCredentials(t *testing.T) {
	p := NewTwitch(http.DefaultClient, "http://127.0.0.1:1", "", "", "strimando")
	if _, err := p.Probe(context.Background()); err == nil {
		t.Error("Expected an error without credentials")
	}
}

func TestMalformedAPIBase(t *testing.T) {
	tests := []struct {
		name     string
		provider scheduler.LiveProvider
		mode     string
	}{
		{"Twitch", NewTwitch(http.DefaultClient, "http://[::1", "cid", "tok", "strimando"), ModeTwitch},
		{"Youtube", NewYoutube(http.DefaultClient, "http://[::1", "k", "UC123"), ModeYoutube},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			live, err := tt.provider.Probe(context.Background())
			var pe *scheduler.ProviderError
			if !errors.As(err, &pe) || pe.Provider != tt.mode {
				t.Fatalf("Expected a %s ProviderError, got %T %v", tt.mode, err, err)
			}
			if live {
				t.Error("A broken API base must not report live")
			}
		})
	}
}

func TestYoutubeProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("eventType") != "live" || q.Get("channelId") != "UC123" || q.Get("key") != "k" {
			t.Errorf("Unexpected query %v", q)
		}
		w.Write([]byte(`{"items":[{"id":{"videoId":"abc"}}]}`))
	}))
	defer srv.Close()

	live, err := NewYoutube(srv.Client(), srv.URL, "k", "UC123").Probe(context.Background())
	if err != nil || !live {
		t.Errorf("Probe = %v, %v; want true, nil", live, err)
	}
}

func TestKickProbe(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"Live", `{"slug":"strimando","livestream":{"is_live":true}}`, true},
		{"Ended", `{"slug":"strimando","livestream":{"is_live":false}}`, false},
		{"Null", `{"slug":"strimando","livestream":null}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v2/channels/strimando" {
					t.Errorf("Unexpected path %s", r.URL.Path)
				}
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			got, err := NewKick(srv.Client(), srv.URL, "strimando").Probe(context.Background())
			if err != nil {
				t.Fatalf("Probe failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Probe = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProbeHonoursContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := NewKick(srv.Client(), srv.URL, "strimando").Probe(ctx); err == nil {
		t.Error("Expected a timeout error")
	}
}

func TestAny(t *testing.T) {
	live := scheduler.ProviderFunc(func(context.Context) (bool, error) { return true, nil })
	offline := scheduler.ProviderFunc(func(context.Context) (bool, error) { return false, nil })
	broken := scheduler.ProviderFunc(func(context.Context) (bool, error) {
		return false, failure("broken", errors.New("down"))
	})
	panicky := scheduler.ProviderFunc(func(context.Context) (bool, error) {
		panic("nil map")
	})
	misconfigured := NewTwitch(http.DefaultClient, "http://[::1", "cid", "tok", "strimando")

	tests := []struct {
		name    string
		members []scheduler.LiveProvider
		want    bool
		wantErr bool
	}{
		{"One Live", []scheduler.LiveProvider{offline, live}, true, false},
		{"All Offline", []scheduler.LiveProvider{offline, offline}, false, false},
		{"Failure Then Live", []scheduler.LiveProvider{broken, live}, true, false},
		{"Failure And Offline", []scheduler.LiveProvider{broken, offline}, false, false},
		{"All Broken", []scheduler.LiveProvider{broken, broken}, false, true},
		{"Misconfigured Then Live", []scheduler.LiveProvider{misconfigured, live}, true, false},
		{"Panic Then Live", []scheduler.LiveProvider{panicky, live}, true, false},
		{"Panic Alone", []scheduler.LiveProvider{panicky}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Any(tt.members...).Probe(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("Probe error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Probe = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRandomProbability(t *testing.T) {
	never := NewRandomWithSource(0, rand.NewSource(1))
	always := NewRandomWithSource(1, rand.NewSource(1))
	demo := NewRandomWithSource(0.3, rand.NewSource(7))

	hits := 0
	const rounds = 10000
	for i := 0; i < rounds; i++ {
		if live, _ := never.Probe(context.Background()); live {
			t.Fatal("Probability 0 reported live")
		}
		if live, _ := always.Probe(context.Background()); !live {
			t.Fatal("Probability 1 reported offline")
		}
		if live, _ := demo.Probe(context.Background()); live {
			hits++
		}
	}

	ratio := float64(hits) / rounds
	if ratio < 0.25 || ratio > 0.35 {
		t.Errorf("Expected roughly 30%% live, got %.2f", ratio)
	}
}

func TestManual(t *testing.T) {
	m := &Manual{}
	if live, _ := m.Probe(context.Background()); live {
		t.Error("Manual should start offline")
	}
	m.Set(true)
	if live, _ := m.Probe(context.Background()); !live {
		t.Error("Manual should report live after Set(true)")
	}
}

func TestNewFactory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Live.ProbeTimeout = 5
	cfg.Live.RandomProbability = 0.3

	tests := []struct {
		mode       string
		wantErr    bool
		wantManual bool
	}{
		{"random", false, false},
		{"Manual", false, true},
		{"twitch, manual", false, true},
		{"twitch,youtube,kick", false, false},
		{"", true, false},
		{"myspace", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg.Live.Provider = tt.mode
			set, err := New(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.mode, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if set.Provider == nil {
				t.Fatal("Provider is nil")
			}
			if (set.Manual != nil) != tt.wantManual {
				t.Errorf("Manual present = %v, want %v", set.Manual != nil, tt.wantManual)
			}
		})
	}
}

func TestNewClientOutlivesProbeDeadline(t *testing.T) {
	cfg := &config.Config{}
	cfg.Live.Provider = "twitch"

	set, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	tw, ok := set.Provider.(*Twitch)
	if !ok {
		t.Fatalf("Expected *Twitch, got %T", set.Provider)
	}
	if tw.client.Timeout <= config.DefaultProbeTimeout {
		t.Errorf("HTTP timeout %v would cut the %v probe deadline short", tw.client.Timeout, config.DefaultProbeTimeout)
	}
}
