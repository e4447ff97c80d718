package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-resty/resty/v2"

	"github.com/Hostzero-GmbH/keycloak-config/internal/config"
	"github.com/Hostzero-GmbH/keycloak-config/internal/metrics"
)

// RemoteConfig tells where to fetch a keycloak.conf document from
type RemoteConfig struct {
	URL string
	// Token is sent as bearer token when set
	Token string

	// TokenURL, ClientID and ClientSecret obtain a token with the client
	// credentials grant when Token is empty
	TokenURL     string
	ClientID     string
	ClientSecret string

	Timeout time.Duration
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Remote fetches keycloak.conf documents over HTTP(S)
type Remote struct {
	cfg        RemoteConfig
	httpClient *resty.Client
	log        logr.Logger
}

// NewRemote creates a remote loader
func NewRemote(cfg RemoteConfig, log logr.Logger) *Remote {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(0)

	return &Remote{
		cfg:        cfg,
		httpClient: httpClient,
		log:        log.WithName("remote-config"),
	}
}

// Load fetches and parses the document
func (r *Remote) Load(ctx context.Context) (*config.MapSource, error) {
	start := time.Now()
	req := r.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "text/plain")

	token, err := r.token(ctx)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.SetAuthToken(token)
	}

	resp, err := req.Get(r.cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("failed to fetch remote config: %s: %s", resp.Status(), string(resp.Body()))
	}

	values, err := ParseProperties(strings.NewReader(string(resp.Body())))
	if err != nil {
		return nil, fmt.Errorf("failed to parse remote config: %w", err)
	}
	r.log.V(1).Info("Loaded remote config", "url", r.cfg.URL, "properties", len(values))
	metrics.ObserveSourceLoad("remote", time.Since(start).Seconds())

	name := fmt.Sprintf("%s[%s]", config.RemoteSourceName, r.cfg.URL)
	return config.NewMapSource(name, RemoteOrdinal, values), nil
}

func (r *Remote) token(ctx context.Context) (string, error) {
	if r.cfg.Token != "" || r.cfg.TokenURL == "" {
		return r.cfg.Token, nil
	}

	var token tokenResponse
	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "client_credentials",
			"client_id":     r.cfg.ClientID,
			"client_secret": r.cfg.ClientSecret,
		}).
		SetResult(&token).
		Post(r.cfg.TokenURL)
	if err != nil {
		return "", fmt.Errorf("failed to authenticate: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("failed to authenticate: %s: %s", resp.Status(), string(resp.Body()))
	}
	return token.AccessToken, nil
}
