package pkg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/digitalocean/godo"
	"golang.org/x/oauth2"
)

const digitalOceanUserAgent = "innobackup-showinfo"

// ErrMissingAccessToken is returned when no DigitalOcean API token was configured
var ErrMissingAccessToken = errors.New("DigitalOcean access token is empty, set do_key or DIGITALOCEAN_ACCESS_TOKEN")

// DigitalOceanClient looks up the block storage volumes backups are kept on
type DigitalOceanClient struct {
	Context context.Context
	Client  *godo.Client
}

// NewDigitalOceanClient creates a client authenticated with accessToken.
// apiURL replaces the public API endpoint when not empty.
func NewDigitalOceanClient(ctx context.Context, accessToken string, apiURL string) (*DigitalOceanClient, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}

	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	client := godo.NewClient(oauth2.NewClient(ctx, tokenSource))
	client.UserAgent = digitalOceanUserAgent

	if apiURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(apiURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid DigitalOcean API URL %q: %w", apiURL, err)
		}
		client.BaseURL = baseURL
	}

	return &DigitalOceanClient{Context: ctx, Client: client}, nil
}

// FindVolume finds a volume by ID. A missing volume is not retried.
func (c *DigitalOceanClient) FindVolume(id string) (*godo.Volume, error) {
	var volume *godo.Volume

	err := WithRetry("find volume "+id, func() error {
		var resp *godo.Response
		var err error

		volume, resp, err = c.Client.Storage.GetVolume(c.Context, id)

		if err != nil && resp != nil && resp.StatusCode == http.StatusNotFound {
			return Permanent(fmt.Errorf("volume %s does not exist: %v", id, err))
		}

		return err
	})

	return volume, err
}
