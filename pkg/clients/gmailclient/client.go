// Package gmailclient sends schedule email through the Gmail API as the
// authorized hospital account.
package gmailclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/ashwinpillai/duty-roster/internal/config"
	"github.com/ashwinpillai/duty-roster/pkg/utils"
)

// Client sends mail as the authorized user. Sends are serialized and
// spaced out so bulk schedule distribution stays inside the Gmail API
// rate limits.
type Client struct {
	service      *gmail.Service
	lastSendTime time.Time
	sendMutex    sync.Mutex
}

// NewClient builds a Gmail client from the OAuth credentials and a
// previously obtained token.
func NewClient(ctx context.Context, oauthCfg *config.OAuthClientConfig, token *oauth2.Token) (*Client, error) {
	oauthConfig, err := utils.GetOAuthConfig(oauthCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to get oauth config: %w", err)
	}

	service, err := gmail.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	return &Client{service: service}, nil
}
