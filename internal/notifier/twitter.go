package notifier

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
)

// ErrMissingCredentials is returned when a TWITTER_* variable is unset
var ErrMissingCredentials = errors.New("missing required Twitter credentials in environment variables")

// TwitterNotifier posts run announcements to Twitter
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, ErrMissingCredentials
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)

	return NewTwitterNotifierWithClient(config.Client(oauth1.NoContext, token)), nil
}

// NewTwitterNotifierWithClient creates a notifier on an already authorized HTTP client
func NewTwitterNotifierWithClient(httpClient *http.Client) *TwitterNotifier {
	return &TwitterNotifier{client: twitter.NewClient(httpClient)}
}

// Notify posts one tweet for the run
func (n *TwitterNotifier) Notify(summary Summary) error {
	_, _, err := n.client.Statuses.Update(formatAnnouncement(summary, MaxLength), nil)
	if err != nil {
		return fmt.Errorf("failed to post announcement for %s: %w", summary.Date, err)
	}
	return nil
}
