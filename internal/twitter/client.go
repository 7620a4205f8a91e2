// Package twitter implements the Twitter API v2 recent-search client used
// to poll for mentions of the tracked handle.
package twitter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dghubble/oauth1"
	"github.com/hashicorp/go-retryablehttp"

	"mentions-feed/internal/types"
)

// SearchPage is one flattened page of search results.
type SearchPage struct {
	// Mentions are newest-first, as returned by the API, with author
	// fields denormalized from the user expansion.
	Mentions []types.Mention
	// NewestID is meta.newest_id: the cursor value for the next poll.
	NewestID string
}

// Client calls the Twitter API v2 search endpoint.
type Client struct {
	baseURL string
	bearer  string
	handle  string
	client  *retryablehttp.Client
}

// Option configures a Client.
type Option func(*Client)

// WithOAuth1 switches the client to OAuth 1.0a user-context auth instead
// of the app bearer token.
func WithOAuth1(consumerKey, consumerSecret, accessToken, accessSecret string) Option {
	return func(c *Client) {
		config := oauth1.NewConfig(consumerKey, consumerSecret)
		token := oauth1.NewToken(accessToken, accessSecret)
		c.bearer = ""
		c.client.HTTPClient = config.Client(oauth1.NoContext, token)
	}
}

// NewClient builds a search client for mentions of handle (without the @).
func NewClient(baseURL, bearer, handle string, opts ...Option) *Client {
	client := retryablehttp.NewClient()
	client.Logger = nil

	c := &Client{
		baseURL: baseURL,
		bearer:  bearer,
		handle:  handle,
		client:  client,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiTweet is a single result object from /tweets/search/recent.
type apiTweet struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	AuthorID      string `json:"author_id"`
	CreatedAt     string `json:"created_at"`
	PublicMetrics struct {
		LikeCount    int `json:"like_count"`
		RetweetCount int `json:"retweet_count"`
		ReplyCount   int `json:"reply_count"`
	} `json:"public_metrics"`
}

// apiUser is one entry of the includes.users expansion.
type apiUser struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Username        string `json:"username"`
	ProfileImageURL string `json:"profile_image_url"`
}

type searchResponse struct {
	Data     []apiTweet `json:"data"`
	Includes struct {
		Users []apiUser `json:"users"`
	} `json:"includes"`
	Meta struct {
		NewestID    string `json:"newest_id"`
		ResultCount int    `json:"result_count"`
	} `json:"meta"`
}

// SearchMentions fetches mentions of the tracked handle newer than
// sinceID, excluding retweets. An empty sinceID requests an unbounded
// page (cold start); the API caps it at 100 results either way.
func (c *Client) SearchMentions(ctx context.Context, sinceID string) (*SearchPage, error) {
	q := url.Values{}
	q.Set("query", fmt.Sprintf("@%s -is:retweet", c.handle))
	q.Set("max_results", "100")
	q.Set("tweet.fields", "created_at,public_metrics,author_id")
	q.Set("expansions", "author_id")
	q.Set("user.fields", "name,username,profile_image_url")
	if sinceID != "" {
		q.Set("since_id", sinceID)
	}
	endpoint := fmt.Sprintf("%s/tweets/search/recent?%s", c.baseURL, q.Encode())

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if c.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+c.bearer)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search mentions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("search mentions: status %d: %s", resp.StatusCode, string(body))
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return flatten(&sr), nil
}

// flatten joins the author expansion into each tweet and derives the
// canonical tweet URL from handle + id.
func flatten(sr *searchResponse) *SearchPage {
	users := make(map[string]apiUser, len(sr.Includes.Users))
	for _, u := range sr.Includes.Users {
		users[u.ID] = u
	}

	mentions := make([]types.Mention, 0, len(sr.Data))
	for _, t := range sr.Data {
		author := users[t.AuthorID]
		mentions = append(mentions, types.Mention{
			ID:                    t.ID,
			Text:                  t.Text,
			AuthorID:              t.AuthorID,
			AuthorUsername:        author.Username,
			AuthorName:            author.Name,
			AuthorProfileImageURL: author.ProfileImageURL,
			CreatedAt:             t.CreatedAt,
			TweetURL:              fmt.Sprintf("https://twitter.com/%s/status/%s", author.Username, t.ID),
			Metrics: types.Metrics{
				LikeCount:    t.PublicMetrics.LikeCount,
				RetweetCount: t.PublicMetrics.RetweetCount,
				ReplyCount:   t.PublicMetrics.ReplyCount,
			},
		})
	}

	return &SearchPage{Mentions: mentions, NewestID: sr.Meta.NewestID}
}
