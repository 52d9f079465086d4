package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultGraphURL = "https://graph.facebook.com/v19.0"

// Graph API field lists for post/media metadata lookups.
const (
	FacebookPostFields   = "id,message,permalink_url,created_time,from{id,name,picture},attachments"
	InstagramMediaFields = "id,caption,permalink,timestamp,username,media_type,media_url"
	instagramUserFields  = "username,profile_picture_url"
)

// PostMetadata is the flattened result of a Graph API object lookup. The
// error-tagged variant (ErrorKind non-empty) still fills every field a
// template reads, so formatting code never branches on presence.
type PostMetadata struct {
	PostMessage     string
	PostURL         string
	PostCreatedTime string
	FromUser        string
	FromUserPicture string
	MediaType       string
	MediaURL        string

	ErrorKind    string
	ErrorMessage string
}

// Failed reports whether this record is the error-tagged fallback.
func (m PostMetadata) Failed() bool {
	return m.ErrorKind != ""
}

// GraphClient performs read requests against the Meta Graph API.
type GraphClient struct {
	baseURL string
	client  *http.Client
}

func NewGraphClient() *GraphClient {
	return &GraphClient{
		baseURL: defaultGraphURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewGraphClientWithBaseURL is used by tests to point the client at a stub
// server.
func NewGraphClientWithBaseURL(baseURL string) *GraphClient {
	c := NewGraphClient()
	c.baseURL = baseURL
	return c
}

// graphObject covers the union of the Facebook post and Instagram media
// response shapes; absent fields decode to their zero values.
type graphObject struct {
	ID            string `json:"id"`
	Message       string `json:"message"`
	Caption       string `json:"caption"`
	PermalinkURL  string `json:"permalink_url"`
	Permalink     string `json:"permalink"`
	CreatedTime   string `json:"created_time"`
	Timestamp     string `json:"timestamp"`
	Username      string `json:"username"`
	ProfilePicURL string `json:"profile_picture_url"`
	MediaType     string `json:"media_type"`
	MediaURL      string `json:"media_url"`
	From          *struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		Picture *struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	} `json:"from"`
	Attachments *struct {
		Data []struct {
			Type string `json:"type"`
			URL  string `json:"url"`
		} `json:"data"`
	} `json:"attachments"`
}

// FetchObjectMetadata performs a single read request for a post, media, or
// comment object and normalizes the response. It never returns an error: any
// transport or non-2xx failure yields the error-tagged fallback record.
func (c *GraphClient) FetchObjectMetadata(ctx context.Context, platform, objectID, accessToken, fields string) PostMetadata {
	obj, err := c.getObject(ctx, objectID, accessToken, fields)
	if err != nil {
		slog.Error("Failed to fetch object metadata",
			"platform", platform, "objectID", objectID, "error", err)
		return fallbackMetadata(err)
	}

	if platform == PlatformInstagram {
		mediaType := "unknown"
		if obj.MediaType != "" {
			mediaType = strings.ToLower(obj.MediaType)
		}
		fromUser := obj.Username
		if fromUser == "" {
			fromUser = "Unknown"
		}
		return PostMetadata{
			PostMessage:     obj.Caption,
			PostURL:         obj.Permalink,
			PostCreatedTime: obj.Timestamp,
			FromUser:        fromUser,
			MediaType:       mediaType,
			MediaURL:        obj.MediaURL,
		}
	}

	meta := PostMetadata{
		PostMessage:     obj.Message,
		PostURL:         obj.PermalinkURL,
		PostCreatedTime: obj.CreatedTime,
		FromUser:        "Unknown",
		MediaType:       "none",
	}
	if obj.From != nil {
		if obj.From.Name != "" {
			meta.FromUser = obj.From.Name
		}
		if obj.From.Picture != nil {
			meta.FromUserPicture = obj.From.Picture.Data.URL
		}
	}
	if obj.Attachments != nil && len(obj.Attachments.Data) > 0 {
		if obj.Attachments.Data[0].Type != "" {
			meta.MediaType = obj.Attachments.Data[0].Type
		}
		meta.MediaURL = obj.Attachments.Data[0].URL
	}
	return meta
}

// FetchInstagramUserDetails looks up the username and profile picture of the
// commenting user. Failures are returned to the caller, which degrades
// gracefully rather than dropping the mention.
func (c *GraphClient) FetchInstagramUserDetails(ctx context.Context, userID, accessToken string) (username, profilePicURL string, err error) {
	obj, err := c.getObject(ctx, userID, accessToken, instagramUserFields)
	if err != nil {
		return "", "", err
	}
	return obj.Username, obj.ProfilePicURL, nil
}

func (c *GraphClient) getObject(ctx context.Context, objectID, accessToken, fields string) (*graphObject, error) {
	u, err := url.Parse(fmt.Sprintf("%s/%s", c.baseURL, objectID))
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	q := u.Query()
	q.Set("fields", fields)
	q.Set("access_token", accessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph API returned status %d: %s", resp.StatusCode, string(body))
	}

	var obj graphObject
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &obj, nil
}

func fallbackMetadata(err error) PostMetadata {
	return PostMetadata{
		PostMessage:  "Unable to retrieve post content",
		FromUser:     "Unknown",
		MediaType:    "none",
		ErrorKind:    "fetch_failed",
		ErrorMessage: err.Error(),
	}
}
