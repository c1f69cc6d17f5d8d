package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/Spevacus/ChatExchange/chatexchange"
)

// Login runs the site-specific authentication sequence: fetch the auth
// host's login form, scrape its fkey, submit credentials, then
// bootstrap the chat host and capture the chat fkey every later POST
// needs.
func (c *Client) Login(ctx context.Context, site chatexchange.Site, creds chatexchange.Credentials) error {
	eps, ok := siteEndpoints[site]
	if !ok {
		return fmt.Errorf("no endpoints for site %q", string(site))
	}

	loginFkey, err := c.scrapeFkey(ctx, eps.Auth+"/users/login")
	if err != nil {
		return fmt.Errorf("fetch login form: %w", err)
	}

	if _, err := c.postForm(ctx, eps.Auth+"/users/login", url.Values{
		"email":    {creds.Email},
		"password": {creds.Password},
		"fkey":     {loginFkey},
	}); err != nil {
		return fmt.Errorf("submit credentials: %w", err)
	}

	chatFkey, err := c.scrapeFkey(ctx, eps.Chat+"/")
	if err != nil {
		return fmt.Errorf("bootstrap chat host: %w", err)
	}

	c.mu.Lock()
	c.chatHost = eps.Chat
	c.fkey = chatFkey
	c.mu.Unlock()

	c.logger.Info().Str("site", string(site)).Msg("Browser authenticated.")
	return nil
}

// scrapeFkey fetches a page and extracts the value of its hidden fkey
// input, the anti-forgery token the service requires on every POST.
func (c *Client) scrapeFkey(ctx context.Context, pageURL string) (string, error) {
	body, err := c.get(ctx, pageURL)
	if err != nil {
		return "", err
	}
	fkey, ok := findFkey(body)
	if !ok {
		return "", fmt.Errorf("no fkey input on %s", pageURL)
	}
	return fkey, nil
}

func findFkey(page string) (string, bool) {
	tok := html.NewTokenizer(strings.NewReader(page))
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			return "", false
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := tok.TagName()
		if string(name) != "input" || !hasAttr {
			continue
		}

		var isFkey bool
		var value string
		for {
			key, val, more := tok.TagAttr()
			switch string(key) {
			case "name":
				isFkey = string(val) == "fkey"
			case "value":
				value = string(val)
			}
			if !more {
				break
			}
		}
		if isFkey {
			return value, true
		}
	}
}
