package browser

import (
	"encoding/json"

	"github.com/Spevacus/ChatExchange/chatexchange"
)

// endpoints are the hosts one site variant talks to: the auth host that
// serves the login form and the chat host everything else lives on.
type endpoints struct {
	Auth string
	Chat string
}

var siteEndpoints = map[chatexchange.Site]endpoints{
	chatexchange.SiteStackExchange: {
		Auth: "https://openid.stackexchange.com",
		Chat: "https://chat.stackexchange.com",
	},
	chatexchange.SiteStackOverflow: {
		Auth: "https://stackoverflow.com",
		Chat: "https://chat.stackoverflow.com",
	},
	chatexchange.SiteMetaStackExchange: {
		Auth: "https://meta.stackexchange.com",
		Chat: "https://chat.meta.stackexchange.com",
	},
}

// joinResponse carries the event cursor returned when joining a room.
type joinResponse struct {
	Time int64 `json:"time"`
}

// wsAuthResponse carries the websocket URL for a room's push feed.
type wsAuthResponse struct {
	URL string `json:"url"`
}

// decodeJSON decodes a response body into target.
func decodeJSON(body string, v any) error {
	return json.Unmarshal([]byte(body), v)
}
