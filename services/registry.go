package services

import (
	"log/slog"
	"strings"

	"mention-bot/config"
)

// Account is one monitored business account. The same *Account is shared
// between the page-id and username maps.
type Account struct {
	PageID   string
	Name     string
	Token    string
	Username string
}

// Registry holds the monitored accounts, built once at startup and
// read-only afterwards.
type Registry struct {
	byPageID   map[string]*Account
	byUsername map[string]*Account
	pageIDs    []string
	usernames  []string // lowercased, in registration order
}

// BuildRegistry assembles the account registry from configuration. It never
// fails: malformed or missing values just produce an absent entry, and an
// empty registry is valid.
func BuildRegistry(cfg *config.Config) *Registry {
	reg := &Registry{
		byPageID:   make(map[string]*Account),
		byUsername: make(map[string]*Account),
	}

	for _, entry := range cfg.Pages {
		acct := &Account{
			PageID:   entry.PageID,
			Name:     entry.PageName,
			Token:    entry.PageToken,
			Username: entry.IGUsername,
		}
		reg.byPageID[entry.PageID] = acct
		reg.pageIDs = append(reg.pageIDs, entry.PageID)

		if entry.IGUsername != "" {
			reg.registerUsername(entry.IGUsername, acct)
			slog.Info("Linked Instagram username to page",
				"username", entry.IGUsername, "pageID", entry.PageID)
		}
	}

	// Comma-separated usernames borrow the token of a matching page entry;
	// names with no matching entry are dropped.
	for _, username := range cfg.BusinessIGUsernames {
		if _, ok := reg.byUsername[strings.ToLower(username)]; ok {
			continue
		}
		matched := false
		for _, entry := range cfg.Pages {
			if strings.EqualFold(entry.IGUsername, username) {
				reg.registerUsername(username, reg.byPageID[entry.PageID])
				matched = true
				break
			}
		}
		if !matched {
			slog.Warn("No page configuration found for Instagram username, dropping",
				"username", username)
		}
	}

	// The single statically configured username falls back to the
	// app-level page access token.
	if cfg.BusinessIGUsername != "" {
		if _, ok := reg.byUsername[strings.ToLower(cfg.BusinessIGUsername)]; !ok {
			reg.registerUsername(cfg.BusinessIGUsername, &Account{
				Token:    cfg.PageAccessToken,
				Username: cfg.BusinessIGUsername,
			})
		}
	}

	return reg
}

func (r *Registry) registerUsername(username string, acct *Account) {
	key := strings.ToLower(username)
	if acct.Username == "" {
		acct.Username = username
	}
	r.byUsername[key] = acct
	r.usernames = append(r.usernames, key)
}

// ByPageID returns the account for a page id, or nil.
func (r *Registry) ByPageID(pageID string) *Account {
	return r.byPageID[pageID]
}

// ByUsername returns the account for a business username, or nil. Lookup is
// case-insensitive.
func (r *Registry) ByUsername(username string) *Account {
	return r.byUsername[strings.ToLower(username)]
}

// Usernames returns the registered usernames in registration order.
func (r *Registry) Usernames() []string {
	out := make([]string, len(r.usernames))
	copy(out, r.usernames)
	return out
}

// PageIDs returns the configured page ids in registration order.
func (r *Registry) PageIDs() []string {
	out := make([]string, len(r.pageIDs))
	copy(out, r.pageIDs)
	return out
}

// Len reports the number of registered usernames.
func (r *Registry) Len() int {
	return len(r.usernames)
}

// MatchMention scans a comment text for an @username mention of any
// registered account. The scan is case-insensitive and the first account in
// registration order wins. Returns nil when no registered account is
// mentioned.
func (r *Registry) MatchMention(text string) *Account {
	if text == "" {
		return nil
	}
	lowered := strings.ToLower(text)
	for _, username := range r.usernames {
		if strings.Contains(lowered, "@"+username) {
			return r.byUsername[username]
		}
	}
	return nil
}
