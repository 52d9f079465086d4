package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mention-bot/config"
)

func twoPageConfig() *config.Config {
	return &config.Config{
		Pages: []config.PageEntry{
			{PageID: "111", PageName: "First Page", PageToken: "token-1", IGUsername: "FirstBrand"},
			{PageID: "222", PageName: "Second Page", PageToken: "token-2", IGUsername: "secondbrand"},
		},
	}
}

func TestBuildRegistryPagesAndUsernames(t *testing.T) {
	reg := BuildRegistry(twoPageConfig())

	first := reg.ByPageID("111")
	require.NotNil(t, first)
	assert.Equal(t, "First Page", first.Name)
	assert.Equal(t, "token-1", first.Token)

	// Both maps share the same record, keyed case-insensitively.
	assert.Same(t, first, reg.ByUsername("firstbrand"))
	assert.Same(t, first, reg.ByUsername("FIRSTBRAND"))

	assert.Equal(t, []string{"firstbrand", "secondbrand"}, reg.Usernames())
	assert.Equal(t, []string{"111", "222"}, reg.PageIDs())
	assert.Equal(t, 2, reg.Len())
}

func TestBuildRegistryDropsUnmatchedExtraUsernames(t *testing.T) {
	cfg := twoPageConfig()
	cfg.BusinessIGUsernames = []string{"SECONDBRAND", "ghostbrand"}

	reg := BuildRegistry(cfg)

	// secondbrand was already registered via its page entry; ghostbrand has
	// no page configuration to borrow a token from and is dropped.
	assert.Equal(t, 2, reg.Len())
	assert.Nil(t, reg.ByUsername("ghostbrand"))
}

func TestBuildRegistrySingleUsernameFallsBackToAppToken(t *testing.T) {
	cfg := &config.Config{
		BusinessIGUsername: "solobrand",
		PageAccessToken:    "app-token",
	}

	reg := BuildRegistry(cfg)

	acct := reg.ByUsername("SoloBrand")
	require.NotNil(t, acct)
	assert.Equal(t, "app-token", acct.Token)
	assert.Equal(t, 1, reg.Len())
}

func TestBuildRegistryEmptyIsValid(t *testing.T) {
	reg := BuildRegistry(&config.Config{})

	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Usernames())
	assert.Nil(t, reg.MatchMention("hello @anyone out there"))
}

func TestMatchMentionCaseInsensitive(t *testing.T) {
	reg := BuildRegistry(twoPageConfig())

	acct := reg.MatchMention("Great service from @FIRSTBRAND today")
	require.NotNil(t, acct)
	assert.Equal(t, "FirstBrand", acct.Username)
}

func TestMatchMentionFirstRegisteredWins(t *testing.T) {
	reg := BuildRegistry(twoPageConfig())

	// Both accounts appear in the text; the account registered first wins,
	// deterministically across repeated runs.
	text := "cc @secondbrand and @firstbrand"
	for i := 0; i < 10; i++ {
		acct := reg.MatchMention(text)
		require.NotNil(t, acct)
		assert.Equal(t, "FirstBrand", acct.Username)
	}
}

func TestMatchMentionNoMatch(t *testing.T) {
	reg := BuildRegistry(twoPageConfig())

	assert.Nil(t, reg.MatchMention("no handles here"))
	assert.Nil(t, reg.MatchMention("mentions @someoneelse only"))
	assert.Nil(t, reg.MatchMention(""))
}
