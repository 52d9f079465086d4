package config

import (
	"os"
	"strconv"
	"strings"
)

// PageEntry is one indexed page configuration, read from the
// PAGE_ID_n / PAGE_NAME_n / PAGE_TOKEN_n / PAGE_IG_USERNAME_n tuple.
type PageEntry struct {
	PageID     string
	PageName   string
	PageToken  string
	IGUsername string
}

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Meta app configuration
	AppID           string
	AppSecret       string
	VerifyToken     string
	PageAccessToken string

	// Monitored business accounts
	BusinessIGUsername  string
	BusinessIGUsernames []string
	Pages               []PageEntry

	// Status returned when hub.mode or hub.verify_token is missing.
	// The platform accepts either 400 or 404 here.
	VerifyMissingStatus int

	// SMTP configuration
	EmailHost string
	EmailPort int
	EmailUser string
	EmailPass string
	EmailFrom string
	EmailTo   string
}

func LoadConfig() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		AppID:           getEnv("META_APP_ID", ""),
		AppSecret:       getEnv("META_APP_SECRET", ""),
		VerifyToken:     getEnv("META_VERIFY_TOKEN", ""),
		PageAccessToken: getEnv("META_PAGE_ACCESS_TOKEN", ""),

		BusinessIGUsername:  getEnv("BUSINESS_IG_USERNAME", ""),
		BusinessIGUsernames: splitList(getEnv("BUSINESS_IG_USERNAMES", "")),
		Pages:               loadPageEntries(),

		VerifyMissingStatus: verifyMissingStatus(),

		EmailHost: getEnv("EMAIL_HOST", ""),
		EmailPort: getEnvInt("EMAIL_PORT", 587),
		EmailUser: getEnv("EMAIL_USER", ""),
		EmailPass: getEnv("EMAIL_PASS", ""),
		EmailFrom: getEnv("EMAIL_FROM", ""),
		EmailTo:   getEnv("EMAIL_TO", ""),
	}

	return cfg
}

// loadPageEntries enumerates PAGE_ID_1, PAGE_ID_2, ... until the first
// missing index.
func loadPageEntries() []PageEntry {
	var entries []PageEntry
	for i := 1; ; i++ {
		suffix := "_" + strconv.Itoa(i)
		pageID := os.Getenv("PAGE_ID" + suffix)
		if pageID == "" {
			break
		}
		entries = append(entries, PageEntry{
			PageID:     pageID,
			PageName:   os.Getenv("PAGE_NAME" + suffix),
			PageToken:  os.Getenv("PAGE_TOKEN" + suffix),
			IGUsername: os.Getenv("PAGE_IG_USERNAME" + suffix),
		})
	}
	return entries
}

func verifyMissingStatus() int {
	if v, err := strconv.Atoi(getEnv("VERIFY_MISSING_PARAM_STATUS", "400")); err == nil {
		if v == 400 || v == 404 {
			return v
		}
	}
	return 400
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
