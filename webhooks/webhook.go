package webhooks

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"mention-bot/config"
	"mention-bot/services"
)

// Pipeline drives a webhook event through resolution, enrichment, and
// notification dispatch.
type Pipeline struct {
	cfg      *config.Config
	registry *services.Registry
	graph    *services.GraphClient
	channels []services.Channel
}

func NewPipeline(cfg *config.Config, reg *services.Registry, graph *services.GraphClient, channels ...services.Channel) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		registry: reg,
		graph:    graph,
		channels: channels,
	}
}

func RegisterRoutes(app *fiber.App, p *Pipeline) {
	webhook := app.Group("/webhook")

	// Webhook verification endpoint
	webhook.Get("/", verifyWebhook(p.cfg))

	// Webhook event handler
	webhook.Post("/", handleWebhookEvent(p))
}

// verifyWebhook handles the subscription challenge handshake.
func verifyWebhook(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mode := c.Query("hub.mode")
		token := c.Query("hub.verify_token")
		challenge := c.Query("hub.challenge")

		if mode == "" || token == "" {
			slog.Warn("Webhook verification failed - missing parameters")
			return c.SendStatus(cfg.VerifyMissingStatus)
		}

		if mode == "subscribe" && token == cfg.VerifyToken {
			slog.Info("Webhook verified successfully")
			return c.SendString(challenge)
		}

		slog.Warn("Webhook verification failed - invalid token", "mode", mode)
		return c.SendStatus(fiber.StatusForbidden)
	}
}

// handleWebhookEvent acknowledges the event immediately and processes it in
// the background; nothing downstream can change the already-sent response.
func handleWebhookEvent(p *Pipeline) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body WebhookEvent
		if err := c.BodyParser(&body); err != nil {
			slog.Error("Failed to parse webhook body", "error", err)
			return c.SendStatus(fiber.StatusBadRequest)
		}

		go p.processEvent(body)

		return c.SendString("EVENT_RECEIVED")
	}
}

func (p *Pipeline) processEvent(body WebhookEvent) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic while processing webhook event", "panic", r)
		}
	}()

	if body.Object != "page" && body.Object != "instagram" {
		slog.Info("Received webhook for unsupported object", "object", body.Object)
		return
	}

	// Entries are processed one at a time; a slow enrichment call delays
	// later entries but the acknowledgement is already out.
	for _, entry := range body.Entry {
		p.processEntry(entry)
	}
}

func (p *Pipeline) processEntry(entry Entry) {
	for _, change := range entry.Changes {
		mention := ResolveMention(change, entry.Time, p.registry)
		if mention == nil {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		enriched, meta := p.enrich(ctx, *mention)
		cancel()

		services.SendAllNotifications(enriched, meta, p.channels...)
	}
}

// enrich fetches post metadata and, for Instagram, tagger details. A fetch
// failure degrades to the fallback metadata record; the mention itself
// survives. The input mention is not modified.
func (p *Pipeline) enrich(ctx context.Context, mention services.ResolvedMention) (services.ResolvedMention, services.PostMetadata) {
	token := p.cfg.PageAccessToken
	if acct := p.registry.ByUsername(mention.MentionedUsername); acct != nil && acct.Token != "" {
		token = acct.Token
	}

	fields := services.FacebookPostFields
	if mention.Platform == services.PlatformInstagram {
		fields = services.InstagramMediaFields
	}

	meta := p.graph.FetchObjectMetadata(ctx, mention.Platform, mention.PostID, token, fields)

	if mention.Platform == services.PlatformInstagram && mention.TaggerID != "" {
		username, picURL, err := p.graph.FetchInstagramUserDetails(ctx, mention.TaggerID, token)
		if err != nil {
			slog.Warn("Failed to fetch tagger details",
				"taggerID", mention.TaggerID, "error", err)
		} else {
			if username != "" {
				mention.TaggerUsername = username
			}
			mention.TaggerProfilePicURL = picURL
		}
	}

	return mention, meta
}
