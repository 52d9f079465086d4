package services

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"mention-bot/config"
)

// Channel is a single notification delivery mechanism. Channels fail
// independently; a failing channel never blocks its siblings.
type Channel interface {
	Name() string
	Notify(mention ResolvedMention, meta PostMetadata) error
}

// SendAllNotifications fans a resolved mention out to every configured
// channel. Failures are logged and swallowed here; there is nobody upstream
// to surface them to once the webhook has been acknowledged.
func SendAllNotifications(mention ResolvedMention, meta PostMetadata, channels ...Channel) {
	for _, ch := range channels {
		if err := ch.Notify(mention, meta); err != nil {
			slog.Error("Notification channel failed",
				"channel", ch.Name(), "platform", mention.Platform,
				"commentID", mention.CommentID, "error", err)
			continue
		}
		slog.Info("Notification sent",
			"channel", ch.Name(), "platform", mention.Platform,
			"commentID", mention.CommentID)
	}
}

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier delivers mention notifications over SMTP.
type EmailNotifier struct {
	from   string
	to     string
	sender mailSender
}

func NewEmailNotifier(cfg *config.Config) *EmailNotifier {
	return &EmailNotifier{
		from:   cfg.EmailFrom,
		to:     cfg.EmailTo,
		sender: gomail.NewDialer(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass),
	}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(mention ResolvedMention, meta PostMetadata) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", n.to)
	msg.SetHeader("Subject", formatSubject(mention))
	msg.SetBody("text/html", formatMentionHTML(mention, meta))

	return n.sender.DialAndSend(msg)
}

// SendMentionNotification sends the email and reports success. A transport
// failure is logged and converted to false, never propagated.
func (n *EmailNotifier) SendMentionNotification(mention ResolvedMention, meta PostMetadata) bool {
	if err := n.Notify(mention, meta); err != nil {
		slog.Error("Failed to send email notification",
			"platform", mention.Platform, "commentID", mention.CommentID, "error", err)
		return false
	}
	slog.Info("Email notification sent",
		"platform", mention.Platform, "commentID", mention.CommentID)
	return true
}

func formatSubject(mention ResolvedMention) string {
	mentionType := mention.MentionType
	if mentionType == "" {
		mentionType = "comment"
	}
	account := mention.MentionedUsername
	if account == "" {
		account = "your account"
	}
	return fmt.Sprintf("New %s %s mention for %s", titleCase(mention.Platform), mentionType, account)
}

func formatMentionHTML(mention ResolvedMention, meta PostMetadata) string {
	platform := titleCase(mention.Platform)
	mentionType := mention.MentionType
	if mentionType == "" {
		mentionType = "comment"
	}

	displayTime := meta.PostCreatedTime
	if displayTime == "" {
		displayTime = time.Unix(mention.Timestamp, 0).UTC().Format("Jan 2, 2006 3:04 PM MST")
	}

	content := meta.PostMessage
	if content == "" {
		content = "No caption/text"
	}

	var mediaSection string
	if meta.MediaURL != "" && meta.MediaType != "" && meta.MediaType != "none" {
		mediaSection = fmt.Sprintf(`
        <div style="margin: 20px 0; padding: 10px; border: 1px solid #ddd; border-radius: 5px; background-color: #f9f9f9;">
          <h3>Media Content:</h3>
          <p><strong>Type:</strong> %s</p>
          <p><strong>Media Link:</strong> <a href="%s" target="_blank">View Media</a></p>
        </div>`, meta.MediaType, meta.MediaURL)
	}

	return fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #eee; border-radius: 5px;">
        <h2 style="color: #3b5998; border-bottom: 1px solid #eee; padding-bottom: 10px;">You were mentioned on %s</h2>

        <div style="margin: 20px 0;">
          <p><strong>Time:</strong> %s</p>
          <p><strong>By User:</strong> %s</p>
          <p><strong>Mention Type:</strong> %s</p>
        </div>

        <div style="margin: 20px 0; padding: 15px; background-color: #f0f2f5; border-radius: 5px;">
          <h3>Content:</h3>
          <p style="white-space: pre-wrap;">%s</p>
        </div>
        %s
        <div style="margin: 20px 0;">
          <a href="%s" style="background-color: #3b5998; color: white; padding: 10px 15px; text-decoration: none; border-radius: 4px; display: inline-block;">
            View Original Post
          </a>
        </div>

        <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
        <p style="color: #777; font-size: 12px;"><em>This is an automated notification from your social media webhook monitor.</em></p>
      </div>`,
		platform, displayTime, meta.FromUser, titleCase(mentionType), content, mediaSection, meta.PostURL)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
