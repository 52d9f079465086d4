package webhooks

import (
	"log/slog"

	"mention-bot/services"
)

// ResolveMention decides whether a webhook change represents a mention of a
// monitored account. Checks run in strict order and short-circuit to nil at
// the first failure. The function is pure: the same change, entry time, and
// registry always produce a structurally equal result.
func ResolveMention(change Change, entryTime int64, reg *services.Registry) *services.ResolvedMention {
	switch change.Field {
	case "feed":
		if change.Value.Item != "comment" {
			return nil
		}
		return resolveComment(services.PlatformFacebook, change.Value, entryTime, reg)
	case "comments":
		return resolveComment(services.PlatformInstagram, change.Value, entryTime, reg)
	case "mention", "mentions":
		// Legacy subscription fields, not part of the reconciled pipeline.
		slog.Debug("Ignoring legacy mention field", "field", change.Field)
		return nil
	default:
		slog.Debug("Ignoring unsupported field", "field", change.Field)
		return nil
	}
}

func resolveComment(platform string, value ChangeValue, entryTime int64, reg *services.Registry) *services.ResolvedMention {
	text := value.Message
	commentID := value.CommentID
	postID := value.PostID
	if platform == services.PlatformInstagram {
		text = value.Text
		commentID = value.ID
		postID = ""
		if value.Media != nil {
			postID = value.Media.ID
		}
	}

	account := reg.MatchMention(text)
	if account == nil {
		if reg.Len() > 0 && text != "" {
			slog.Info("No known account mentioned in comment",
				"platform", platform, "commentID", commentID)
		}
		return nil
	}

	mention := &services.ResolvedMention{
		Platform:          platform,
		PostID:            postID,
		CommentID:         commentID,
		CommentText:       text,
		MentionedUsername: account.Username,
		MentionType:       "comment",
		Timestamp:         entryTime,
	}
	if value.From != nil {
		mention.TaggerID = value.From.ID
		mention.TaggerName = value.From.Name
		mention.TaggerUsername = value.From.Username
	}

	slog.Info("Mention detected",
		"platform", platform, "commentID", commentID,
		"account", account.Username)

	return mention
}
