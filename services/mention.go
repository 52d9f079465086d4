package services

const (
	PlatformFacebook  = "facebook"
	PlatformInstagram = "instagram"
)

// ResolvedMention is a comment event confirmed to mention one of the
// monitored accounts. It is never mutated after construction; enrichment
// works on a copy.
type ResolvedMention struct {
	Platform            string
	PostID              string
	CommentID           string
	CommentText         string
	TaggerID            string
	TaggerName          string
	TaggerUsername      string
	TaggerProfilePicURL string
	MentionedUsername   string
	MentionType         string
	Timestamp           int64 // unix seconds, from the webhook entry
}
