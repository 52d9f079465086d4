package webhooks

// WebhookEvent is the top-level webhook payload from the Meta platform.
type WebhookEvent struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry is one page or Instagram account entry in the payload.
type Entry struct {
	ID      string   `json:"id"`
	Time    int64    `json:"time"`
	Changes []Change `json:"changes,omitempty"`
}

// Change is a single field change event. Field discriminates the shape of
// Value: "feed" for Facebook page activity, "comments" for Instagram.
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue carries the union of the Facebook feed and Instagram comments
// value shapes; only the fields matching the enclosing Field are set.
type ChangeValue struct {
	// Facebook feed fields
	Item        string `json:"item,omitempty"`
	CommentID   string `json:"comment_id,omitempty"`
	PostID      string `json:"post_id,omitempty"`
	ParentID    string `json:"parent_id,omitempty"`
	Message     string `json:"message,omitempty"`
	CreatedTime int64  `json:"created_time,omitempty"`

	// Instagram comments fields
	ID    string `json:"id,omitempty"`
	Text  string `json:"text,omitempty"`
	Media *Media `json:"media,omitempty"`

	From *From `json:"from,omitempty"`
}

// From identifies the commenting user.
type From struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// Media identifies the Instagram media a comment belongs to.
type Media struct {
	ID               string `json:"id"`
	MediaProductType string `json:"media_product_type,omitempty"`
}
