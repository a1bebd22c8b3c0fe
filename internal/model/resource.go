package model

type Resource struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	Content     string `json:"content,omitempty"`
}
