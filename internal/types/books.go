package types

// Book is a single book search hit.
type Book struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Download    string   `json:"download"`
}

// BookSearchResponse is the Gateway's book search envelope.
type BookSearchResponse struct {
	Status string `json:"status"`
	Books  []Book `json:"books"`
}

// Book search queries used when the user has not typed one.
const (
	DefaultBookQuery = "Python"
	ResetBookQuery   = "Technology"
)
