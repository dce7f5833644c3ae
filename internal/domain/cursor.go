// Package domain defines the records and view state shared by the admin console.
package domain

// PageCursor is the continuation point returned by a paginated endpoint.
type PageCursor struct {
	// LastID id of the last row of the previous page. Empty means "first page".
	LastID string `json:"lastId,omitempty"`
	// LastCreatedAt creation time of the last row, sent by some endpoints as a tie breaker.
	LastCreatedAt string `json:"lastCreatedAt,omitempty"`
	// HasNext reports whether the server has more rows after LastID.
	HasNext bool `json:"hasNext"`
}

// IsZero reports whether the cursor points at the first page.
func (c PageCursor) IsZero() bool {
	return c.LastID == "" && c.LastCreatedAt == ""
}

// Page is a single page of rows together with the cursor to the next one.
type Page[T any] struct {
	Rows   []T
	Cursor PageCursor
	// Total is only filled by endpoints that count (page/offset style).
	Total int64
}
