package domain

import "time"

// Asset is one generated headshot that has been durably copied into owned
// storage. Identity is the composite (OrderID, Style, Idx); a retried webhook
// delivery reuses the same identity instead of duplicating the row.
type Asset struct {
	ID            string
	OrderID       string
	Style         Style
	Idx           int
	StorageKey    string
	URL           string
	JobProviderID string
	CreatedAt     time.Time
}
