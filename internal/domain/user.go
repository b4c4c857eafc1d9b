package domain

import "time"

// User mirrors an identity-provider account. Rows are materialized lazily on
// the first cart or checkout interaction; the id is provider-issued.
type User struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
