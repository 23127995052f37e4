package models

import "time"

// ClickCounter is a row in the clicks table, keyed by account email.
// ClicksToday is reset implicitly by the upsert when LastClickAt rolls over
// to a new day.
type ClickCounter struct {
	Email       string
	TotalClicks int64
	ClicksToday int64
	LastClickAt *time.Time // data_ultimo_click, nil until the first click
}
