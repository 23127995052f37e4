package models

import "time"

// Rating is a row in the avaliacoes table. Append-only: rows are never
// mutated after creation.
type Rating struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	ProductID int64     `json:"produto_id"`
	Nota      int       `json:"nota"`
	CreatedAt time.Time `json:"data_criacao"`
}

// ProductStats is a row in the produtos_stats table, maintained
// incrementally on every rating submission:
//
//	media = (media*total_avaliacoes + nota) / (total_avaliacoes + 1)
type ProductStats struct {
	ProductID       int64   `json:"produto_id"`
	TotalAvaliacoes int64   `json:"total_avaliacoes"`
	Media           float64 `json:"media"`
}
