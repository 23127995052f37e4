package models

import "time"

// Ad is a row in the anuncios table.
type Ad struct {
	ID        int64     `json:"id"`
	Titulo    string    `json:"titulo"`
	Descricao string    `json:"descricao,omitempty"`
	URL       string    `json:"url"`
	Imagem    string    `json:"imagem,omitempty"`
	Categoria string    `json:"categoria,omitempty"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"data_criacao"`
}

// Product is a row in the produtos table.
type Product struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	Descricao string    `json:"descricao,omitempty"`
	Imagem    string    `json:"imagem,omitempty"`
	Categoria string    `json:"categoria,omitempty"`
	Ativo     bool      `json:"ativo"`
	CreatedAt time.Time `json:"data_criacao"`
}
