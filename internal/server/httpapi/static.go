package httpapi

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed public/*
var content embed.FS

var publicFS = mustSubFS(content, "public")

func mustSubFS(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// staticHandler serves the embedded landing page and assets.
func staticHandler() http.Handler {
	return http.FileServer(http.FS(publicFS))
}
