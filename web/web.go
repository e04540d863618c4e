package web

import (
	"embed"
	"io/fs"
)

//go:embed pages/*
var pagesFS embed.FS

// GetPagesFS returns the embedded pages filesystem
func GetPagesFS() fs.FS {
	sub, _ := fs.Sub(pagesFS, "pages")
	return sub
}
