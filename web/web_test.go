package web

import (
	"io/fs"
	"testing"
)

func TestEmbeddedPagesExist(t *testing.T) {
	pagesFS := GetPagesFS()

	requiredFiles := []string{
		"index.html",
		"admin.html",
		"projector.html",
	}

	for _, file := range requiredFiles {
		_, err := fs.Stat(pagesFS, file)
		if err != nil {
			t.Errorf("required page %q not found: %v", file, err)
		}
	}
}

func TestPagesReadable(t *testing.T) {
	pagesFS := GetPagesFS()

	content, err := fs.ReadFile(pagesFS, "index.html")
	if err != nil {
		t.Fatalf("failed to read index.html: %v", err)
	}
	if len(content) == 0 {
		t.Error("index.html is empty")
	}
}
