package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/config"
	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/extract"
	"github.com/SauryaManandharSun/Ai-Resume-Analyzer/internal/notify"
)

func TestLoadDocumentLocalFile(t *testing.T) {
	src := filepath.Join(t.TempDir(), "Jane_Doe.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.7"), 0o600))

	doc, err := loadDocument(context.Background(), &config.Config{}, src)
	require.NoError(t, err)
	assert.Equal(t, "Jane_Doe.pdf", doc.Name)
	assert.Equal(t, extract.MIMEPDF, doc.MIME)
	assert.Equal(t, []byte("%PDF-1.7"), doc.Data)
}

func TestLoadDocumentObjectWithoutCredentials(t *testing.T) {
	_, err := loadDocument(context.Background(), &config.Config{}, "r2://resumes/cv.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R2_ACCESS_KEY")
}

func TestNewNotifierDefaultsToLog(t *testing.T) {
	n, closeFn := newNotifier(&config.Config{})
	defer closeFn()
	assert.Equal(t, notify.Log{}, n)
}
