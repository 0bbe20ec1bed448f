package uploader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUpload(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "http://localhost:8080/uploads/")

	// "hi" base64-encoded
	url, err := l.Upload(context.Background(), "data:image/png;base64,aGk=")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	name := url[strings.LastIndex(url, "/")+1:]
	blob, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(blob))
}

func TestLocalUploadRejectsBadInput(t *testing.T) {
	l := NewLocal(t.TempDir(), "/uploads")

	_, err := l.Upload(context.Background(), "not a data url")
	assert.Error(t, err)

	_, err = l.Upload(context.Background(), "data:image/png;base64,!!!")
	assert.Error(t, err)
}
