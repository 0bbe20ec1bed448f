// Package uploader stores profile pictures and returns a public URL. The
// production deployment points this at object storage; Local keeps the same
// contract on a plain directory.
package uploader

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type Uploader interface {
	Upload(ctx context.Context, dataURL string) (string, error)
}

type Local struct {
	Dir     string
	BaseURL string
}

func NewLocal(dir, baseURL string) *Local {
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}
}

// Upload decodes a base64 data URL ("data:image/png;base64,....") and writes
// it under Dir with a generated name.
func (l *Local) Upload(ctx context.Context, dataURL string) (string, error) {
	meta, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return "", fmt.Errorf("not a data url")
	}
	blob, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decoding image: %w", err)
	}
	name := uuid.NewString() + extension(meta)
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(l.Dir, name), blob, 0o644); err != nil {
		return "", err
	}
	return l.BaseURL + "/" + name, nil
}

func extension(meta string) string {
	mediaType := strings.TrimPrefix(meta, "data:")
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
