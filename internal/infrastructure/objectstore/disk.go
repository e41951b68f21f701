package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var ErrInvalidPath = errors.New("objectstore: path escapes bucket")

// Store is a private object store: bucket-scoped writes, no public read URL.
type Store interface {
	Save(ctx context.Context, bucket, path string, r io.Reader) (int64, error)
	Open(ctx context.Context, bucket, path string) (io.ReadCloser, error)
}

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeComponent makes a string safe to embed as one path segment.
func SanitizeComponent(s string) string {
	s = strings.TrimSpace(s)
	s = reUnsafe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "._")
	if s == "" {
		return "unnamed"
	}
	return s
}

// BuildDocumentPath yields
// <ownerId>/<submissionId>/<sanitizedDocType>/<timestamp>_<sanitizedFilename>.
func BuildDocumentPath(ownerID, submissionID, docType, filename string, now time.Time) string {
	return fmt.Sprintf("%s/%s/%s/%d_%s",
		ownerID, submissionID,
		SanitizeComponent(docType),
		now.UTC().UnixMilli(),
		SanitizeComponent(filename))
}

// Disk stores objects under root/<bucket>/<path>.
type Disk struct{ root string }

func NewDisk(root string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &Disk{root: abs}, nil
}

var _ Store = (*Disk)(nil)

func (d *Disk) resolve(bucket, path string) (string, error) {
	base := filepath.Join(d.root, SanitizeComponent(bucket))
	full := filepath.Join(base, filepath.FromSlash(path))
	if !strings.HasPrefix(full, base+string(os.PathSeparator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}

func (d *Disk) Save(ctx context.Context, bucket, path string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	full, err := d.resolve(bucket, path)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return 0, err
	}
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(full)
		return 0, err
	}
	return n, nil
}

func (d *Disk) Open(ctx context.Context, bucket, path string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := d.resolve(bucket, path)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}
