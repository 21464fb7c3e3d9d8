package blob

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/HouseGram-code/HouseGram-sub000/pkg/logger"
)

// Categories namespace uploaded binaries by kind.
const (
	CategoryMedia = "media"
	CategoryFiles = "files"
	CategoryAudio = "audio"
)

// Store is a filesystem blob store. Paths are caller-chosen within the
// category namespaces; no server-side content validation. Identical files
// produce distinct stored copies — names are not content hashes, no dedup.
type Store struct {
	root string
}

// Open prepares the blob directories under root.
func Open(root string) (*Store, error) {
	for _, c := range []string{CategoryMedia, CategoryFiles, CategoryAudio} {
		if err := os.MkdirAll(filepath.Join(root, c), 0o700); err != nil {
			return nil, fmt.Errorf("cannot create blob dir %s: %w", c, err)
		}
	}
	return &Store{root: root}, nil
}

func validCategory(c string) bool {
	return c == CategoryMedia || c == CategoryFiles || c == CategoryAudio
}

// Upload stores the reader's bytes under category/name and returns the
// retrievable URL path plus the stored byte size.
func (s *Store) Upload(category, name string, r io.Reader) (string, int64, error) {
	if !validCategory(category) {
		return "", 0, fmt.Errorf("unknown blob category: %s", category)
	}
	name = filepath.Base(name)
	if name == "" || name == "." || strings.ContainsAny(name, "/\\") {
		return "", 0, fmt.Errorf("invalid blob name: %q", name)
	}
	dst := filepath.Join(s.root, category, name)
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", 0, fmt.Errorf("blob create failed: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", 0, fmt.Errorf("blob write failed: %w", err)
	}
	logger.Debug("blob_stored", "category", category, "name", name, "bytes", n)
	return "/blobs/" + category + "/" + name, n, nil
}

// Size returns the stored byte size for a previously uploaded blob URL.
func (s *Store) Size(url string) (int64, error) {
	rel := strings.TrimPrefix(url, "/blobs/")
	fi, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// Handler serves stored blobs read-only under /blobs/.
func (s *Store) Handler() http.Handler {
	return http.StripPrefix("/blobs/", http.FileServer(http.Dir(s.root)))
}
