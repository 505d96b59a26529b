package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FilesystemStore implements Store on a local directory. Object bytes live
// under root/data, metadata sidecars under root/meta. Keys may contain
// forward slashes; they map to nested directories.
type FilesystemStore struct {
	root string
}

// NewFilesystem returns a filesystem-backed store rooted at root (default
// ./blobdata).
func NewFilesystem(root string) (*FilesystemStore, error) {
	if root == "" {
		root = "blobdata"
	}
	for _, dir := range []string{filepath.Join(root, "data"), filepath.Join(root, "meta")} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create blob root: %w", err)
		}
	}
	return &FilesystemStore{root: root}, nil
}

// Driver returns the blob driver identifier.
func (s *FilesystemStore) Driver() Driver { return DriverFilesystem }

// Root returns the configured root directory.
func (s *FilesystemStore) Root() string { return s.root }

func (s *FilesystemStore) dataPath(key string) (string, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, "data", filepath.FromSlash(clean)), nil
}

func (s *FilesystemStore) metaPath(key string) (string, error) {
	clean, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.root, "meta", filepath.FromSlash(clean)+".json"), nil
}

func sanitizeKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("blob key required")
	}
	clean := path.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", fmt.Errorf("invalid blob key %q", key)
	}
	return clean, nil
}

// Put stores a blob, overwriting any previous object at the key.
func (s *FilesystemStore) Put(_ context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	dataPath, err := s.dataPath(key)
	if err != nil {
		return Info{}, err
	}
	metaPath, err := s.metaPath(key)
	if err != nil {
		return Info{}, err
	}
	for _, p := range []string{dataPath, metaPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
			return Info{}, fmt.Errorf("create blob dirs: %w", err)
		}
	}

	f, err := os.CreateTemp(filepath.Dir(dataPath), ".upload-*")
	if err != nil {
		return Info{}, err
	}
	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(f.Name())
		return Info{}, err
	}
	if err := os.Rename(f.Name(), dataPath); err != nil {
		_ = os.Remove(f.Name())
		return Info{}, err
	}

	info := Info{
		Key:          key,
		Size:         size,
		ContentType:  opts.ContentType,
		Metadata:     cloneMetadata(opts.Metadata),
		LastModified: time.Now().UTC(),
	}
	encoded, err := json.Marshal(info)
	if err != nil {
		return Info{}, err
	}
	if err := os.WriteFile(metaPath, encoded, 0o640); err != nil {
		return Info{}, err
	}
	return info, nil
}

// Get returns blob metadata and a read closer to its content.
func (s *FilesystemStore) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	info, err := s.Head(ctx, key)
	if err != nil {
		return Info{}, nil, err
	}
	dataPath, err := s.dataPath(key)
	if err != nil {
		return Info{}, nil, err
	}
	f, err := os.Open(dataPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, nil, fmt.Errorf("blob %s: %w", key, ErrNotFound)
		}
		return Info{}, nil, err
	}
	return info, f, nil
}

// Head returns blob metadata only.
func (s *FilesystemStore) Head(_ context.Context, key string) (Info, error) {
	metaPath, err := s.metaPath(key)
	if err != nil {
		return Info{}, err
	}
	encoded, err := os.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Info{}, fmt.Errorf("blob %s: %w", key, ErrNotFound)
		}
		return Info{}, err
	}
	var info Info
	if err := json.Unmarshal(encoded, &info); err != nil {
		return Info{}, fmt.Errorf("decode blob metadata: %w", err)
	}
	return info, nil
}

// Delete removes the blob returning true if it existed.
func (s *FilesystemStore) Delete(_ context.Context, key string) (bool, error) {
	dataPath, err := s.dataPath(key)
	if err != nil {
		return false, err
	}
	metaPath, err := s.metaPath(key)
	if err != nil {
		return false, err
	}
	existed := true
	if err := os.Remove(dataPath); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return false, err
		}
		existed = false
	}
	if err := os.Remove(metaPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return existed, err
	}
	return existed, nil
}

// List returns all blobs matching prefix ordered by key.
func (s *FilesystemStore) List(ctx context.Context, prefix string) ([]Info, error) {
	metaRoot := filepath.Join(s.root, "meta")
	var out []Info
	err := filepath.WalkDir(metaRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		rel, err := filepath.Rel(metaRoot, path)
		if err != nil {
			return err
		}
		key := strings.TrimSuffix(filepath.ToSlash(rel), ".json")
		if prefix != "" && !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := s.Head(ctx, key)
		if err != nil {
			return err
		}
		out = append(out, info)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// PresignURL returns unsupported for the filesystem driver.
func (s *FilesystemStore) PresignURL(_ context.Context, _ string, _ SignedURLOptions) (string, error) {
	return "", ErrUnsupported
}
