// Package assets manages the shared directory of uploaded binary files
// (profile photo, company logos). Files are keyed by their original
// filename; re-uploading a name replaces the file.
package assets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gerakolix/cvforge/internal/utils"
)

// MaxUploadSize caps uploaded assets at 5 MiB.
const MaxUploadSize = 5 << 20

// allowedExtensions lists the file types the LaTeX template can embed.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
	".svg":  true,
}

type Store struct {
	dir string
}

// New ensures the asset directory exists.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Allowed reports whether a filename has an embeddable extension.
func Allowed(name string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// List returns the names of all files currently in the store.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read assets dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Save stores an uploaded file under its original (base) name.
// The extension must be on the allow-list.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	name = filepath.Base(name)
	if !Allowed(name) {
		return "", fmt.Errorf("file type not allowed: %s", name)
	}

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create asset %s: %w", name, err)
	}
	defer utils.Close(dst)

	if _, err := io.Copy(dst, io.LimitReader(r, MaxUploadSize)); err != nil {
		return "", fmt.Errorf("write asset %s: %w", name, err)
	}
	return name, nil
}

// CopyAll flat-copies every file in the store into dst. The whole store is
// copied regardless of what the document references; the generated LaTeX
// only pulls in the files it names.
func (s *Store) CopyAll(dst string) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read assets dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := copyFile(filepath.Join(s.dir, e.Name()), filepath.Join(dst, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer utils.Close(in)

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
