package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"esgate/internal/diag"
)

// ErrInvalidFileURL is returned for file URLs that do not name a local path.
var ErrInvalidFileURL = errors.New("invalid file URL")

// DefaultExtensions are tried, in order, when a specifier has no match as
// written.
var DefaultExtensions = []string{".js", ".mjs", ".cjs", ".ts", ".json"}

// FileResolver is a terminal resolver over the local filesystem.
type FileResolver struct {
	Extensions []string
	// IndexName is the file looked up inside a directory, without extension.
	IndexName string
}

// NewFileResolver returns a resolver probing DefaultExtensions and index files.
func NewFileResolver() *FileResolver {
	return &FileResolver{Extensions: DefaultExtensions, IndexName: "index"}
}

// Resolve implements Next. Specifiers that are neither URLs nor rooted or
// relative paths resolve to nothing.
func (r *FileResolver) Resolve(ctx context.Context, spec string, rc Context) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	dir, err := parentDir(rc.ParentURL)
	if err != nil {
		return Result{}, err
	}

	var target string
	switch {
	case strings.HasPrefix(spec, "file://"):
		target, err = PathFromURL(spec)
		if err != nil {
			return Result{}, err
		}
	case strings.HasPrefix(spec, "/"):
		target = filepath.FromSlash(spec)
	case strings.HasPrefix(spec, "./"), strings.HasPrefix(spec, "../"):
		target = filepath.Join(dir, filepath.FromSlash(spec))
	default:
		return Result{}, &diag.ModuleNotFoundError{Specifier: spec, Referrer: rc.ParentURL, Path: spec}
	}

	found, ok := r.lookup(filepath.Clean(target))
	if !ok {
		return Result{}, &diag.ModuleNotFoundError{Specifier: spec, Referrer: rc.ParentURL, Path: target}
	}
	return Result{URL: FileURL(found)}, nil
}

func (r *FileResolver) lookup(target string) (string, bool) {
	if isFile(target) {
		return target, true
	}
	for _, ext := range r.Extensions {
		if isFile(target + ext) {
			return target + ext, true
		}
	}
	if r.IndexName != "" && isDir(target) {
		for _, ext := range r.Extensions {
			candidate := filepath.Join(target, r.IndexName+ext)
			if isFile(candidate) {
				return candidate, true
			}
		}
	}
	return "", false
}

func isFile(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.Mode().IsRegular()
}

func isDir(p string) bool {
	st, err := os.Stat(p)
	return err == nil && st.IsDir()
}

// parentDir returns the directory a relative specifier is joined onto. A
// parent URL ending in "/" names a directory itself.
func parentDir(parentURL string) (string, error) {
	p, err := PathFromURL(parentURL)
	if err != nil {
		return "", err
	}
	if strings.HasSuffix(parentURL, "/") {
		return p, nil
	}
	return filepath.Dir(p), nil
}

// PathFromURL converts a file URL to a local path.
func PathFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidFileURL, raw, err)
	}
	if u.Scheme != "file" {
		return "", &diag.UnsupportedSchemeError{URL: raw}
	}
	if u.Host != "" && u.Host != "localhost" {
		return "", fmt.Errorf("%w: %q: host must be empty or localhost", ErrInvalidFileURL, raw)
	}
	p := u.Path
	if p == "" {
		return "", fmt.Errorf("%w: %q: empty path", ErrInvalidFileURL, raw)
	}
	// /C:/dir -> C:/dir
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}

// FileURL converts an absolute local path to a file URL.
func FileURL(p string) string {
	slashed := filepath.ToSlash(p)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: path.Clean(slashed)}
	if strings.HasSuffix(slashed, "/") && slashed != "/" {
		u.Path += "/"
	}
	return u.String()
}
