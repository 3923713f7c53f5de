package mesh

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/qmuntal/gltf"
)

// DefaultMaxSize bounds how much a Loader reads from a remote resource.
const DefaultMaxSize = 64 << 20

// Loader fetches mesh resources by URL. The zero value is usable.
type Loader struct {
	// Client is used for http and https URLs. nil means a client with a
	// 30 second timeout.
	Client *http.Client

	// MaxSize caps remote downloads in bytes. 0 means DefaultMaxSize.
	MaxSize int64
}

var defaultLoader Loader

// Load reads a mesh with the default Loader.
func Load(ctx context.Context, rawURL string) (*Mesh, error) {
	return defaultLoader.Load(ctx, rawURL)
}

// Load reads the mesh referenced by rawURL. Bare paths and file URLs are
// read from disk, http and https URLs are downloaded. The format follows the
// path extension: .gltf, .glb or .obj. Every failure is a *LoadError.
func (l *Loader) Load(ctx context.Context, rawURL string) (*Mesh, error) {
	start := time.Now()
	m, err := l.load(ctx, rawURL)
	if err != nil {
		return nil, &LoadError{URL: rawURL, Err: err}
	}
	slog.Debug("mesh loaded", "url", rawURL, "vertices", len(m.Vertices),
		"triangles", m.TriangleCount(), "took", time.Since(start))
	return m, nil
}

func (l *Loader) load(ctx context.Context, rawURL string) (*Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if rawURL == "" {
		return nil, fmt.Errorf("empty URL")
	}

	u, err := url.Parse(rawURL)
	if err != nil || len(u.Scheme) == 1 {
		// Not a URL, or a Windows drive letter: treat as a path.
		u = &url.URL{Path: rawURL}
	}

	switch u.Scheme {
	case "", "file":
		p := filepath.FromSlash(u.Path)
		return loadFile(p, formatOf(p))
	case "http", "https":
		data, err := l.fetch(ctx, u.String())
		if err != nil {
			return nil, err
		}
		return decode(bytes.NewReader(data), formatOf(u.Path), path.Base(u.Path))
	default:
		return nil, fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
}

type format int

const (
	formatUnknown format = iota
	formatGLTF
	formatOBJ
)

func formatOf(p string) format {
	switch strings.ToLower(path.Ext(filepath.ToSlash(p))) {
	case ".gltf", ".glb":
		return formatGLTF
	case ".obj":
		return formatOBJ
	}
	return formatUnknown
}

func loadFile(p string, f format) (*Mesh, error) {
	name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
	switch f {
	case formatGLTF:
		// gltf.Open resolves external buffers relative to the file.
		doc, err := gltf.Open(p)
		if err != nil {
			return nil, err
		}
		return fromGLTF(doc, name)
	case formatOBJ:
		file, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return parseOBJ(file, name)
	}
	return nil, fmt.Errorf("unsupported mesh format %q", filepath.Ext(p))
}

func decode(r io.Reader, f format, base string) (*Mesh, error) {
	name := strings.TrimSuffix(base, path.Ext(base))
	switch f {
	case formatGLTF:
		doc := new(gltf.Document)
		if err := gltf.NewDecoder(r).Decode(doc); err != nil {
			return nil, err
		}
		return fromGLTF(doc, name)
	case formatOBJ:
		return parseOBJ(r, name)
	}
	return nil, fmt.Errorf("unsupported mesh format %q", path.Ext(base))
}

func (l *Loader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	limit := l.MaxSize
	if limit <= 0 {
		limit = DefaultMaxSize
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("resource larger than %d bytes", limit)
	}
	return data, nil
}
