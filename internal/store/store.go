// Package store keeps uploaded templates and recaps plus generated
// documents and their change reports on disk, behind opaque identifiers.
// Each bucket enforces its own extension allow-list and size ceiling.
package store

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog"

	"github.com/fairlead/cpgen/internal/charter"
)

// Bucket names accepted by Save and Resolve.
const (
	BucketTemplates = "templates"
	BucketRecaps    = "recaps"
	BucketDocuments = "documents"
	BucketReports   = "reports"
)

const (
	// DefaultMaxTemplateSize is the template upload ceiling.
	DefaultMaxTemplateSize = 50 * 1024 * 1024
	// DefaultMaxRecapSize is the recap upload ceiling.
	DefaultMaxRecapSize = 20 * 1024 * 1024

	dirPerm  = 0o750
	filePerm = 0o640
)

type policy struct {
	extensions map[string]bool
	maxSize    int64
}

// Store is a bucketed file store rooted at a data directory.
type Store struct {
	root     string
	policies map[string]policy
	log      zerolog.Logger
}

// New creates the bucket directories under root and returns the store.
func New(root string, maxTemplateSize, maxRecapSize int64, log zerolog.Logger) (*Store, error) {
	if maxTemplateSize <= 0 {
		maxTemplateSize = DefaultMaxTemplateSize
	}
	if maxRecapSize <= 0 {
		maxRecapSize = DefaultMaxRecapSize
	}

	documentExts := map[string]bool{".txt": true, ".pdf": true, ".docx": true, ".doc": true}
	s := &Store{
		root: root,
		policies: map[string]policy{
			BucketTemplates: {extensions: documentExts, maxSize: maxTemplateSize},
			BucketRecaps:    {extensions: documentExts, maxSize: maxRecapSize},
		},
		log: log,
	}

	for _, bucket := range []string{BucketTemplates, BucketRecaps, BucketDocuments, BucketReports} {
		if err := os.MkdirAll(filepath.Join(root, bucket), dirPerm); err != nil {
			return nil, fmt.Errorf("create bucket directory %s: %w", bucket, err)
		}
	}
	return s, nil
}

// Save stores an uploaded file in the named bucket and returns its opaque
// identifier. The extension is checked against the bucket allow-list, the
// byte size against the bucket ceiling, and uploaded PDFs are validated
// before the file is accepted.
func (s *Store) Save(bucket, filename string, r io.Reader) (string, error) {
	pol, ok := s.policies[bucket]
	if !ok {
		return "", fmt.Errorf("unknown upload bucket: %q", bucket)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !pol.extensions[ext] {
		return "", fmt.Errorf("file type %q not allowed in bucket %s", ext, bucket)
	}

	data, err := io.ReadAll(io.LimitReader(r, pol.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > pol.maxSize {
		return "", fmt.Errorf("file exceeds maximum size of %d bytes", pol.maxSize)
	}

	id := storedName(filename, ext)
	path := filepath.Join(s.root, bucket, id)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}

	if ext == ".pdf" {
		if err := api.ValidateFile(path, nil); err != nil {
			_ = os.Remove(path)
			return "", fmt.Errorf("uploaded PDF failed validation: %w", err)
		}
	}

	s.log.Info().Str("bucket", bucket).Str("id", id).Int("bytes", len(data)).Msg("upload saved")
	return id, nil
}

// SaveDocument stores a generated document and returns its identifier.
func (s *Store) SaveDocument(ext string, content []byte) (string, error) {
	id := storedName("charter_party"+ext, ext)
	path := filepath.Join(s.root, BucketDocuments, id)
	if err := os.WriteFile(path, content, filePerm); err != nil {
		return "", fmt.Errorf("store generated document: %w", err)
	}
	s.log.Info().Str("id", id).Int("bytes", len(content)).Msg("generated document saved")
	return id, nil
}

// SaveReport stores a change report as JSON keyed by the generated
// document identifier.
func (s *Store) SaveReport(documentID string, report charter.ChangeReport) (string, error) {
	id := strings.TrimSuffix(documentID, filepath.Ext(documentID)) + ".json"
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode change report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.root, BucketReports, id), data, filePerm); err != nil {
		return "", fmt.Errorf("store change report: %w", err)
	}
	return id, nil
}

// LoadReport reads a stored change report by identifier.
func (s *Store) LoadReport(id string) (charter.ChangeReport, error) {
	var report charter.ChangeReport
	path, err := s.Resolve(BucketReports, id)
	if err != nil {
		return report, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("read change report: %w", err)
	}
	if err := json.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("decode change report: %w", err)
	}
	return report, nil
}

// Resolve maps a bucket and identifier to a readable file path. The
// identifier must name a file directly inside the bucket.
func (s *Store) Resolve(bucket, id string) (string, error) {
	if id == "" || id != filepath.Base(id) {
		return "", fmt.Errorf("invalid identifier: %q", id)
	}
	path := filepath.Join(s.root, bucket, id)
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("unknown %s identifier: %q", strings.TrimSuffix(bucket, "s"), id)
	}
	if info.IsDir() {
		return "", fmt.Errorf("invalid identifier: %q", id)
	}
	return path, nil
}

// List returns the identifiers stored in a bucket, sorted by name.
func (s *Store) List(bucket string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, bucket))
	if err != nil {
		return nil, fmt.Errorf("list bucket %s: %w", bucket, err)
	}
	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// storedName builds a collision-free stored file name from a short uuid,
// a timestamp, and a sanitized version of the original name.
func storedName(original, ext string) string {
	base := strings.TrimSuffix(filepath.Base(original), filepath.Ext(original))
	base = sanitize(base)
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%s_%s_%s%s",
		uuid.NewString()[:8], time.Now().UTC().Format("20060102T150405"), base, ext)
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
