// Package upload turns multipart image parts into normalised files under the storage root.
// Every stored file is a scoped resource: callers defer Cleanup and call Keep once the
// database write that references it has succeeded.
package upload

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"catalog-api/internal/imaging"
	"catalog-api/internal/storage"
	"catalog-api/internal/util"
	"catalog-api/pkg/apierror"
)

const (
	MsgInvalidFileType = "Invalid file type. Only JPEG, PNG, GIF, and WebP images are allowed."

	multipartMemory = 8 << 20
	formOverhead    = 1 << 20
)

// ErrNoFile is returned when the expected file field is absent from the form.
var ErrNoFile = errors.New("no file uploaded")

type Config struct {
	MaxFileSize  int64
	AllowedTypes []string
	Image        imaging.Options
}

type Uploader struct {
	store storage.Store
	cfg   Config
	now   func() time.Time
}

func New(store storage.Store, cfg Config) *Uploader {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 5 << 20
	}
	if len(cfg.AllowedTypes) == 0 {
		cfg.AllowedTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}
	}
	return &Uploader{store: store, cfg: cfg, now: time.Now}
}

func (u *Uploader) MaxFileSize() int64 {
	return u.cfg.MaxFileSize
}

// File is one stored upload.
type File struct {
	ClientPath string
	URL        string

	store storage.Store
	mu    sync.Mutex
	kept  bool
	done  bool
}

// Keep marks the file as referenced; a later Cleanup becomes a no-op.
func (f *File) Keep() {
	if f == nil {
		return
	}
	f.mu.Lock()
	f.kept = true
	f.mu.Unlock()
}

// Cleanup removes the stored file unless Keep was called. Safe to call more than once.
func (f *File) Cleanup() {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.kept || f.done {
		return
	}
	f.done = true
	if err := f.store.Remove(f.ClientPath); err != nil {
		slog.Warn("upload cleanup failed", "path", f.ClientPath, "error", err)
	}
}

// Batch groups several stored uploads under one Keep/Cleanup scope.
type Batch []*File

func (b Batch) Keep() {
	for _, f := range b {
		f.Keep()
	}
}

func (b Batch) Cleanup() {
	for _, f := range b {
		f.Cleanup()
	}
}

func (b Batch) URLs() []string {
	out := make([]string, 0, len(b))
	for _, f := range b {
		out = append(out, f.URL)
	}
	return out
}

// Parse bounds the request body and parses the multipart form. Only the named file
// fields are accepted.
func (u *Uploader) Parse(w http.ResponseWriter, r *http.Request, maxFiles int, fields ...string) error {
	if maxFiles < 1 {
		maxFiles = 1
	}
	r.Body = http.MaxBytesReader(w, r.Body, u.cfg.MaxFileSize*int64(maxFiles)+formOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) || strings.Contains(err.Error(), "request body too large") {
			return apierror.UploadTooLarge(u.cfg.MaxFileSize)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil
		}
		return apierror.UploadRejected(fmt.Sprintf("malformed multipart form: %v", err))
	}

	allowed := map[string]struct{}{}
	for _, field := range fields {
		allowed[field] = struct{}{}
	}
	for name := range r.MultipartForm.File {
		if _, ok := allowed[name]; !ok {
			return apierror.UploadRejected("unexpected file field " + name)
		}
	}
	return nil
}

// Single stores the one file sent under field in dir, naming it "<prefix>-<millis>-<random><ext>".
func (u *Uploader) Single(r *http.Request, field string, dir string, prefix string) (*File, error) {
	headers := fileHeaders(r, field)
	if len(headers) == 0 {
		return nil, ErrNoFile
	}
	if len(headers) > 1 {
		return nil, apierror.UploadRejected("more than one file in field " + field)
	}
	return u.store1(headers[0], dir, prefix)
}

// Multiple stores up to maxFiles files from field. On error the files already stored are removed.
func (u *Uploader) Multiple(r *http.Request, field string, maxFiles int, dir string, prefix string) (Batch, error) {
	headers := fileHeaders(r, field)
	if len(headers) == 0 {
		return nil, ErrNoFile
	}
	if len(headers) > maxFiles {
		return nil, apierror.UploadRejected(fmt.Sprintf("too many files in field %s", field))
	}

	batch := make(Batch, 0, len(headers))
	for _, header := range headers {
		f, err := u.store1(header, dir, prefix)
		if err != nil {
			batch.Cleanup()
			return nil, err
		}
		batch = append(batch, f)
	}
	return batch, nil
}

// Discard removes a previously stored file referenced by its public URL.
func (u *Uploader) Discard(url string) {
	clientPath := storage.ClientPath(url)
	if clientPath == "" {
		return
	}
	if err := u.store.Remove(clientPath); err != nil {
		slog.Warn("remove stored image failed", "path", clientPath, "error", err)
	}
}

func (u *Uploader) store1(header *multipart.FileHeader, dir string, prefix string) (*File, error) {
	if header.Size > u.cfg.MaxFileSize {
		return nil, apierror.UploadTooLarge(u.cfg.MaxFileSize)
	}
	if ext := filepath.Ext(header.Filename); ext != "" && !util.IsImageExtension(ext) {
		return nil, apierror.UploadRejected(MsgInvalidFileType)
	}

	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload part: %w", err)
	}
	defer src.Close()

	raw, err := io.ReadAll(io.LimitReader(src, u.cfg.MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload part: %w", err)
	}
	if int64(len(raw)) > u.cfg.MaxFileSize {
		return nil, apierror.UploadTooLarge(u.cfg.MaxFileSize)
	}

	if !util.IsAllowedMIME(util.DetectMIME(raw), u.cfg.AllowedTypes) {
		return nil, apierror.UploadRejected(MsgInvalidFileType)
	}

	img, err := imaging.Normalize(bytes.NewReader(raw), u.cfg.Image)
	if err != nil {
		return nil, apierror.UploadRejected(MsgInvalidFileType)
	}

	name, err := u.fileName(prefix, img.Ext)
	if err != nil {
		return nil, err
	}
	clientPath := path.Join(dir, name)

	if err := u.store.Write(clientPath, img.Data); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	return &File{ClientPath: clientPath, URL: storage.URLPath(clientPath), store: u.store}, nil
}

func (u *Uploader) fileName(prefix string, ext string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000_000))
	if err != nil {
		return "", fmt.Errorf("generate file name: %w", err)
	}
	return fmt.Sprintf("%s-%d-%d%s", prefix, u.now().UnixMilli(), n.Int64(), ext), nil
}

func fileHeaders(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil || r.MultipartForm.File == nil {
		return nil
	}
	return r.MultipartForm.File[field]
}
