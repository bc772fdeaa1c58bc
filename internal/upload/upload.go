package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/driveline/driveline/internal/config"
	"github.com/driveline/driveline/pkg/errcode"
	"github.com/driveline/driveline/pkg/idgen"
	"github.com/mbeoliero/kit/log"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Saver writes uploaded images to local disk and hands back public URLs.
// The URL stored alongside domain rows is an opaque string; swapping the
// backing store only requires a different Saver.
type Saver struct {
	baseDir   string
	publicURL string
	maxBytes  int64
}

// NewSaver creates a Saver rooted at the configured upload directory
func NewSaver(cfg *config.Config) *Saver {
	return &Saver{
		baseDir:   cfg.Upload.Dir,
		publicURL: strings.TrimSuffix(cfg.Upload.PublicBaseURL, "/"),
		maxBytes:  int64(cfg.Upload.MaxImageSizeMB) << 20,
	}
}

// SaveImage persists one uploaded image under baseDir/category and returns its
// public URL. Rejects empty files, oversized files and non-image extensions.
func (s *Saver) SaveImage(ctx context.Context, file *multipart.FileHeader, category string) (string, error) {
	if file == nil || file.Size == 0 {
		return "", errcode.ErrNoFile
	}
	if file.Size > s.maxBytes {
		return "", errcode.ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", errcode.ErrInvalidFileType
	}

	id, err := idgen.NextID()
	if err != nil {
		log.CtxError(ctx, "allocate file id failed: %v", err)
		return "", errcode.ErrServer
	}
	name := fmt.Sprintf("%s-%s%s", category, id, ext)

	dir := filepath.Join(s.baseDir, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.CtxError(ctx, "create upload dir failed: %v", err)
		return "", errcode.ErrServer
	}

	src, err := file.Open()
	if err != nil {
		log.CtxError(ctx, "open uploaded file failed: %v", err)
		return "", errcode.ErrServer
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		log.CtxError(ctx, "create file failed: %v", err)
		return "", errcode.ErrServer
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		log.CtxError(ctx, "write file failed: %v", err)
		return "", errcode.ErrServer
	}

	return s.publicURL + path.Join("/uploads", category, name), nil
}

// SaveImages persists a batch, failing fast on the first invalid file
func (s *Saver) SaveImages(ctx context.Context, files []*multipart.FileHeader, category string) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.SaveImage(ctx, f, category)
		if err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}

// Dir returns the root directory served under /uploads
func (s *Saver) Dir() string {
	return s.baseDir
}
