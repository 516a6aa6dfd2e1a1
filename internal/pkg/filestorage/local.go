package filestorage

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/logger"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory on disk
	baseURL  string // public prefix, e.g. /uploads
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// Returned paths are baseURL + "/" + subPath + "/" + generated name.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	if baseURL == "" {
		baseURL = "/uploads"
	}

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// ValidateExtension rejects uploads whose extension is not in allowed
func ValidateExtension(fileHeader *multipart.FileHeader, allowed []string) error {
	if fileHeader == nil {
		return nil
	}
	if !validation.HasAllowedExtension(fileHeader.Filename, allowed) {
		return &apperrors.CustomError{
			Err:     apperrors.ErrUnsupportedFileType,
			Message: fmt.Sprintf("file %q is not allowed, expected one of %s", fileHeader.Filename, strings.Join(allowed, ", ")),
			Details: map[string]interface{}{"allowed": allowed},
		}
	}
	return nil
}

// SaveFileWithPath saves a file to a specified subdirectory
func (ls *LocalStorage) SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	info, err := ls.Save(fileHeader, subPath)
	if err != nil || info == nil {
		return "", err
	}
	return info.Path, nil
}

// Save stores the upload and returns its metadata
func (ls *LocalStorage) Save(fileHeader *multipart.FileHeader, subPath string) (*FileInfo, error) {
	if fileHeader == nil {
		return nil, nil
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	subPath = strings.Trim(path.Clean("/"+filepath.ToSlash(subPath)), "/")
	dir := filepath.Join(ls.basePath, filepath.FromSlash(subPath))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return nil, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	name := uuid.New().String() + ext
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}

	// mimetype only needs the header bytes; tee them while copying.
	head := &limitedBuffer{limit: 3072}
	written, err := io.Copy(dst, io.TeeReader(src, head))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to write uploaded file content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	detected := mimetype.Detect(head.buf)
	if !contentMatches(ext, detected) {
		_ = os.Remove(dstPath)
		logger.Warn().Str("filename", fileHeader.Filename).Str("mime", detected.String()).
			Msg("Upload content does not match its extension")
		return nil, &apperrors.CustomError{
			Err:     apperrors.ErrUnsupportedFileType,
			Message: fmt.Sprintf("content of %q is %s, which does not match its extension", fileHeader.Filename, detected.String()),
			Details: map[string]interface{}{"detected": detected.String()},
		}
	}

	publicPath := ls.baseURL + "/" + name
	if subPath != "" {
		publicPath = ls.baseURL + "/" + subPath + "/" + name
	}

	info := &FileInfo{
		Path:     publicPath,
		Filename: fileHeader.Filename,
		FileSize: written,
		MimeType: detected.String(),
	}

	logger.Info().
		Str("filename", info.Filename).
		Str("saved_as", publicPath).
		Str("mime", info.MimeType).
		Int64("size", written).
		Msg("File saved successfully")
	return info, nil
}

// DeleteFile removes a stored file given the public path SaveFileWithPath returned.
func (ls *LocalStorage) DeleteFile(filePath string) error {
	if strings.TrimSpace(filePath) == "" {
		return nil
	}

	physicalPath, err := ls.resolve(filePath)
	if err != nil {
		return err
	}

	if err := os.Remove(physicalPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// resolve maps a public path onto the storage root, refusing anything outside it
func (ls *LocalStorage) resolve(filePath string) (string, error) {
	rel := filepath.ToSlash(filePath)
	rel = strings.TrimPrefix(rel, ls.baseURL)
	rel = strings.Trim(path.Clean("/"+rel), "/")
	if rel == "" || rel == "." {
		return "", fmt.Errorf("invalid file path: %s", filePath)
	}
	return filepath.Join(ls.basePath, filepath.FromSlash(rel)), nil
}

// contentTypes lists the sniffed types accepted for each known extension.
// Other extensions are stored without a content check.
var contentTypes = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".webp": {"image/webp"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword", "application/x-ole-storage"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document", "application/zip"},
}

// contentMatches reports whether the sniffed type, or one of its parents,
// is accepted for ext
func contentMatches(ext string, detected *mimetype.MIME) bool {
	want, known := contentTypes[ext]
	if !known {
		return true
	}
	for m := detected; m != nil; m = m.Parent() {
		for _, w := range want {
			if m.Is(w) {
				return true
			}
		}
	}
	return false
}

type limitedBuffer struct {
	buf   []byte
	limit int
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if room := b.limit - len(b.buf); room > 0 {
		if len(p) < room {
			room = len(p)
		}
		b.buf = append(b.buf, p[:room]...)
	}
	return len(p), nil
}
