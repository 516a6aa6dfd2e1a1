package filestorage

import "mime/multipart"

// FileInfo describes a stored upload
type FileInfo struct {
	Path     string // public path, e.g. /uploads/seminars/<uuid>.pdf
	Filename string // original client filename
	FileSize int64
	MimeType string
}

// FileStorage defines the blob store used for seminar papers and profile images
type FileStorage interface {
	// SaveFileWithPath stores the upload under subPath and returns its public path
	SaveFileWithPath(fileHeader *multipart.FileHeader, subPath string) (string, error)

	// DeleteFile removes a previously stored file. Missing files are not an error.
	DeleteFile(filePath string) error
}
