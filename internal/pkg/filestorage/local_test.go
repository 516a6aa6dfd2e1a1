package filestorage

import (
	"bytes"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/validation"
)

// newFileHeader builds a real multipart.FileHeader the way gin hands them to controllers.
func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	return form.File["file"][0]
}

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	ls, err := NewLocalStorage(root, "/uploads/")
	require.NoError(t, err)

	pdf := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 64)...)
	info, err := ls.Save(newFileHeader(t, "Paper.PDF", pdf), validation.SeminarFolder)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(info.Path, "/uploads/seminars/"))
	assert.True(t, strings.HasSuffix(info.Path, ".pdf"))
	assert.Equal(t, "application/pdf", info.MimeType)
	assert.EqualValues(t, len(pdf), info.FileSize)

	onDisk := filepath.Join(root, "seminars", filepath.Base(info.Path))
	_, err = os.Stat(onDisk)
	require.NoError(t, err)

	require.NoError(t, ls.DeleteFile(info.Path))
	_, err = os.Stat(onDisk)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	// deleting again is a no-op
	assert.NoError(t, ls.DeleteFile(info.Path))
	assert.NoError(t, ls.DeleteFile(""))
}

func TestLocalStorage_SaveNilHeader(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "/uploads")
	require.NoError(t, err)

	p, err := ls.SaveFileWithPath(nil, "students")
	assert.NoError(t, err)
	assert.Empty(t, p)
}

func TestLocalStorage_DeleteStaysInsideRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "uploads")
	ls, err := NewLocalStorage(root, "/uploads")
	require.NoError(t, err)

	outside := filepath.Join(parent, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o600))

	require.NoError(t, ls.DeleteFile("/uploads/../secret.txt"))
	_, err = os.Stat(outside)
	assert.NoError(t, err)

	assert.Error(t, ls.DeleteFile("/uploads/"))
}

func TestValidateExtension(t *testing.T) {
	assert.NoError(t, ValidateExtension(nil, validation.SeminarExtensions))
	assert.NoError(t, ValidateExtension(newFileHeader(t, "essay.docx", []byte("x")), validation.SeminarExtensions))

	err := ValidateExtension(newFileHeader(t, "essay.txt", []byte("x")), validation.SeminarExtensions)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedFileType)
	assert.Contains(t, err.Error(), "essay.txt")
}

func TestLocalStorage_SaveRejectsMismatchedContent(t *testing.T) {
	root := t.TempDir()
	ls, err := NewLocalStorage(root, "/uploads")
	require.NoError(t, err)

	tests := []struct {
		name     string
		filename string
		content  []byte
		wantErr  bool
	}{
		{name: "png bytes", filename: "me.png", content: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")},
		{name: "jpeg bytes", filename: "me.JPG", content: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}},
		{name: "text renamed to pdf", filename: "paper.pdf", content: []byte("just some notes"), wantErr: true},
		{name: "pdf renamed to png", filename: "me.png", content: []byte("%PDF-1.4\n%%EOF"), wantErr: true},
		{name: "unchecked extension", filename: "notes.txt", content: []byte("plain")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := ls.Save(newFileHeader(t, tt.filename, tt.content), "checks")
			if !tt.wantErr {
				require.NoError(t, err)
				assert.NotEmpty(t, info.MimeType)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrUnsupportedFileType)
			assert.Nil(t, info)
		})
	}

	entries, err := os.ReadDir(filepath.Join(root, "checks"))
	require.NoError(t, err)
	assert.Len(t, entries, 3, "rejected uploads leave nothing on disk")
}
