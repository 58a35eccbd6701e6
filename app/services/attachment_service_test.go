package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printipid/printipid/pkg/workerpool"
)

func newTestAttachmentService(t *testing.T) *AttachmentService {
	t.Helper()
	pool := workerpool.New(2)
	t.Cleanup(pool.Shutdown)
	return NewAttachmentService(pool)
}

func TestValidateDocumentName(t *testing.T) {
	svc := newTestAttachmentService(t)

	assert.NoError(t, svc.ValidateDocumentName("thesis.pdf"))
	assert.NoError(t, svc.ValidateDocumentName("notes.DOCX")) // case-insensitive
	assert.ErrorIs(t, svc.ValidateDocumentName("resume.exe"), ErrDisallowedExtension)
	assert.ErrorIs(t, svc.ValidateDocumentName("photo.png"), ErrDisallowedExtension)
	assert.ErrorIs(t, svc.ValidateDocumentName("noextension"), ErrDisallowedExtension)
}

func TestValidateReceiptName(t *testing.T) {
	svc := newTestAttachmentService(t)

	assert.NoError(t, svc.ValidateReceiptName("receipt.jpg"))
	assert.NoError(t, svc.ValidateReceiptName("receipt.pdf"))
	assert.ErrorIs(t, svc.ValidateReceiptName("receipt.gif"), ErrDisallowedExtension)
}

func TestEncodeBuildsDataURL(t *testing.T) {
	svc := newTestAttachmentService(t)

	doc, err := svc.Encode(FileInput{Name: "thesis.pdf", Content: []byte("hello")})
	require.NoError(t, err)

	assert.NotEmpty(t, doc.DocumentID)
	assert.Equal(t, "thesis.pdf", doc.FileName)
	assert.Equal(t, int64(5), doc.FileSize)
	assert.Equal(t, "data:application/pdf;base64,aGVsbG8=", doc.FileData)
}

func TestEncodeBatchPreservesOrder(t *testing.T) {
	svc := newTestAttachmentService(t)

	files := []FileInput{
		{Name: "a.pdf", Content: []byte("a")},
		{Name: "b.doc", Content: []byte("b")},
		{Name: "c.docx", Content: []byte("c")},
	}

	docs, err := svc.EncodeBatch(files)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, f := range files {
		assert.Equal(t, f.Name, docs[i].FileName)
		assert.True(t, strings.HasPrefix(docs[i].FileData, "data:"))
	}
}

func TestEncodeBatchRejectsWholeBatchOnBadFile(t *testing.T) {
	svc := newTestAttachmentService(t)

	_, err := svc.EncodeBatch([]FileInput{
		{Name: "ok.pdf", Content: []byte("x")},
		{Name: "bad.zip", Content: []byte("y")},
	})
	assert.ErrorIs(t, err, ErrDisallowedExtension)
}

func TestEncodeBatchRequiresFiles(t *testing.T) {
	svc := newTestAttachmentService(t)
	_, err := svc.EncodeBatch(nil)
	assert.Error(t, err)
}
