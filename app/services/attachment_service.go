package services

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/printipid/printipid/app/models"
	"github.com/printipid/printipid/pkg/workerpool"
)

// ─── Extension allow-lists ────────────────────────────────────────────────────

var allowedDocumentExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

var allowedReceiptExts = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var mimeByExt = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// FileInput is one uploaded file before encoding.
type FileInput struct {
	Name    string
	Content []byte
}

// AttachmentService validates uploads and encodes order documents as inline
// base64 data URLs. Batch encoding runs on a bounded worker pool.
type AttachmentService struct {
	pool *workerpool.Pool
}

func NewAttachmentService(pool *workerpool.Pool) *AttachmentService {
	return &AttachmentService{pool: pool}
}

// ValidateDocumentName checks the extension against the document allow-list.
// A disallowed extension is a hard error, never a silent skip.
func (s *AttachmentService) ValidateDocumentName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedDocumentExts[ext] {
		return fmt.Errorf("%w: %q (documents accept pdf, doc, docx)", ErrDisallowedExtension, name)
	}
	return nil
}

// ValidateReceiptName checks the extension against the receipt allow-list.
func (s *AttachmentService) ValidateReceiptName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedReceiptExts[ext] {
		return fmt.Errorf("%w: %q (receipts accept pdf, jpg, jpeg, png)", ErrDisallowedExtension, name)
	}
	return nil
}

// Encode turns one validated file into an order document with an inline
// data URL payload.
func (s *AttachmentService) Encode(file FileInput) (models.Document, error) {
	if err := s.ValidateDocumentName(file.Name); err != nil {
		return models.Document{}, err
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	mime := mimeByExt[ext]
	payload := base64.StdEncoding.EncodeToString(file.Content)

	return models.Document{
		DocumentID: primitive.NewObjectID().Hex(),
		FileName:   file.Name,
		FileSize:   int64(len(file.Content)),
		FileData:   "data:" + mime + ";base64," + payload,
		UploadedAt: time.Now(),
	}, nil
}

// EncodeBatch validates every file up front, then encodes them concurrently
// on the pool. Document order matches input order. If any file fails
// validation the whole batch is rejected before any work is queued.
func (s *AttachmentService) EncodeBatch(files []FileInput) ([]models.Document, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("services: order requires at least one document")
	}

	for _, f := range files {
		if err := s.ValidateDocumentName(f.Name); err != nil {
			return nil, err
		}
	}

	docs := make([]models.Document, len(files))
	errs := make([]error, len(files))

	var wg sync.WaitGroup
	for i, f := range files {
		i, f := i, f
		wg.Add(1)
		task := func() {
			defer wg.Done()
			docs[i], errs[i] = s.Encode(f)
		}
		if err := s.pool.SubmitWait(task); err != nil {
			// Pool is shutting down; run inline so the request still completes.
			task()
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}
