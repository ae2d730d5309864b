package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var ErrInvalidAttachmentKind = errors.New("model: invalid attachment kind")

type AttachmentKind string

const (
	KindImage       AttachmentKind = "image"
	KindAudio       AttachmentKind = "audio"
	KindVideo       AttachmentKind = "video"
	KindPDF         AttachmentKind = "pdf"
	KindSpreadsheet AttachmentKind = "spreadsheet"
	KindDocument    AttachmentKind = "document"
	KindText        AttachmentKind = "text"
	KindFile        AttachmentKind = "file"
)

func (k AttachmentKind) IsValid() bool {
	switch k {
	case KindImage, KindAudio, KindVideo, KindPDF, KindSpreadsheet, KindDocument, KindText, KindFile:
		return true
	default:
		return false
	}
}

type Attachment struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Type   string         `json:"type"`
	Size   int64          `json:"size"`
	Bucket string         `json:"bucket"`
	Path   string         `json:"path"`
	Kind   AttachmentKind `json:"kind"`
}

func (a Attachment) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("model: attachment id is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("model: attachment name is required")
	}
	if !a.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAttachmentKind, a.Kind)
	}
	return nil
}

// KindFor derives the attachment kind from the MIME type first, then the
// file extension. Derived once at upload time, never recomputed.
func KindFor(mimeType, name string) AttachmentKind {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	switch {
	case strings.HasPrefix(mt, "image/"):
		return KindImage
	case strings.HasPrefix(mt, "audio/"):
		return KindAudio
	case strings.HasPrefix(mt, "video/"):
		return KindVideo
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	switch ext {
	case "pdf":
		return KindPDF
	case "xls", "xlsx", "csv":
		return KindSpreadsheet
	case "doc", "docx":
		return KindDocument
	case "txt", "md", "rtf":
		return KindText
	default:
		return KindFile
	}
}
