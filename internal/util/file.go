package util

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// UploadRule is the accepted shape of one upload kind.
type UploadRule struct {
	Kind        string
	Extensions  []string
	MimeTypes   []string // exact types, or prefixes ending in "/"
	MaxBytes    int64
	TypeMessage string
}

// DocumentRule accepts Word (.docx) and PDF files up to maxMB.
func DocumentRule(maxMB int64) UploadRule {
	return UploadRule{
		Kind:        "document",
		Extensions:  DocumentExtensions,
		MimeTypes:   []string{MimeDocx, MimePDF},
		MaxBytes:    maxMB << 20,
		TypeMessage: MsgInvalidFileType,
	}
}

// AudioRule accepts audio/* files up to maxMB.
func AudioRule(maxMB int64) UploadRule {
	return UploadRule{
		Kind:        "audio",
		Extensions:  AudioExtensions,
		MimeTypes:   []string{MimeAudio},
		MaxBytes:    maxMB << 20,
		TypeMessage: MsgInvalidAudioType,
	}
}

func (r UploadRule) MaxMB() int64 {
	return r.MaxBytes >> 20
}

func (r UploadRule) allowsMime(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0]))
	for _, allowed := range r.MimeTypes {
		if mimeType == allowed || (strings.HasSuffix(allowed, "/") && strings.HasPrefix(mimeType, allowed)) {
			return true
		}
	}
	return false
}

func (r UploadRule) allowsExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range r.Extensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// CheckDeclared validates what the uploader claims: the declared content type
// first, then the size. It runs before any bytes are read or sent.
func (r UploadRule) CheckDeclared(contentType string, size int64) error {
	if !r.allowsMime(contentType) {
		return NewValidationError(r.TypeMessage, map[string]string{"file": r.TypeMessage})
	}
	if size > r.MaxBytes {
		return r.tooLarge()
	}
	return nil
}

func (r UploadRule) tooLarge() *AppError {
	msg := fmt.Sprintf(MsgFileTooLarge, r.MaxMB())
	return NewValidationError(msg, map[string]string{"file": msg})
}

// Check validates a received file: extension, declared type and size, then
// the sniffed content. The reader is rewound before returning.
func (r UploadRule) Check(filename, contentType string, size int64, content io.ReadSeeker) (string, error) {
	typeErr := NewValidationError(r.TypeMessage, map[string]string{"file": r.TypeMessage})
	if !r.allowsExtension(filename) {
		return "", typeErr
	}
	// browsers send octet-stream for types they do not know; sniffing decides
	declared := contentType != "" && !strings.HasPrefix(contentType, MimeOctetStream)
	if declared && !r.allowsMime(contentType) {
		return "", typeErr
	}
	if size > r.MaxBytes {
		return "", r.tooLarge()
	}

	detected, err := mimetype.DetectReader(content)
	if err != nil {
		return "", err
	}
	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	sniffed := detected.String()
	if r.allowsMime(sniffed) {
		return strings.SplitN(sniffed, ";", 2)[0], nil
	}
	// minimal docx files are sometimes only recognised as zip
	if strings.EqualFold(filepath.Ext(filename), ".docx") && detected.Is(MimeZip) {
		return MimeDocx, nil
	}
	return sniffed, typeErr
}
