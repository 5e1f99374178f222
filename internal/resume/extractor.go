// Package resume extracts plain text from uploaded resume documents so
// that submissions become searchable in the admin portal. Extraction is
// best-effort: a resume that cannot be parsed is stored as-is with an
// empty text field.
package resume

import (
	"bytes"
	"context"
	"strings"

	"code.sajari.com/docconv"

	"intake_backend/internal/logger"
)

// Extractor turns PDF/DOC/DOCX bytes into plain text.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractText converts resume bytes to plain text based on content type.
// Errors are logged and swallowed: resume text is a search convenience,
// never a reason to reject a submission.
func (e *Extractor) ExtractText(ctx context.Context, data []byte, contentType string) string {
	if len(data) == 0 {
		return ""
	}

	res, err := docconv.Convert(bytes.NewReader(data), contentType, true)
	if err != nil {
		logger.CtxWarn(ctx, "resume text extraction failed", "content_type", contentType, "error", err.Error())
		return ""
	}
	if res == nil {
		return ""
	}

	return strings.TrimSpace(res.Body)
}
