package ports

import (
	"context"

	"github.com/tithr-app/tithr_backend/internal/core/domain"
)

// BlobStore is the binary object store holding deposit slip images.
// Objects are addressed by path, e.g. "slips/1714786523123_slip.jpg".
type BlobStore interface {
	// Put stores data under path and returns the stored path.
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)

	// Fetch reads the object bytes back, for embedding into reports.
	Fetch(ctx context.Context, path string) ([]byte, error)
}

// Attachment is one email attachment in the form the mail service expects:
// base64 content plus filename and content type.
type Attachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
}

// Notifier dispatches a single HTML email with binary attachments.
type Notifier interface {
	Send(ctx context.Context, to []string, subject string, htmlBody string, attachments []Attachment) error
}

// ReportRenderer turns a report input into the deliverable documents.
// Implementations must be deterministic: identical inputs produce
// byte-identical output.
type ReportRenderer interface {
	// RenderPDF produces the binary collection report.
	RenderPDF(input domain.ReportInput) ([]byte, error)

	// RenderHTMLSummary produces the email-body variant: same header,
	// listing and total, no embedded image.
	RenderHTMLSummary(input domain.ReportInput) (string, error)
}

// CaptureDevice abstracts whatever produces a normalized deposit slip asset
// (camera capture, file picker upload). The pipeline depends only on this
// interface, never on a concrete device or upload mechanism.
type CaptureDevice interface {
	Capture(ctx context.Context) (*domain.Asset, error)
}
