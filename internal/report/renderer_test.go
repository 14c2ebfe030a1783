package report_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tithr-app/tithr_backend/internal/apperrors"
	"github.com/tithr-app/tithr_backend/internal/core/domain"
	"github.com/tithr-app/tithr_backend/internal/report"
)

func reportFixture() domain.ReportInput {
	return domain.ReportInput{
		Collection: domain.Collection{
			CollectionID: "c-1",
			Date:         civil.Date{Year: 2024, Month: 5, Day: 4},
			ServiceType:  domain.SabbathClass,
			RecordedBy:   "Alice",
			CountedBy:    "Bob",
		},
		Donations: []domain.Donation{
			{DonorName: "Alice", Amount: decimal.RequireFromString("50.00"), DonationType: domain.Tithes},
			{DonorName: "Bob", CheckNumber: "102", Amount: decimal.RequireFromString("25.50"), DonationType: domain.Freewill},
		},
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderPDF_ProducesPDF(t *testing.T) {
	r := report.NewRenderer()

	pdf, err := r.RenderPDF(reportFixture())

	require.NoError(t, err)
	require.True(t, len(pdf) > 4)
	assert.Equal(t, "%PDF", string(pdf[:4]))
}

func TestRenderPDF_Deterministic(t *testing.T) {
	r := report.NewRenderer()
	input := reportFixture()

	first, err := r.RenderPDF(input)
	require.NoError(t, err)
	// Repeated renders must match byte for byte; object numbering inside the
	// document must not depend on map iteration order.
	for i := 0; i < 5; i++ {
		next, err := r.RenderPDF(input)
		require.NoError(t, err)
		require.Equal(t, first, next)
	}

	// The document timestamps are pinned to the epoch, not the wall clock.
	assert.Contains(t, string(first), "D:19700101000000")
}

func TestRenderPDF_ZeroDateRejected(t *testing.T) {
	r := report.NewRenderer()
	input := reportFixture()
	input.Collection.Date = civil.Date{}

	_, err := r.RenderPDF(input)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, apperrors.StepRender, apperrors.StepOf(err))
}

func TestRenderPDF_EmbedsDecodableSlip(t *testing.T) {
	r := report.NewRenderer()
	input := reportFixture()
	input.DepositSlipURL = "https://storage.example.com/slips-bucket/slips/a.jpg"
	input.DepositSlipImage = pngBytes(t, 220, 100)

	pdf, err := r.RenderPDF(input)

	require.NoError(t, err)
	assert.True(t, len(pdf) > 4)
}

func TestRenderPDF_UndecodableSlipFallsBackToURL(t *testing.T) {
	r := report.NewRenderer()
	input := reportFixture()
	input.DepositSlipURL = "https://storage.example.com/slips-bucket/slips/a.jpg"
	input.DepositSlipImage = []byte("definitely not an image")

	pdf, err := r.RenderPDF(input)

	require.NoError(t, err)
	assert.True(t, len(pdf) > 4)
}

func TestRenderHTMLSummary(t *testing.T) {
	r := report.NewRenderer()

	body, err := r.RenderHTMLSummary(reportFixture())

	require.NoError(t, err)
	assert.Contains(t, body, "Weekly Offerings Report")
	assert.Contains(t, body, "<strong>Date:</strong> 2024-05-04")
	assert.Contains(t, body, "<strong>Service:</strong> Sabbath Class")
	assert.Contains(t, body, "Alice | - | $50.00 | Tithes")
	assert.Contains(t, body, "Bob | 102 | $25.50 | Freewill")
	assert.Contains(t, body, "TOTAL: $75.50")

	// Rows keep entry order.
	assert.Less(t, strings.Index(body, "Alice"), strings.Index(body, "Bob | 102"))
}

func TestRenderHTMLSummary_EscapesDonorName(t *testing.T) {
	r := report.NewRenderer()
	input := reportFixture()
	input.Donations[0].DonorName = "<script>alert(1)</script>"

	body, err := r.RenderHTMLSummary(input)

	require.NoError(t, err)
	assert.NotContains(t, body, "<script>")
}

func TestResolveSlipURL(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		baseURL string
		want    string
	}{
		{name: "empty ref", ref: "", baseURL: "https://s.example.com", want: ""},
		{name: "relative path", ref: "slips/a.jpg", baseURL: "https://s.example.com", want: "https://s.example.com/slips/a.jpg"},
		{name: "base with trailing slash", ref: "slips/a.jpg", baseURL: "https://s.example.com/", want: "https://s.example.com/slips/a.jpg"},
		{name: "ref with leading slash", ref: "/slips/a.jpg", baseURL: "https://s.example.com", want: "https://s.example.com/slips/a.jpg"},
		{name: "absolute https passes through", ref: "https://cdn.example.com/a.jpg", baseURL: "https://s.example.com", want: "https://cdn.example.com/a.jpg"},
		{name: "absolute http passes through", ref: "http://cdn.example.com/a.jpg", baseURL: "https://s.example.com", want: "http://cdn.example.com/a.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, report.ResolveSlipURL(tt.ref, tt.baseURL))
		})
	}
}
