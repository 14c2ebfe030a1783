// Package media normalizes captured or selected deposit slip images into a
// single compressed asset suitable for upload.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"path/filepath"
	"strings"
	"time"

	// Decoders for the formats the form accepts.
	_ "image/gif"
	_ "image/png"

	xdraw "golang.org/x/image/draw"

	"github.com/tithr-app/tithr_backend/internal/apperrors"
	"github.com/tithr-app/tithr_backend/internal/core/domain"
)

// Mode selects which normalization policy applies to a source image.
type Mode string

const (
	// ModeCamera crops a live camera frame to the deposit slip aspect.
	ModeCamera Mode = "camera"
	// ModeFile downscales an arbitrary picked file.
	ModeFile Mode = "file"
)

const (
	// cropAspect is the deposit slip width:height ratio.
	cropAspect = 2.2
	// cropWidthFraction of the camera frame width used as crop width.
	cropWidthFraction = 0.8
	// maxWidth bounds picked images; wider sources are scaled down
	// uniformly, narrower ones are never upscaled.
	maxWidth = 1200
	// jpegQuality bounds upload size.
	jpegQuality = 70
)

// Preprocessor implements the normalize step of the submission pipeline.
type Preprocessor struct{}

// NewPreprocessor returns a preprocessor with the fixed slip policies.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

// Normalize decodes the source image, applies the mode's crop or downscale
// policy, and re-encodes to JPEG. The returned asset name is derived from the
// current time plus the original filename. A source that cannot be decoded
// fails with a Preprocess step error and nothing is uploaded.
func (p *Preprocessor) Normalize(r io.Reader, originalName string, mode Mode) (*domain.Asset, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, apperrors.NewStepError(apperrors.StepPreprocess, fmt.Errorf("decode source image: %w", err))
	}

	var out image.Image
	switch mode {
	case ModeCamera:
		out = cropToSlip(src)
	default:
		out = downscale(src)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, apperrors.NewStepError(apperrors.StepPreprocess, fmt.Errorf("encode normalized image: %w", err))
	}

	bounds := out.Bounds()
	return &domain.Asset{
		Name:        assetName(originalName),
		ContentType: "image/jpeg",
		Content:     buf.Bytes(),
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
	}, nil
}

// cropToSlip crops the frame to the fixed 2.2:1 slip aspect, centered, using
// 80% of the frame width as the crop width.
func cropToSlip(src image.Image) image.Image {
	b := src.Bounds()
	cw := int(float64(b.Dx()) * cropWidthFraction)
	ch := int(float64(cw) / cropAspect)
	if ch > b.Dy() {
		ch = b.Dy()
	}
	x0 := b.Min.X + (b.Dx()-cw)/2
	y0 := b.Min.Y + (b.Dy()-ch)/2

	dst := image.NewRGBA(image.Rect(0, 0, cw, ch))
	xdraw.Copy(dst, image.Point{}, src, image.Rect(x0, y0, x0+cw, y0+ch), xdraw.Src, nil)
	return dst
}

// downscale scales both dimensions uniformly so width equals maxWidth.
// Sources at or under the limit pass through untouched.
func downscale(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxWidth {
		return src
	}
	// Integer math keeps the factor exact for clean ratios.
	dh := h * maxWidth / w
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// assetName builds a collision-resistant object name from the capture time
// and the original filename, e.g. "1714786523123_slip.jpg".
func assetName(originalName string) string {
	stem := strings.TrimSuffix(filepath.Base(originalName), filepath.Ext(originalName))
	if stem == "" || stem == "." {
		stem = "slip"
	}
	return fmt.Sprintf("%d_%s.jpg", time.Now().UnixMilli(), stem)
}

// UploadCapture adapts an uploaded multipart file to the CaptureDevice port.
type UploadCapture struct {
	Pre      *Preprocessor
	Reader   io.Reader
	Filename string
	Mode     Mode
}

// Capture normalizes the uploaded file.
func (u UploadCapture) Capture(_ context.Context) (*domain.Asset, error) {
	return u.Pre.Normalize(u.Reader, u.Filename, u.Mode)
}
