package domain

// Asset is a normalized binary attachment produced by the media preprocessor,
// ready for upload to the blob store.
type Asset struct {
	// Name is derived from the capture time plus the original filename,
	// e.g. "1714786523123_slip.jpg".
	Name        string
	ContentType string
	Content     []byte
	Width       int
	Height      int
}
