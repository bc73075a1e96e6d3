package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/NuSa-Nutrition-Scan/API-V1/internal/result"
)

// MaxUploadSize bounds a single uploaded photo.
const MaxUploadSize = 10 << 20

var (
	ErrNoFile     = errors.New("no file uploaded")
	ErrNotAnImage = errors.New("uploaded file is not an image")
	ErrFileTooBig = errors.New("uploaded file is too large")
)

// Upload is an uploaded image held in memory with its sniffed content type.
type Upload struct {
	Body        io.Reader
	ContentType string
	Size        int
}

// ReadImage reads the multipart file under field. The content type is
// detected from the bytes, not taken from the client.
func ReadImage(c *gin.Context, field string) (*Upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, ErrNoFile
	}
	if err != nil {
		return nil, fmt.Errorf("read form file: %w", err)
	}
	if fh.Size > MaxUploadSize {
		return nil, ErrFileTooBig
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open form file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read form file: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrFileTooBig
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, ErrNotAnImage
	}

	return &Upload{
		Body:        bytes.NewReader(data),
		ContentType: mtype.String(),
		Size:        len(data),
	}, nil
}

// UploadError writes the 422 envelope for a rejected upload field. It
// returns false for errors that are not about the upload itself.
func UploadError(c *gin.Context, field string, err error) bool {
	var msg string
	switch {
	case errors.Is(err, ErrNoFile):
		msg = "field required"
	case errors.Is(err, ErrNotAnImage):
		msg = "file must be an image"
	case errors.Is(err, ErrFileTooBig):
		msg = fmt.Sprintf("file must be at most %d MB", MaxUploadSize>>20)
	default:
		return false
	}
	res := result.BadInput(map[string]string{field: msg})
	c.JSON(res.Code, res)
	return true
}
