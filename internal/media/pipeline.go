package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// ErrBadEncoding rejects a malformed base64 payload before any persistence or
// upload side effect.
var ErrBadEncoding = errors.New("invalid photo encoding")

// ErrStorageUnavailable surfaces an object storage outage. The call is not
// retried, the caller must retry the whole logical operation.
var ErrStorageUnavailable = errors.New("object storage is not available at the moment")

// Uploader pushes a local file to durable object storage and returns its
// stable public URL.
type Uploader interface {
	Upload(ctx context.Context, path, key, contentType string) (string, error)
}

// Pipeline decodes encoded images into scoped temporary storage, uploads them
// and removes the temporary copy. Uploads are synchronous within the owning
// request.
type Pipeline struct {
	tempDir  string
	baseURL  string
	uploader Uploader
}

func NewPipeline(tempDir, baseURL string, uploader Uploader) *Pipeline {
	_ = os.MkdirAll(tempDir, 0755)
	return &Pipeline{tempDir: tempDir, baseURL: baseURL, uploader: uploader}
}

// AttachPhoto materializes a base64-encoded image as a public URL.
func (p *Pipeline) AttachPhoto(ctx context.Context, encoded, ext string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrBadEncoding
	}
	key := fmt.Sprintf("%s.%s", uuid.NewString(), ext)
	return p.attach(ctx, data, key, "image/"+ext)
}

// AttachStoreQR renders a QR code for the store's canonical public URL and
// attaches it through the same path. The artifact is derived, it is only
// regenerated when the public key is minted at store creation.
func (p *Pipeline) AttachStoreQR(ctx context.Context, publicKey string) (string, error) {
	target := fmt.Sprintf("%s/public/stores/%s", p.baseURL, publicKey)
	png, err := qrcode.Encode(target, qrcode.Medium, 256)
	if err != nil {
		return "", errors.Wrap(err, "encode qr code")
	}
	return p.attach(ctx, png, publicKey+".png", "image/png")
}

func (p *Pipeline) attach(ctx context.Context, data []byte, key, contentType string) (string, error) {
	path := filepath.Join(p.tempDir, key)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", errors.Wrap(err, "write temp file")
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			zap.L().Warn("failed to remove temp media file", zap.String("path", path), zap.Error(err))
		}
	}()
	return p.uploader.Upload(ctx, path, key, contentType)
}
