package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/infrastructure/logging"
	"github.com/sangkips/salon-api/pkg/apperror"
)

// FileStore persists uploaded files by flat name
type FileStore interface {
	Save(name string, r io.Reader) (int64, error)
	Open(name string) (*os.File, error)
	Remove(name string) error
}

// FilesPath is the route prefix stored images are served from
const FilesPath = "/api/v1/files/"

// sniffLen is how much of an upload is read to detect its type
const sniffLen = 3072

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
	"image/heif": ".heif",
}

var errTooLarge = errors.New("file too large")

// ImageService stores treatment photos
type ImageService struct {
	imageRepo     repository.TreatmentImageRepository
	treatmentRepo repository.TreatmentRepository
	files         FileStore
	maxSize       int64
}

// NewImageService creates a new image service
func NewImageService(
	imageRepo repository.TreatmentImageRepository,
	treatmentRepo repository.TreatmentRepository,
	files FileStore,
	maxSize int64,
) *ImageService {
	return &ImageService{
		imageRepo:     imageRepo,
		treatmentRepo: treatmentRepo,
		files:         files,
		maxSize:       maxSize,
	}
}

// UploadFile is one file of a multipart upload
type UploadFile struct {
	OriginalName string
	Reader       io.Reader
}

// UploadImages appends the files to the treatment's photos in the given order.
// Validation stops at the first rejected file; files stored before it are kept.
func (s *ImageService) UploadImages(ctx context.Context, treatmentID uuid.UUID, uploads []UploadFile) ([]entity.TreatmentImage, error) {
	if len(uploads) == 0 {
		return nil, apperror.NewUnprocessableError("images", "at least one image is required")
	}
	if err := s.requireTreatment(ctx, treatmentID); err != nil {
		return nil, err
	}

	order, err := s.imageRepo.NextOrder(ctx, treatmentID)
	if err != nil {
		return nil, err
	}

	images := make([]entity.TreatmentImage, 0, len(uploads))
	for i, up := range uploads {
		img, err := s.store(ctx, treatmentID, up, order+i)
		if err != nil {
			return images, err
		}
		images = append(images, *img)
	}

	logging.FromContext(ctx).Info().
		Str("treatment_id", treatmentID.String()).
		Int("count", len(images)).
		Msg("treatment images uploaded")
	return images, nil
}

func (s *ImageService) store(ctx context.Context, treatmentID uuid.UUID, up UploadFile, order int) (*entity.TreatmentImage, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(up.Reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]
	if n == 0 {
		return nil, apperror.NewUnprocessableError("images", fmt.Sprintf("%s is empty", up.OriginalName))
	}

	mime := mimetype.Detect(head)
	contentType := mime.String()
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, apperror.NewUnprocessableError("images", fmt.Sprintf("%s: only JPEG, PNG, WEBP and HEIC images are accepted", up.OriginalName))
	}

	filename := uuid.New().String() + ext
	body := io.MultiReader(bytes.NewReader(head), up.Reader)
	size, err := s.files.Save(filename, &limitedReader{r: body, n: s.maxSize})
	if err != nil {
		if errors.Is(err, errTooLarge) {
			return nil, apperror.NewUnprocessableError("images", fmt.Sprintf("%s exceeds the %d byte limit", up.OriginalName, s.maxSize))
		}
		return nil, err
	}

	img := &entity.TreatmentImage{
		TreatmentID: treatmentID,
		Filename:    filename,
		ImageURL:    FilesPath + filename,
		ContentType: contentType,
		Size:        size,
		ImageOrder:  order,
	}
	if name := strings.TrimSpace(up.OriginalName); name != "" {
		img.OriginalFilename = &name
	}

	if err := s.imageRepo.Create(ctx, img); err != nil {
		_ = s.files.Remove(filename)
		return nil, err
	}
	return img, nil
}

// limitedReader fails instead of truncating once more than n bytes are read
type limitedReader struct {
	r io.Reader
	n int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n -= int64(n)
	if l.n < 0 {
		return n, errTooLarge
	}
	return n, err
}

// ListImages returns the photos of a treatment in display order
func (s *ImageService) ListImages(ctx context.Context, treatmentID uuid.UUID) ([]entity.TreatmentImage, error) {
	if err := s.requireTreatment(ctx, treatmentID); err != nil {
		return nil, err
	}
	return s.imageRepo.ListByTreatment(ctx, treatmentID)
}

// DeleteImage removes one photo of a treatment
func (s *ImageService) DeleteImage(ctx context.Context, treatmentID, imageID uuid.UUID) error {
	img, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img == nil || img.TreatmentID != treatmentID {
		return apperror.NewNotFoundError("Image")
	}

	if err := s.imageRepo.Delete(ctx, imageID); err != nil {
		return err
	}
	removeImageFiles(ctx, s.files, []entity.TreatmentImage{*img})
	return nil
}

// OpenImage opens a stored photo that belongs to a treatment
func (s *ImageService) OpenImage(ctx context.Context, filename string) (*os.File, *entity.TreatmentImage, error) {
	img, err := s.imageRepo.GetByFilename(ctx, filename)
	if err != nil {
		return nil, nil, err
	}
	if img == nil {
		return nil, nil, apperror.NewNotFoundError("Image")
	}

	f, err := s.files.Open(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, apperror.NewNotFoundError("Image")
		}
		return nil, nil, err
	}
	return f, img, nil
}

func (s *ImageService) requireTreatment(ctx context.Context, treatmentID uuid.UUID) error {
	t, err := s.treatmentRepo.GetByID(ctx, treatmentID)
	if err != nil {
		return err
	}
	if t == nil {
		return apperror.NewNotFoundError("Treatment")
	}
	return nil
}
