package service

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestImageService_UploadAppendsInOrder(t *testing.T) {
	env := newTestEnv(t)
	tr := env.createTreatment(t, referenceTreatment(env.createCustomer(t, "写真")))

	first, err := env.images.UploadImages(env.ctx, tr.ID, []UploadFile{
		{OriginalName: "before.png", Reader: bytes.NewReader(pngBytes(t))},
		{OriginalName: "after.png", Reader: bytes.NewReader(pngBytes(t))},
	})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "image/png", first[0].ContentType)
	assert.True(t, strings.HasSuffix(first[0].Filename, ".png"))
	assert.Equal(t, FilesPath+first[0].Filename, first[0].ImageURL)
	assert.Equal(t, "before.png", *first[0].OriginalFilename)

	more, err := env.images.UploadImages(env.ctx, tr.ID, []UploadFile{
		{OriginalName: "side.png", Reader: bytes.NewReader(pngBytes(t))},
	})
	require.NoError(t, err)

	listed, err := env.images.ListImages(env.ctx, tr.ID)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, first[0].ID, listed[0].ID)
	assert.Equal(t, first[1].ID, listed[1].ID)
	assert.Equal(t, more[0].ID, listed[2].ID)
	assert.Greater(t, listed[2].ImageOrder, listed[1].ImageOrder)
}

func TestImageService_RejectsNonImages(t *testing.T) {
	env := newTestEnv(t)
	tr := env.createTreatment(t, referenceTreatment(env.createCustomer(t, "写真")))

	stored, err := env.images.UploadImages(env.ctx, tr.ID, []UploadFile{
		{OriginalName: "ok.png", Reader: bytes.NewReader(pngBytes(t))},
		{OriginalName: "notes.txt", Reader: strings.NewReader("just some text")},
		{OriginalName: "never.png", Reader: bytes.NewReader(pngBytes(t))},
	})
	requireValidation(t, err, "images")
	assert.Len(t, stored, 1, "files before the rejected one are kept")

	_, err = env.images.UploadImages(env.ctx, tr.ID, []UploadFile{
		{OriginalName: "empty.png", Reader: bytes.NewReader(nil)},
	})
	requireValidation(t, err, "images")

	_, err = env.images.UploadImages(env.ctx, tr.ID, nil)
	requireValidation(t, err, "images")
}

func TestImageService_RejectsOversizedFiles(t *testing.T) {
	env := newTestEnv(t)
	tr := env.createTreatment(t, referenceTreatment(env.createCustomer(t, "写真")))

	big := io.MultiReader(bytes.NewReader(pngBytes(t)), bytes.NewReader(make([]byte, 2<<20)))
	_, err := env.images.UploadImages(env.ctx, tr.ID, []UploadFile{{OriginalName: "huge.png", Reader: big}})
	requireValidation(t, err, "images")

	listed, err := env.images.ListImages(env.ctx, tr.ID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestImageService_UnknownTreatment(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.images.UploadImages(env.ctx, uuid.New(), []UploadFile{
		{OriginalName: "a.png", Reader: bytes.NewReader(pngBytes(t))},
	})
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestImageService_OpenAndDelete(t *testing.T) {
	env := newTestEnv(t)
	tr := env.createTreatment(t, referenceTreatment(env.createCustomer(t, "写真")))
	data := pngBytes(t)

	stored, err := env.images.UploadImages(env.ctx, tr.ID, []UploadFile{{OriginalName: "a.png", Reader: bytes.NewReader(data)}})
	require.NoError(t, err)
	img := stored[0]

	f, meta, err := env.images.OpenImage(env.ctx, img.Filename)
	require.NoError(t, err)
	got, err := io.ReadAll(f)
	require.NoError(t, f.Close())
	require.NoError(t, err)
	assert.Equal(t, data, got)
	assert.Equal(t, "image/png", meta.ContentType)

	// An image only deletes through the treatment it belongs to
	err = env.images.DeleteImage(env.ctx, uuid.New(), img.ID)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)

	require.NoError(t, env.images.DeleteImage(env.ctx, tr.ID, img.ID))

	_, _, err = env.images.OpenImage(env.ctx, img.Filename)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}
