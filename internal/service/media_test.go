package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trimline/seatcase/internal/domain"
)

func newTestMediaService(t *testing.T) *MediaService {
	t.Helper()
	return &MediaService{UploadDir: t.TempDir(), BasePath: "/uploads"}
}

func monthFolder() string {
	now := time.Now()
	return fmt.Sprintf("%04d/%02d", now.Year(), int(now.Month()))
}

func TestSaveUpload_Image(t *testing.T) {
	svc := newTestMediaService(t)

	body := "fake jpeg bytes"
	res, err := svc.SaveUpload(context.Background(), "seats.jpg", "image/jpeg",
		int64(len(body)), strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, domain.MediaImage, res.Type)
	require.Equal(t, "/uploads/"+monthFolder()+"/seats.jpg", res.URL)
}

func TestSaveUpload_VideoByMime(t *testing.T) {
	svc := newTestMediaService(t)

	body := "fake mp4 bytes"
	res, err := svc.SaveUpload(context.Background(), "walkthrough.bin", "video/mp4",
		int64(len(body)), strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, domain.MediaVideo, res.Type)
	require.True(t, strings.HasSuffix(res.URL, "/walkthrough.mp4"), res.URL)
}

func TestSaveUpload_SanitizesName(t *testing.T) {
	svc := newTestMediaService(t)

	body := "x"
	res, err := svc.SaveUpload(context.Background(), "../..//étrange name!.jpg", "image/jpeg",
		int64(len(body)), strings.NewReader(body))
	require.NoError(t, err)
	require.NotContains(t, res.URL, "..")
	require.NotContains(t, res.URL, " ")
	require.True(t, strings.HasPrefix(res.URL, "/uploads/"), res.URL)
}

func TestSaveUpload_DuplicateAndCollision(t *testing.T) {
	svc := newTestMediaService(t)
	ctx := context.Background()

	body := "same bytes"
	first, err := svc.SaveUpload(ctx, "cover.jpg", "image/jpeg",
		int64(len(body)), strings.NewReader(body))
	require.NoError(t, err)

	// Same name and size: reuse the stored file.
	dup, err := svc.SaveUpload(ctx, "cover.jpg", "image/jpeg",
		int64(len(body)), strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, first.URL, dup.URL)

	// Same name, different size: suffixed copy.
	other := "different content entirely"
	second, err := svc.SaveUpload(ctx, "cover.jpg", "image/jpeg",
		int64(len(other)), strings.NewReader(other))
	require.NoError(t, err)
	require.NotEqual(t, first.URL, second.URL)
	require.True(t, strings.HasSuffix(second.URL, "/cover-1.jpg"), second.URL)
}

func TestListLibrary(t *testing.T) {
	svc := newTestMediaService(t)
	ctx := context.Background()

	for _, name := range []string{"a.jpg", "b.mp4", "notes.txt"} {
		_, err := svc.SaveUpload(ctx, name, "", int64(len(name)), strings.NewReader(name))
		require.NoError(t, err)
	}

	items, err := svc.ListLibrary(ctx)
	require.NoError(t, err)
	// The txt file is not a media type and stays out of the library.
	require.Len(t, items, 2)
	for _, item := range items {
		require.True(t, strings.HasPrefix(item.URL, "/uploads/"))
		require.NotZero(t, item.Size)
	}
}

func TestListLibrary_MissingDirIsEmpty(t *testing.T) {
	svc := &MediaService{UploadDir: "/nonexistent/seatcase-uploads", BasePath: "/uploads"}

	items, err := svc.ListLibrary(context.Background())
	require.NoError(t, err)
	require.Empty(t, items)
}
