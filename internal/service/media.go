package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/trimline/seatcase/internal/domain"
)

// MediaService stores uploaded files under a local directory tree and scans
// it for the media library view. URLs are paths under BasePath, served
// statically by the router.
type MediaService struct {
	UploadDir string // filesystem root, e.g. ./uploads
	BasePath  string // URL prefix, e.g. /uploads
}

// UploadResult describes a stored upload.
type UploadResult struct {
	URL  string           `json:"url"`
	Type domain.MediaType `json:"type"`
}

// LibraryItem is one entry in the media library listing.
type LibraryItem struct {
	URL  string           `json:"url"`
	Name string           `json:"name"`
	Size int64            `json:"size"`
	Type domain.MediaType `json:"type"`
	Date time.Time        `json:"date"`
}

// Map MIME types to safe extensions. Fallback is taken from the original
// filename.
var extByMime = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"image/gif":       ".gif",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
}

var (
	imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}
	videoExts = map[string]bool{".mp4": true, ".webm": true, ".mov": true}
)

// SaveUpload writes the uploaded file under a YYYY/MM folder, keeping the
// sanitized original name where possible. A file with the same name and size
// is treated as a duplicate and reused; a name collision with a different
// size gets a numeric suffix.
func (s *MediaService) SaveUpload(ctx context.Context, original, mime string, size int64, r io.Reader) (UploadResult, error) {
	if original == "" {
		original = "upload"
	}

	ext := safeExt(mime, original)
	typ := domain.MediaImage
	if strings.HasPrefix(mime, "video/") || videoExts[ext] {
		typ = domain.MediaVideo
	}

	now := time.Now()
	folder := fmt.Sprintf("%04d/%02d", now.Year(), int(now.Month()))
	dir := filepath.Join(s.UploadDir, folder)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return UploadResult{}, err
	}

	base := safeBasename(strings.TrimSuffix(filepath.Base(original), filepath.Ext(original)))

	filename := base + ext
	target := filepath.Join(dir, filename)

	if st, err := os.Stat(target); err == nil && st.Mode().IsRegular() {
		if st.Size() == size {
			return UploadResult{URL: path.Join(s.BasePath, folder, filename), Type: typ}, nil
		}
		// Same name, different content size: find a free suffixed name, or
		// reuse an existing same-size duplicate along the way.
		for i := 1; i < 1000; i++ {
			candidate := fmt.Sprintf("%s-%d%s", base, i, ext)
			candidatePath := filepath.Join(dir, candidate)
			st, err := os.Stat(candidatePath)
			if err != nil {
				filename = candidate
				target = candidatePath
				break
			}
			if st.Mode().IsRegular() && st.Size() == size {
				return UploadResult{URL: path.Join(s.BasePath, folder, candidate), Type: typ}, nil
			}
		}
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return UploadResult{}, err
	}
	if err := f.Close(); err != nil {
		return UploadResult{}, err
	}

	return UploadResult{URL: path.Join(s.BasePath, folder, filename), Type: typ}, nil
}

// ListLibrary walks the upload tree and returns known image/video files,
// newest first.
func (s *MediaService) ListLibrary(ctx context.Context) ([]LibraryItem, error) {
	items := []LibraryItem{}

	err := filepath.WalkDir(s.UploadDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		ext := strings.ToLower(filepath.Ext(d.Name()))
		if !imageExts[ext] && !videoExts[ext] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(s.UploadDir, p)
		if err != nil {
			return err
		}

		typ := domain.MediaImage
		if videoExts[ext] {
			typ = domain.MediaVideo
		}

		items = append(items, LibraryItem{
			URL:  path.Join(s.BasePath, filepath.ToSlash(rel)),
			Name: d.Name(),
			Size: info.Size(),
			Type: typ,
			Date: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// No uploads yet.
			return []LibraryItem{}, nil
		}
		return nil, err
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Date.After(items[j].Date) })
	return items, nil
}

func safeExt(mime, original string) string {
	if ext, ok := extByMime[mime]; ok {
		return ext
	}
	ext := filepath.Ext(original)
	if ext != "" && len(ext) <= 10 {
		return strings.ToLower(ext)
	}
	return ""
}

// safeBasename turns an arbitrary filename into something safe for the
// filesystem and URLs.
func safeBasename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}

	out := b.String()
	for strings.Contains(out, "--") {
		out = strings.ReplaceAll(out, "--", "-")
	}
	out = strings.Trim(out, "-.")

	if out == "" {
		out = "file"
	}
	if len(out) > 80 {
		out = out[:80]
	}
	return out
}
