package portfolio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	defaultThumbWidth = 640
	jpegQuality       = 80
)

// thumbWidths are the sizes thumbnails are rendered at. Requested widths
// round up to the next one.
var thumbWidths = []int{320, 640, 960, 1280}

// ErrBadImageName is returned for names that are not a plain image file
// in the thumbnail directory.
var ErrBadImageName = errors.New("thumbnail: invalid image name")

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Thumbnailer serves resized JPEG copies of the project images and keeps
// every rendered size in memory. Widths snap to thumbWidths and never
// exceed the original, so each image has a handful of entries at most.
type Thumbnailer struct {
	dir    string
	mu     sync.RWMutex
	memo   map[string][]byte
	native map[string]int
}

// NewThumbnailer creates a Thumbnailer reading originals from dir.
func NewThumbnailer(dir string) *Thumbnailer {
	return &Thumbnailer{
		dir:    dir,
		memo:   make(map[string][]byte),
		native: make(map[string]int),
	}
}

// Get returns name resized to width as JPEG. Images narrower than width
// keep their size.
func (t *Thumbnailer) Get(name string, width int) ([]byte, error) {
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") ||
		!imageExts[strings.ToLower(filepath.Ext(name))] {
		return nil, ErrBadImageName
	}
	width = snapWidth(width)

	t.mu.RLock()
	native, known := t.native[name]
	b, ok := t.memo[memoKey(name, width, native)]
	t.mu.RUnlock()
	if known && ok {
		return b, nil
	}

	f, err := os.Open(filepath.Join(t.dir, name))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("thumbnail %s: decode config: %w", name, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("thumbnail %s: %w", name, err)
	}
	key := memoKey(name, width, cfg.Width)

	t.mu.Lock()
	t.native[name] = cfg.Width
	b, ok = t.memo[key]
	t.mu.Unlock()
	if ok {
		return b, nil
	}

	b, err = resizeJPEG(f, width)
	if err != nil {
		return nil, fmt.Errorf("thumbnail %s: %w", name, err)
	}
	t.mu.Lock()
	t.memo[key] = b
	t.mu.Unlock()
	return b, nil
}

// Len returns the number of rendered thumbnails held in memory.
func (t *Thumbnailer) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.memo)
}

// memoKey names a rendering of name at width. Requests wider than the
// original all produce the original size and share one key.
func memoKey(name string, width, native int) string {
	if native > 0 && width > native {
		width = native
	}
	return name + "@" + strconv.Itoa(width)
}

// snapWidth rounds w up to the nearest thumbnail width.
func snapWidth(w int) int {
	for _, b := range thumbWidths {
		if w <= b {
			return b
		}
	}
	return thumbWidths[len(thumbWidths)-1]
}

func resizeJPEG(src io.Reader, width int) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > width {
		newH := h * width / w
		if newH < 1 {
			newH = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, width, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// thumbWidth parses the w query value and snaps it to a thumbnail width.
func thumbWidth(raw string) int {
	w, err := strconv.Atoi(raw)
	if err != nil || w <= 0 {
		return defaultThumbWidth
	}
	return snapWidth(w)
}

func (a *App) handleThumbnail(c echo.Context) error {
	b, err := a.thumbs.Get(c.Param("name"), thumbWidth(c.QueryParam("w")))
	switch {
	case errors.Is(err, ErrBadImageName), errors.Is(err, fs.ErrNotExist):
		return echo.NewHTTPError(http.StatusNotFound)
	case err != nil:
		return err
	}
	return c.Blob(http.StatusOK, "image/jpeg", b)
}
