package board

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// DefaultScreenshotDir is where screenshots go when Config.ScreenshotDir is
// empty.
const DefaultScreenshotDir = "screenshots"

// Screenshot queues a capture of the window at the end of the next Draw.
// The PNG is written to Config.ScreenshotDir as <timestamp>_<label>.png.
func (b *Board) Screenshot(label string) {
	b.shots = append(b.shots, label)
}

// flushScreenshots writes every queued capture of screen.
func (b *Board) flushScreenshots(screen *ebiten.Image) {
	if len(b.shots) == 0 {
		return
	}
	defer func() { b.shots = b.shots[:0] }()

	if err := os.MkdirAll(b.cfg.ScreenshotDir, 0o755); err != nil {
		b.log.Error("screenshot failed", zap.Error(err))
		b.setStatus("Screenshot failed: "+err.Error(), true)
		return
	}

	bounds := screen.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]byte, 4*w*h)
	screen.ReadPixels(pixels)
	img := unpremultiply(pixels, w, h)

	stamp := time.Now().Format("20060102_150405")
	for _, label := range b.shots {
		path := screenshotPath(b.cfg.ScreenshotDir, stamp, label)
		if err := writePNG(path, img); err != nil {
			b.log.Error("screenshot failed", zap.Error(err))
			b.setStatus("Screenshot failed: "+err.Error(), true)
			continue
		}
		b.log.Info("screenshot", zap.String("path", path))
		b.setStatus("Saved "+path, false)
	}
}

// unpremultiply converts premultiplied RGBA pixels to a straight-alpha
// image.
func unpremultiply(pixels []byte, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(pixels) && i+3 < len(img.Pix); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, a
	}
	return img
}

func screenshotPath(dir, stamp, label string) string {
	return filepath.Join(dir, stamp+"_"+sanitizeLabel(label)+".png")
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel keeps ASCII letters, digits, '-' and '.', replaces every
// other rune with '_' and falls back to "canvas" for a blank label.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "canvas"
	}
	var sb strings.Builder
	sb.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}
