package compose

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
)

// NormalizeImage bounds an uploaded image before it leaves the device:
// when the longest edge exceeds maxEdge the image is scaled down with the
// aspect ratio preserved, and the result is re-encoded as JPEG at the fixed
// quality. The returned name carries the re-encoded extension.
func NormalizeImage(data []byte, name string, maxEdge, quality int) ([]byte, string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("cannot decode image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w > maxEdge || h > maxEdge {
		nw, nh := scaleDims(w, h, maxEdge)
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		src = dst
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, src, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", fmt.Errorf("cannot encode image: %w", err)
	}
	return out.Bytes(), jpegName(name), nil
}

// scaleDims shrinks (w,h) so the longer edge equals maxEdge, preserving the
// aspect ratio within rounding. Both dims stay >= 1.
func scaleDims(w, h, maxEdge int) (int, int) {
	if w >= h {
		nh := (h*maxEdge + w/2) / w
		if nh < 1 {
			nh = 1
		}
		return maxEdge, nh
	}
	nw := (w*maxEdge + h/2) / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxEdge
}

func jpegName(name string) string {
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name + ".jpg"
}
