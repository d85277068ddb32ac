package folio

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	jpegQuality = 80
	assetsDir   = "_assets"
)

// AssetPipeline turns hero image references into public URLs. Local images
// next to a content file are downscaled and written under _assets/.
type AssetPipeline struct {
	basePath string
	width    int
	outDir   string

	mu       sync.Mutex
	resolved map[string]string
	names    map[string]string // asset file name -> source path
}

// NewAssetPipeline writes processed assets below outDir/_assets.
func NewAssetPipeline(cfg SiteConfig, outDir string) *AssetPipeline {
	return &AssetPipeline{
		basePath: NormalizeBasePath(cfg.BasePath),
		width:    cfg.HeroWidth,
		outDir:   outDir,
		resolved: make(map[string]string),
		names:    make(map[string]string),
	}
}

// Dir returns the directory processed assets are written to.
func (p *AssetPipeline) Dir() string {
	return filepath.Join(p.outDir, assetsDir)
}

// Resolve returns the URL for e's hero image, or "" when it has none.
// Absolute URLs pass through, rooted paths are served from the public dir
// under the base path, and relative paths are processed.
func (p *AssetPipeline) Resolve(e Entry) (string, error) {
	ref := e.Data.HeroImage
	switch {
	case ref == "":
		return "", nil
	case isAbsoluteRef(ref):
		return ref, nil
	case strings.HasPrefix(ref, "/"):
		return p.basePath + strings.TrimPrefix(ref, "/"), nil
	}
	if e.SourcePath == "" {
		return "", &EntryError{Path: e.ID, Field: "heroImage", Err: fmt.Errorf("relative image %q without a source file", ref)}
	}
	src := filepath.Join(filepath.Dir(e.SourcePath), filepath.FromSlash(ref))

	p.mu.Lock()
	defer p.mu.Unlock()
	if u, ok := p.resolved[src]; ok {
		return u, nil
	}
	name, err := p.process(src, e.ID)
	if err != nil {
		return "", &EntryError{Path: e.SourcePath, Field: "heroImage", Err: err}
	}
	u := p.basePath + assetsDir + "/" + name
	p.resolved[src] = u
	return u, nil
}

// Reset forgets processed images so changed sources are picked up again.
func (p *AssetPipeline) Reset() {
	p.mu.Lock()
	p.resolved = make(map[string]string)
	p.names = make(map[string]string)
	p.mu.Unlock()
}

func (p *AssetPipeline) process(src, id string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer f.Close()

	svg := strings.EqualFold(filepath.Ext(src), ".svg")
	ext := ".jpg"
	if svg {
		ext = ".svg"
	}
	name := p.assetName(src, id, ext)
	if err := os.MkdirAll(p.Dir(), 0o755); err != nil {
		return "", fmt.Errorf("create assets dir: %w", err)
	}

	// vector images are copied as-is
	if svg {
		out, err := os.Create(filepath.Join(p.Dir(), name))
		if err != nil {
			return "", err
		}
		defer out.Close()
		if _, err := io.Copy(out, f); err != nil {
			return "", err
		}
		return name, nil
	}

	data, err := processImage(f, p.width)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(p.Dir(), name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return name, nil
}

// assetName picks a file name for src from the entry id and the source file
// stem. Distinct sources that slug to the same name get a checksum suffix.
// Caller holds p.mu.
func (p *AssetPipeline) assetName(src, id, ext string) string {
	base := Slugify(strings.ReplaceAll(id, "/", "-"))
	if stem := Slugify(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))); stem != "" {
		if base != "" {
			base += "-"
		}
		base += stem
	}
	if base == "" {
		base = "asset"
	}
	name := base + ext
	if owner, ok := p.names[name]; ok && owner != src {
		name = fmt.Sprintf("%s-%08x%s", base, crc32.ChecksumIEEE([]byte(filepath.ToSlash(src))), ext)
	}
	p.names[name] = src
	return name
}

// processImage decodes an image from src, downscales it to maxWidth when
// wider, and encodes it as JPEG.
func processImage(src io.Reader, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxWidth > 0 && w > maxWidth {
		newH := h * maxWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func isAbsoluteRef(ref string) bool {
	if strings.HasPrefix(ref, "//") {
		return true
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "data":
		return true
	}
	return false
}
