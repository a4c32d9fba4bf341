package webclip

import (
	"net/url"
	"strconv"
	"strings"
)

// AssetStatus tracks resolution of a binary asset.
type AssetStatus string

// AssetStatus values.
const (
	AssetPending  AssetStatus = "pending"
	AssetResolved AssetStatus = "resolved"
	AssetFailed   AssetStatus = "failed"
)

// ImageAsset is a catalogued image. Identity is the resolved OriginalURL;
// the registry guarantees at most one entry per distinct resolved URL.
type ImageAsset struct {
	ID          string      `json:"id"`
	OriginalURL string      `json:"originalUrl"`
	Status      AssetStatus `json:"status"`
	ProxyURL    string      `json:"proxyUrl,omitempty"`
	Alt         string      `json:"alt,omitempty"`
	Title       string      `json:"title,omitempty"`
	Width       int         `json:"width,omitempty"`
	Height      int         `json:"height,omitempty"`
}

// FormulaAsset is a catalogued formula occurrence. Formulas are positional,
// not content-addressed: identical TeX registered twice yields two entries.
type FormulaAsset struct {
	ID      string `json:"id"`
	TeX     string `json:"tex"`
	Display bool   `json:"display"`
	Engine  string `json:"engine,omitempty"`
}

// EmbedAsset is a catalogued embedded media reference.
type EmbedAsset struct {
	ID        string `json:"id"`
	EmbedType string `json:"embedType"`
	URL       string `json:"url"`
	Provider  string `json:"provider,omitempty"`
}

// AssetManifest is the out-of-band registry of assets referenced by id
// from AST nodes. It is owned by a single conversion pass and never
// mutated after the converter returns.
type AssetManifest struct {
	Images   []*ImageAsset   `json:"images"`
	Formulas []*FormulaAsset `json:"formulas"`
	Embeds   []*EmbedAsset   `json:"embeds"`
}

// ImageByID returns the image entry with the given id, or nil.
func (m *AssetManifest) ImageByID(id string) *ImageAsset {
	if m == nil {
		return nil
	}
	for _, img := range m.Images {
		if img.ID == id {
			return img
		}
	}
	return nil
}

// ImageURL returns the best URL for an image asset: the proxy URL when one
// has been assigned, otherwise the original. Returns "" for unknown ids.
func (m *AssetManifest) ImageURL(id string) string {
	img := m.ImageByID(id)
	if img == nil {
		return ""
	}
	if img.ProxyURL != "" {
		return img.ProxyURL
	}
	return img.OriginalURL
}

// ImageMeta carries optional attributes for image registration.
type ImageMeta struct {
	Alt    string
	Title  string
	Width  int
	Height int
}

// AssetRegistry assigns stable identifiers to assets discovered during a
// single conversion pass. Id counters are scoped to the registry instance,
// so repeated or concurrent runs cannot cross-contaminate ids.
type AssetRegistry struct {
	base     *url.URL
	manifest *AssetManifest
	seen     map[string]string // resolved image URL -> id

	imageSeq   int
	formulaSeq int
	embedSeq   int
}

// NewAssetRegistry creates a registry. Relative asset URLs are resolved
// against baseURL; an unparseable baseURL disables resolution rather than
// failing.
func NewAssetRegistry(baseURL string) *AssetRegistry {
	reg := &AssetRegistry{
		manifest: &AssetManifest{},
		seen:     make(map[string]string),
	}
	if baseURL != "" {
		if base, err := url.Parse(baseURL); err == nil {
			reg.base = base
		}
	}
	return reg
}

// RegisterImage catalogues an image URL and returns its id. Registration
// is idempotent per resolved URL: a duplicate returns the existing id.
// Malformed URLs are kept as-is rather than rejected; RegisterImage never
// fails.
func (r *AssetRegistry) RegisterImage(rawURL string, meta ImageMeta) string {
	resolved := r.ResolveURL(rawURL)
	if id, ok := r.seen[resolved]; ok {
		return id
	}

	id := "img-" + strconv.Itoa(r.imageSeq)
	r.imageSeq++
	r.seen[resolved] = id
	r.manifest.Images = append(r.manifest.Images, &ImageAsset{
		ID:          id,
		OriginalURL: resolved,
		Status:      AssetPending,
		Alt:         meta.Alt,
		Title:       meta.Title,
		Width:       meta.Width,
		Height:      meta.Height,
	})
	return id
}

// RegisterFormula catalogues a formula occurrence and returns its id.
// Every call appends a fresh entry.
func (r *AssetRegistry) RegisterFormula(tex string, display bool, engine string) string {
	id := "formula-" + strconv.Itoa(r.formulaSeq)
	r.formulaSeq++
	r.manifest.Formulas = append(r.manifest.Formulas, &FormulaAsset{
		ID:      id,
		TeX:     tex,
		Display: display,
		Engine:  engine,
	})
	return id
}

// RegisterEmbed catalogues an embedded media reference and returns its id.
func (r *AssetRegistry) RegisterEmbed(embedType, rawURL, provider string) string {
	id := "embed-" + strconv.Itoa(r.embedSeq)
	r.embedSeq++
	r.manifest.Embeds = append(r.manifest.Embeds, &EmbedAsset{
		ID:        id,
		EmbedType: embedType,
		URL:       r.ResolveURL(rawURL),
		Provider:  provider,
	})
	return id
}

// ResolveURL resolves a possibly-relative URL against the registry base.
// Empty input returns "". data: and blob: URLs pass through unresolved, as
// does any input that fails to parse.
func (r *AssetRegistry) ResolveURL(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(raw, "data:") || strings.HasPrefix(raw, "blob:") {
		return raw
	}
	if r.base == nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return r.base.ResolveReference(ref).String()
}

// Manifest returns the manifest accumulated so far. The caller must not
// mutate it while the conversion pass is still running.
func (r *AssetRegistry) Manifest() *AssetManifest {
	return r.manifest
}
