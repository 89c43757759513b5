package utils

import "strings"

// Media builds public URLs for files stored under the legacy bucket.
type Media struct {
	Base string
}

// NewMedia returns a Media rooted at base.
func NewMedia(base string) Media {
	return Media{Base: strings.TrimRight(base, "/")}
}

func (m Media) url(size, name string) string {
	return m.Base + "/" + size + "/" + name
}

// Thumbnail is the 100x100 rendition of name.
func (m Media) Thumbnail(name string) string { return m.url("100x100", name) }

// Image is the 380x380 rendition of name.
func (m Media) Image(name string) string { return m.url("380x380", name) }

// Original is the unscaled file.
func (m Media) Original(name string) string { return m.url("original", name) }

// Thumbnails maps every name to its thumbnail URL. The result is never nil.
func (m Media) Thumbnails(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, m.Thumbnail(n))
	}
	return out
}

// Images maps every name to its image URL. The result is never nil.
func (m Media) Images(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, m.Image(n))
	}
	return out
}
