package domain

import (
	"fmt"
	"strings"
)

const defaultImageQuality = 75

// Image is a reference to an asset hosted by the CMS.
type Image struct {
	URL string
}

// Sized returns the asset URL with the CMS resize parameters applied.
// A quality of zero falls back to the default of 75.
func (i *Image) Sized(width, quality int) string {
	if i == nil || i.URL == "" {
		return ""
	}
	if quality <= 0 {
		quality = defaultImageQuality
	}

	sep := "?"
	if strings.Contains(i.URL, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sw=%d&q=%d", i.URL, sep, width, quality)
}
