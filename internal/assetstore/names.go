package assetstore

import (
	"mime"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.Und)

// SynthesizeFilename builds a display name for an asset that arrived without
// one, using the content type's preferred extension and a short id fragment.
func SynthesizeFilename(mimeType, id string) string {
	ext := preferredExtension(mimeType)
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	return "asset-" + short + ext
}

// DisplayName renders a filename as a human-friendly title: extension
// stripped, separators spaced, words title-cased.
func DisplayName(filename string) string {
	name := strings.TrimSpace(filename)
	if name == "" {
		return ""
	}
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	return titleCaser.String(name)
}

func preferredExtension(mimeType string) string {
	switch mimeType {
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
