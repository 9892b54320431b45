package utils

import (
	"path/filepath"
	"strings"
)

// SanitizeFilename makes a client-supplied name safe for use inside an
// object-store key. Only ASCII alphanumerics, dots, underscores and hyphens
// survive; everything else (path separators, spaces, accents, control
// characters) becomes an underscore. Guest phones produce names in every
// script, so the fallback matters.
func SanitizeFilename(filename string) string {
	if filename == "" {
		return "upload"
	}

	// Remove path components - only keep the base filename
	filename = filepath.Base(filename)

	var sanitized strings.Builder
	sanitized.Grow(len(filename))

	for _, r := range filename {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sanitized.WriteRune(r)
		case r == '.' || r == '_' || r == '-':
			sanitized.WriteRune(r)
		default:
			sanitized.WriteRune('_')
		}
	}

	result := sanitized.String()

	// Leading/trailing dots make keys that look like hidden files or
	// directory tricks
	result = strings.Trim(result, ".")

	if result == "" || strings.Trim(result, "_") == "" {
		return "upload"
	}

	// Limit length to 255 characters, preserving the extension when possible
	if len(result) > 255 {
		ext := filepath.Ext(result)
		if len(ext) > 0 && len(ext) < 20 {
			basename := result[:len(result)-len(ext)]
			if len(basename) > 255-len(ext) {
				basename = basename[:255-len(ext)]
			}
			result = basename + ext
		} else {
			result = result[:255]
		}
	}

	return result
}
