package utils

import (
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "photo.jpg", "photo.jpg"},
		{"empty name", "", "upload"},
		{"spaces replaced", "my wedding photo.jpg", "my_wedding_photo.jpg"},
		{"accents replaced", "cérémonie.jpg", "c_r_monie.jpg"},
		{"path traversal stripped", "../../etc/passwd", "passwd"},
		{"quotes replaced", `photo"1".jpg`, "photo_1_.jpg"},
		{"newline replaced", "photo\n.jpg", "photo_.jpg"},
		{"leading dots trimmed", "...hidden.jpg", "hidden.jpg"},
		{"only dots", "...", "upload"},
		{"only specials", "???", "upload"},
		{"allowed punctuation kept", "IMG_2024-06-15.photo.heic", "IMG_2024-06-15.photo.heic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SanitizeFilename(tt.input)
			if result != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestSanitizeFilename_LongNamePreservesExtension(t *testing.T) {
	long := strings.Repeat("a", 300) + ".mp4"
	result := SanitizeFilename(long)

	if len(result) > 255 {
		t.Errorf("sanitized length = %d, want <= 255", len(result))
	}
	if !strings.HasSuffix(result, ".mp4") {
		t.Errorf("extension not preserved, got %q", result)
	}
}

func TestSanitizeFilename_OnlyKeySafeCharacters(t *testing.T) {
	inputs := []string{
		"vidéo de mariage (finale) [4K].mov",
		"семья.jpg",
		"写真.png",
		"a b\tc\x00d.gif",
	}

	for _, input := range inputs {
		result := SanitizeFilename(input)
		for _, r := range result {
			ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
				(r >= '0' && r <= '9') || r == '.' || r == '_' || r == '-'
			if !ok {
				t.Errorf("SanitizeFilename(%q) = %q contains disallowed rune %q", input, result, r)
			}
		}
	}
}
