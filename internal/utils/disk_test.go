package utils

import (
	"os"
	"testing"
)

func TestGetDiskSpace(t *testing.T) {
	tmpDir := os.TempDir()

	info, err := GetDiskSpace(tmpDir)
	if err != nil {
		t.Fatalf("GetDiskSpace failed: %v", err)
	}

	if info.TotalBytes == 0 {
		t.Error("TotalBytes should not be zero")
	}
	if info.FreeBytes > info.TotalBytes {
		t.Errorf("FreeBytes (%d) should not exceed TotalBytes (%d)", info.FreeBytes, info.TotalBytes)
	}
	if info.AvailableBytes > info.TotalBytes {
		t.Errorf("AvailableBytes (%d) should not exceed TotalBytes (%d)", info.AvailableBytes, info.TotalBytes)
	}
	if info.UsedPercent < 0 || info.UsedPercent > 100 {
		t.Errorf("UsedPercent (%.2f) should be between 0 and 100", info.UsedPercent)
	}

	expectedUsed := info.TotalBytes - info.FreeBytes
	if info.UsedBytes != expectedUsed {
		t.Errorf("UsedBytes = %d, want %d", info.UsedBytes, expectedUsed)
	}
}

func TestGetDiskSpace_InvalidPath(t *testing.T) {
	_, err := GetDiskSpace("/this/path/definitely/does/not/exist/anywhere")
	if err == nil {
		t.Fatal("Expected error for invalid path, got nil")
	}
}

func TestCheckDiskSpace_SmallUpload(t *testing.T) {
	ok, msg, err := CheckDiskSpace(os.TempDir(), 1024)
	if err != nil {
		t.Fatalf("CheckDiskSpace failed: %v", err)
	}
	// A 1KB chunk should fit on any machine running the tests
	if !ok {
		t.Errorf("CheckDiskSpace rejected a 1KB upload: %s", msg)
	}
}

func TestCheckDiskSpace_ImpossiblyLargeUpload(t *testing.T) {
	ok, msg, err := CheckDiskSpace(os.TempDir(), 1<<62)
	if err != nil {
		t.Fatalf("CheckDiskSpace failed: %v", err)
	}
	if ok {
		t.Error("CheckDiskSpace accepted an impossibly large upload")
	}
	if msg == "" {
		t.Error("rejection should carry a message")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KB"},
		{4 * 1024 * 1024, "4.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
		}
	}
}
