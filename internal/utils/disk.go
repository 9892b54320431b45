package utils

import (
	"fmt"
	"syscall"
)

const (
	// MinimumFreeSpace is the minimum free disk space required (in bytes)
	// before accepting more chunk data into the scratch area
	MinimumFreeSpace = 1 * 1024 * 1024 * 1024 // 1GB
)

// DiskSpaceInfo contains information about disk space
type DiskSpaceInfo struct {
	TotalBytes     uint64
	FreeBytes      uint64
	AvailableBytes uint64
	UsedBytes      uint64
	UsedPercent    float64
}

// GetDiskSpace returns disk space information for a given path
func GetDiskSpace(path string) (*DiskSpaceInfo, error) {
	var stat syscall.Statfs_t
	err := syscall.Statfs(path, &stat)
	if err != nil {
		return nil, fmt.Errorf("failed to get disk space: %w", err)
	}

	totalBytes := stat.Blocks * uint64(stat.Bsize)
	freeBytes := stat.Bfree * uint64(stat.Bsize)
	availableBytes := stat.Bavail * uint64(stat.Bsize) // Available to non-root users
	usedBytes := totalBytes - freeBytes
	usedPercent := float64(usedBytes) / float64(totalBytes) * 100

	return &DiskSpaceInfo{
		TotalBytes:     totalBytes,
		FreeBytes:      freeBytes,
		AvailableBytes: availableBytes,
		UsedBytes:      usedBytes,
		UsedPercent:    usedPercent,
	}, nil
}

// CheckDiskSpace reports whether the scratch area can absorb uploadSize more
// bytes while keeping the minimum free-space floor
func CheckDiskSpace(path string, uploadSize int64) (bool, string, error) {
	info, err := GetDiskSpace(path)
	if err != nil {
		return false, "Failed to check disk space", err
	}

	if info.AvailableBytes < MinimumFreeSpace {
		return false, "Insufficient disk space (less than 1GB available)", nil
	}

	if uint64(uploadSize) > info.AvailableBytes-MinimumFreeSpace {
		return false, "Upload exceeds available disk space", nil
	}

	return true, "", nil
}

// FormatBytes formats bytes into human-readable format
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
