package service

import (
	"fmt"
	"regexp"
	"strings"
)

// DrivePlatform enumerates supported shared-drive providers.
type DrivePlatform string

const (
	DrivePlatformGoogle   DrivePlatform = "google_drive"
	DrivePlatformOneDrive DrivePlatform = "one_drive"
)

var googleFileIDPattern = regexp.MustCompile(`/d/([\w-]+)`)

// ConvertDriveLink rewrites a shared drive link into a direct-download URL.
// Unrecognised links are returned unchanged.
func ConvertDriveLink(url string, platform DrivePlatform) string {
	switch platform {
	case DrivePlatformGoogle:
		if m := googleFileIDPattern.FindStringSubmatch(url); m != nil {
			return fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", m[1])
		}
	case DrivePlatformOneDrive:
		if !strings.Contains(url, "download=1") {
			separator := "?"
			if strings.Contains(url, "?") {
				separator = "&"
			}
			return url + separator + "download=1"
		}
	}
	return url
}
