package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertGoogleDriveLink(t *testing.T) {
	url := ConvertDriveLink("https://drive.google.com/file/d/1AbC_dEf-123/view?usp=sharing", DrivePlatformGoogle)
	assert.Equal(t, "https://drive.google.com/uc?export=download&id=1AbC_dEf-123", url)
}

func TestConvertGoogleDriveLinkNoFileID(t *testing.T) {
	original := "https://drive.google.com/drive/folders/abc"
	assert.Equal(t, original, ConvertDriveLink(original, DrivePlatformGoogle))
}

func TestConvertOneDriveLink(t *testing.T) {
	assert.Equal(t,
		"https://1drv.ms/w/s!share?download=1",
		ConvertDriveLink("https://1drv.ms/w/s!share", DrivePlatformOneDrive))

	assert.Equal(t,
		"https://1drv.ms/w/s!share?e=x&download=1",
		ConvertDriveLink("https://1drv.ms/w/s!share?e=x", DrivePlatformOneDrive))
}

func TestConvertOneDriveLinkAlreadyDirect(t *testing.T) {
	original := "https://1drv.ms/w/s!share?download=1"
	assert.Equal(t, original, ConvertDriveLink(original, DrivePlatformOneDrive))
}

func TestConvertDriveLinkUnknownPlatform(t *testing.T) {
	original := "https://example.com/file"
	assert.Equal(t, original, ConvertDriveLink(original, DrivePlatform("dropbox")))
}
