package service

import (
	"fmt"
	"strings"

	"fotomuro/api/internal/models"
)

// PlaceholderName is the zero-content object written into each folder
// of a new event. The backend has no empty-directory concept, so the
// placeholder is what makes a folder listable; it is filtered out of
// every image listing.
const PlaceholderName = "placeholder.webp"

const thumbPrefix = "thumb_"

func folderPath(eventPrefix, folder string) string {
	return fmt.Sprintf("%s/%s", eventPrefix, folder)
}

func blobPath(eventPrefix, folder, filename string) string {
	return fmt.Sprintf("%s/%s/%s", eventPrefix, folder, filename)
}

func thumbPath(eventPrefix, filename string) string {
	return blobPath(eventPrefix, models.FolderThumbnails, thumbPrefix+filename)
}

// hashStem recovers the metadata key from a stored filename.
func hashStem(filename string) string {
	return strings.TrimSuffix(filename, ".webp")
}

// validSegment rejects anything that could escape its folder when
// joined into a blob path.
func validSegment(s string) bool {
	return s != "" && !strings.Contains(s, "/") && !strings.Contains(s, "\\") && s != "." && s != ".."
}

// isImageFile filters listing entries down to displayable images,
// dropping the folder placeholder and stray non-image objects.
func isImageFile(name string) bool {
	if name == "" || name == PlaceholderName {
		return false
	}
	lower := strings.ToLower(name)
	for _, ext := range []string{".webp", ".jpg", ".jpeg", ".png", ".gif"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
