package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/courtbook/booking-system/models"
	"github.com/courtbook/booking-system/storage"
)

func populateVenueImageURL(venue *models.Venue, uploader storage.FileUploader) {
	if venue != nil && venue.ImageKey != nil && *venue.ImageKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*venue.ImageKey)
		if url != "" {
			venue.ImageURL = &url
		}
	}
}

func populateVenueListImageURLs(venues []models.Venue, uploader storage.FileUploader) {
	if uploader == nil {
		return
	}
	for i := range venues {
		populateVenueImageURL(&venues[i], uploader)
	}
}

// dateHasPassed: строго раньше сегодняшнего дня. Слот "сегодня"
// ещё считается будущим для возврата монеты.
func dateHasPassed(date, now time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	slotDay := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	today := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return slotDay.Before(today)
}

func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			ext := "." + strings.Split(parts[1], "+")[0]
			return ext, nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: '%s'", contentType)
	}
}
