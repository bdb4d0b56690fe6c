package models

import "strings"

// ImageBaseURL serves original-size artwork for poster, backdrop and profile paths.
const ImageBaseURL = "https://image.tmdb.org/t/p/original"

// ImageURL returns the absolute artwork URL for a TMDb image path, or "" when the path is empty.
func ImageURL(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return ImageBaseURL + path
}
