package common

import (
	"fmt"
	"strings"
)

// Tamaños IIIF usados por las plantillas de imagen.
const (
	IIIFSizeMax   = "max"
	IIIFSizeFull  = "full"
	IIIFSizeSmall = "400,"
)

// IIIFImageURL builds "{base}/{id}/full/{size}/0/default.jpg". base is the
// image service root (without trailing slash). An empty id yields "".
func IIIFImageURL(base, id, size string) string {
	id = strings.Trim(strings.TrimSpace(id), "/")
	if id == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/full/%s/0/default.jpg", strings.TrimRight(base, "/"), id, size)
}

// IIIFFromServiceURL appends the region/size/rotation/quality suffix to a
// complete image service URL (Harvard iiifbaseuri). An empty url yields "".
func IIIFFromServiceURL(serviceURL, size string) string {
	serviceURL = strings.TrimRight(strings.TrimSpace(serviceURL), "/")
	if serviceURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/full/%s/0/default.jpg", serviceURL, size)
}

// LastPathSegment returns the trailing segment of a URL-shaped identifier,
// ignoring query and fragment.
func LastPathSegment(u string) string {
	u = strings.TrimSpace(u)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	u = strings.TrimRight(u, "/")
	if i := strings.LastIndex(u, "/"); i >= 0 {
		return u[i+1:]
	}
	return u
}
