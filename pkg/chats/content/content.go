// Package content defines the content parts a message is composed of.
package content

// Part is a piece of content within a message.
type Part interface {
	PartKind() string
}

// Text is a plain text content part.
type Text struct {
	Text string
}

func (t Text) PartKind() string { return "text" }

// Image is an image content part. URL is usually a base64 data URI built from
// a staged attachment, but any URL the API accepts works.
type Image struct {
	URL       string
	MediaType string
}

func (i Image) PartKind() string { return "image" }
