package enums

import "strings"

type BodyType string

const (
	BodyTypeInvalid BodyType = ""

	// BodyTypeText sends the digest as text/plain with a greeting and closing line.
	BodyTypeText BodyType = "text"

	// BodyTypeHTML sends the digest as text/html inside a styled skeleton.
	BodyTypeHTML BodyType = "html"
)

func ParseBodyType(s string) BodyType {
	switch BodyType(strings.ToLower(strings.TrimSpace(s))) {
	case BodyTypeText, "plain":
		return BodyTypeText
	case BodyTypeHTML:
		return BodyTypeHTML
	default:
		return BodyTypeInvalid
	}
}

// ContentType returns the MIME type of a body of this type.
func (b BodyType) ContentType() string {
	if b == BodyTypeHTML {
		return "text/html"
	}
	return "text/plain"
}
