package models

import "github.com/kova98/aidigest/enums"

type Email struct {
	From     string
	To       string
	Subject  string
	Body     string
	BodyType enums.BodyType
	Headers  map[string]string
}
