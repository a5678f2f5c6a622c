package model

// Document is a rendered feed file ready to be published.
type Document struct {
	Name string
	Body []byte
}
