package entity

type Message struct {
	Type        string // "email"
	Subject     string
	Message     string
	Recipients  []string
	ContentType string // "text/plain" or "text/html"
}
