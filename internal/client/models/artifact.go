package models

// Artifact is a binary download: an exported patient record, a SOAP
// document or an analytics report.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}
