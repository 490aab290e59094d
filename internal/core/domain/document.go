package domain

import "time"

// File name suffixes of the two artifacts sharing one identifier stem.
const (
	PayloadExt  = ".pdf"
	MetadataExt = ".metadata"
)

// Fixed metadata values understood by the document-management application.
const (
	// DocumentType is the type tag of every imported document.
	DocumentType = "DocumentType"

	// DefaultVisibleName is the display label of an imported document.
	DefaultVisibleName = "PDF import"
)

// Metadata is the sidecar record describing an imported document.
// Field order matches the key order the reader application writes itself.
type Metadata struct {
	Deleted          bool   `json:"deleted"`
	LastModified     int64  `json:"lastModified,string"`
	MetadataModified bool   `json:"metadatamodified"`
	Modified         bool   `json:"modified"`
	Parent           string `json:"parent"`
	Pinned           bool   `json:"pinned"`
	Synced           bool   `json:"synced"`
	Type             string `json:"type"`
	Version          int    `json:"version"`
	VisibleName      string `json:"visibleName"`
}

// NewMetadata returns the metadata record for a document committed at t.
// Everything except LastModified is constant.
func NewMetadata(t time.Time) Metadata {
	return Metadata{
		Deleted:          false,
		LastModified:     t.UnixMilli(),
		MetadataModified: true,
		Modified:         true,
		Parent:           "",
		Pinned:           false,
		Synced:           false,
		Type:             DocumentType,
		Version:          0,
		VisibleName:      DefaultVisibleName,
	}
}
