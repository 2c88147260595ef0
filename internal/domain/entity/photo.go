// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProfilePhoto records an uploaded image. The bytes themselves live in blob
// storage; this entity only carries the storage key and display metadata.
type ProfilePhoto struct {
	ID          uuid.UUID // The Global Unique Identifier (GUID) for the photo record.
	UserID      uuid.UUID // The user who uploaded the photo.
	StorageKey  string    // Key of the object in blob storage.
	ContentType string    // MIME type of the stored image.
	SizeBytes   int64     // Size of the stored object.
	Checksum    string    // SHA-256 checksum of the uploaded bytes.
	CreatedAt   time.Time // Timestamp of when this photo was uploaded.
}
