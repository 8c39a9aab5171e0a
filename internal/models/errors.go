package models

import "errors"

// Common errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned when a resource already exists (e.g., duplicate slug)
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrNoFieldsToUpdate is returned when no fields are provided for an update
	ErrNoFieldsToUpdate = errors.New("no fields to update")

	// ErrInvalidUUID is returned when a UUID is invalid
	ErrInvalidUUID = errors.New("invalid UUID")

	// ErrInvalidZone is returned when a zone identifier is not in the zone registry
	ErrInvalidZone = errors.New("unknown placement zone")

	// ErrInvalidContentType is returned when a content type is not recognised
	ErrInvalidContentType = errors.New("invalid content type")

	// ErrInvalidSlug is returned when a slug contains characters outside [a-z0-9-]
	ErrInvalidSlug = errors.New("invalid slug")

	// ErrInvalidEmail is returned when an email address fails validation
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrContentNotPublished is returned when placing content that is not published
	ErrContentNotPublished = errors.New("content is not published")

	// ErrInvalidZoneMode is returned when a zone policy mode is not manual or auto
	ErrInvalidZoneMode = errors.New("zone mode must be manual or auto")

	// ErrInvalidPriority is returned when a placement priority tag is not recognised
	ErrInvalidPriority = errors.New("priority must be normal or high")

	// ErrInvalidWindow is returned when a placement window ends before it starts
	ErrInvalidWindow = errors.New("placement window ends before it starts")
)
