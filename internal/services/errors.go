package services

import "github.com/localnerve/itemsetgroup/internal/omeka"

// Sentinel errors shared with the store
var (
	ErrNotFound  = omeka.ErrNotFound
	ErrForbidden = omeka.ErrForbidden
)
