package controllers

import "time"

// Default configuration values
const (
	DefaultCacheTTL       = 10 * time.Minute
	DefaultContextTimeout = 30 * time.Second
	UploadContextTimeout  = 2 * time.Minute
)
