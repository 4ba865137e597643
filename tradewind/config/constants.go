package config

import "time"

// Application-wide constants organized by domain

// Marketplace rules
const (
	// Maximum simultaneously active listings per user. The numeric value
	// is surfaced in the quota error message.
	MaxActiveListings = 3

	// Default retention window for listings; rows older than this are
	// removed by the sweep regardless of status.
	DefaultListingRetention = 7 * 24 * time.Hour

	// Content written in place of a deleted message. The row is kept so
	// replies pointing at it stay valid.
	MessageTombstone = "[message deleted]"

	// Profile placeholder used when a referenced user cannot be resolved.
	UnknownUsername = "Unknown User"
)

// Pagination
const (
	ItemsPerPage        = 7
	DefaultMessageLimit = 50
	MaxMessageLimit     = 100
)

// Database and performance
const (
	DefaultQueryTimeout = 30 * time.Second
	SearchTimeout       = 10 * time.Second
	SweepInterval       = 15 * time.Minute
	BatchQueryTimeout   = 30 * time.Second
)

// Image handling
const (
	MaxImageSize         = 10 * 1024 * 1024 // 10MB
	ImageCacheSize       = 512
	ImageCacheExpiration = 24 * time.Hour
	ItemImageRoot        = "items/"
)

// Rate limiting
const (
	APIRateLimit    = 100
	AuthRateLimit   = 5
	RateLimitWindow = 1 * time.Minute
)

// Discord embed colors
const (
	ErrorColor   = 0xFF0000
	SuccessColor = 0x00FF00
	InfoColor    = 0x0099FF
	WarningColor = 0xFFAA00
)
