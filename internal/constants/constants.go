package constants

// Serial allocation constants.
const (
	// SerialFloor is the lowest serial number ever assigned.
	SerialFloor = 100000000
	// DefaultMaxDeliveries caps proof-of-delivery submissions per serial.
	DefaultMaxDeliveries = 544
)

// Request code constants.
const (
	RequestCodePrefix = "CI"
	RequestCodeLength = 8
)

// Storage prefixes. Names stay in Spanish to keep object paths
// compatible with the asset layout printing already depends on.
const (
	StoragePrefixLogos      = "logos_empresas"
	StoragePrefixPhotos     = "entregas/fotos"
	StoragePrefixSignatures = "entregas/firmas"
)

// Storage driver names.
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

// Queue constants.
const (
	QueueDefault             = "default"
	TaskDeliveryReceiptEmail = "delivery:receipt_email"
)

// Cache constants.
const (
	RedisPrefixDefault = "eqr"
)

// Export format constants.
const (
	ExportFormatCSV = "csv"
)
