package service

import "errors"

// Sentinel errors mapped to envelope codes in the handlers.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrWeakPassword       = errors.New("password too weak")

	ErrClientNotFound      = errors.New("client not found")
	ErrClientSlugTaken     = errors.New("client slug already in use")
	ErrProductNotFound     = errors.New("product not found")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrTemplateNameInvalid = errors.New("template name may only contain letters, digits, dot, dash and underscore")
	ErrTemplateNameTaken   = errors.New("template name already in use for this client")
	ErrRequestNotFound     = errors.New("request not found")
	ErrSerialNotFound      = errors.New("serial not found")

	ErrInvalidSerialCount = errors.New("serial count must be positive")
	ErrInvalidStatus      = errors.New("invalid serial status")

	ErrRangeCountMismatch = errors.New("range count mismatch")
	ErrRangeInverted      = errors.New("range start exceeds range end")

	ErrDeliveryQuotaExhausted = errors.New("delivery quota exhausted")
	ErrDeliveryNotAllowed     = errors.New("delivery capture is not enabled for this serial")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)
