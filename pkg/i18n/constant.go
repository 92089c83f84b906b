package i18n

var ALLOW_LANG = map[string]bool{
	"en": true,
	"es": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL          = "error.internal"
	ERROR_NOT_FOUND         = "error.notfound"
	ERROR_INVALIDARGUMENT   = "error.invalidargument"
	ERROR_UNAUTHORIZED      = "error.unauthorized"
	ERROR_FORBIDDEN         = "error.forbidden"
	ERROR_TOO_MANY_REQUESTS = "error.tooManyRequests"

	// ERROR_SHARE_INVALID is deliberately the only message for a missing
	// token, an expired token, an exhausted view limit and a wrong
	// password, so a caller probing links learns nothing from the wording.
	ERROR_SHARE_INVALID           = "error.share.invalid"
	ERROR_SHARE_PASSWORD_REQUIRED = "error.share.password_required"

	ERROR_MISSING_REQUIRED_FIELDS = "error.form.missing_required_fields"
	ERROR_PAYLOAD_TOO_LARGE       = "error.file.payload_too_large"
	ERROR_UNSUPPORTED_MEDIA_TYPE  = "error.file.unsupported_media_type"

	ERROR_RESOURCE_FINALIZED = "error.resource.finalized"
	ERROR_BUNDLE_FINALIZED   = "error.bundle.finalized"
	ERROR_BUNDLE_EMPTY       = "error.bundle.empty"
	ERROR_ILLEGAL_TRANSITION = "error.status.illegal_transition"
)
