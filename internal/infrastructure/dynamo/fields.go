package dynamo

// DynamoDB attribute names used in keys, indexes and update expressions.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldUserID       = "user_id"
	fieldEmail        = "email"
	fieldPhone        = "phone"
	fieldName         = "name"
	fieldOTPCode      = "otp_code"
	fieldOTPExpiresAt = "otp_expires_at"
	fieldUpdatedAt    = "updated_at"
	fieldUniqueKey    = "unique_key"

	indexEmail = "email-index"
	indexPhone = "phone-index"
)
