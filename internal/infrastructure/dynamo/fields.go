package dynamo

// DynamoDB attribute names used in key, condition and update expressions.
const (
	fieldGrantID    = "grant_id"
	fieldRedeemedAt = "redeemed_at"
	fieldExpiresAt  = "expires_at"
)
