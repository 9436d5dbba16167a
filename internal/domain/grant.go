package domain

import "time"

// GrantToken is the opaque, user-presentable single-use credential.
type GrantToken string

// GrantRequest describes the access to issue once a requester is verified.
type GrantRequest struct {
	ResourceID string
	SingleUse  bool
	Identity   Identity
	Email      string
}

// Grant is the ledger record behind a GrantToken.
// PK: grant_id. ExpiresAt is a Unix timestamp used as DynamoDB TTL; zero means the grant never expires.
type Grant struct {
	GrantID    string     `json:"id" dynamodbav:"grant_id"`
	ResourceID string     `json:"resource_id" dynamodbav:"resource_id"`
	Identity   string     `json:"identity" dynamodbav:"identity"`
	Email      string     `json:"email" dynamodbav:"email"`
	SingleUse  bool       `json:"single_use" dynamodbav:"single_use"`
	CreatedAt  time.Time  `json:"created" dynamodbav:"created_at"`
	RedeemedAt *time.Time `json:"redeemed_at,omitempty" dynamodbav:"redeemed_at,omitempty"`
	ExpiresAt  int64      `json:"expires_at,omitempty" dynamodbav:"expires_at,omitempty"`
}
