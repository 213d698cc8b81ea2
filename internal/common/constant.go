package common

// AccessTokenTTLSeconds is the lifetime of an issued access token as
// reported to clients in the expiresIn field.
const AccessTokenTTLSeconds = 3600
