package common

import "regexp"

// UserIDMetadataKey is the gRPC metadata key carrying the verified caller id
// from the gateway to the content service.
const UserIDMetadataKey = "user-id"

// AuthorizationHeader is the HTTP header carrying bearer credentials.
const AuthorizationHeader = "Authorization"

// BearerScheme is the only accepted Authorization scheme.
const BearerScheme = "Bearer"

// Pagination limits shared by the gateway and the content service.
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// EmailPattern is the accepted shape of an email address.
var EmailPattern = regexp.MustCompile(`^[\w.+-]+@[\w-]+\.[\w.-]+$`)
