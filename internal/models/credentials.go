package models

// Credential names recognised by the store. The live source requires the
// first five; the AWS fields are optional and only used by role-signed
// deployments.
const (
	CredClientID      = "client_id"
	CredClientSecret  = "client_secret"
	CredRefreshToken  = "refresh_token"
	CredSellerID      = "seller_id"
	CredMarketplaceID = "marketplace_id"

	CredAWSAccessKeyID     = "aws_access_key_id"
	CredAWSSecretAccessKey = "aws_secret_access_key"
	CredAWSRegion          = "aws_region"
	CredAWSRoleARN         = "aws_role_arn"
)

// RequiredLiveCredentials lists the fields the live source needs before a
// network call is attempted.
var RequiredLiveCredentials = []string{
	CredClientID,
	CredClientSecret,
	CredRefreshToken,
	CredSellerID,
	CredMarketplaceID,
}

// Credentials is an immutable set of named secrets, loaded once at startup.
// Lookups never fail: an absent name returns ok=false so callers can test
// completeness without error handling.
type Credentials struct {
	values map[string]string
}

// NewCredentials builds a credential set from a name/value map.
// Empty values are treated as absent. The input map is copied.
func NewCredentials(values map[string]string) Credentials {
	copied := make(map[string]string, len(values))
	for name, value := range values {
		if value == "" {
			continue
		}
		copied[name] = value
	}
	return Credentials{values: copied}
}

// Get returns the value for a credential name, or ok=false when absent.
func (c Credentials) Get(name string) (string, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Complete reports whether all required live-source fields are present.
func (c Credentials) Complete() bool {
	return len(c.Missing()) == 0
}

// Missing returns the required live-source fields that are absent.
// Names only; values are never exposed through this path.
func (c Credentials) Missing() []string {
	var missing []string
	for _, name := range RequiredLiveCredentials {
		if _, ok := c.values[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
