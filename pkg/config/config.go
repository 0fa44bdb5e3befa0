// Package config loads the Azure service principal credentials the server
// authenticates with. All four values are required and read once at startup.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Environment variable names for the service principal.
const (
	EnvTenantID       = "AZURE_TENANT_ID"
	EnvClientID       = "AZURE_CLIENT_ID"
	EnvClientSecret   = "AZURE_CLIENT_SECRET"
	EnvSubscriptionID = "AZURE_SUBSCRIPTION_ID"
)

// Credentials holds the service principal identity used by every Azure call.
// It is built once in main and shared read-only by all concurrent calls.
type Credentials struct {
	TenantID       string
	ClientID       string
	ClientSecret   string
	SubscriptionID string
}

// MissingEnvError reports which required environment variables were absent.
type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Names, ", "))
}

// FromEnv reads the credentials from the environment. It collects every
// missing variable rather than stopping at the first, so the operator sees
// the complete list in one run.
func FromEnv() (*Credentials, error) {
	creds := &Credentials{
		TenantID:       os.Getenv(EnvTenantID),
		ClientID:       os.Getenv(EnvClientID),
		ClientSecret:   os.Getenv(EnvClientSecret),
		SubscriptionID: os.Getenv(EnvSubscriptionID),
	}

	var missing []string
	for _, v := range []struct {
		name  string
		value string
	}{
		{EnvTenantID, creds.TenantID},
		{EnvClientID, creds.ClientID},
		{EnvClientSecret, creds.ClientSecret},
		{EnvSubscriptionID, creds.SubscriptionID},
	} {
		if v.value == "" {
			missing = append(missing, v.name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingEnvError{Names: missing}
	}
	return creds, nil
}
