package config

import (
	"errors"
	"os"
	"strings"
)

// Environment variable names of the connection parameters.
const (
	EnvAPIKey            = "FIREBASE_API_KEY"
	EnvAuthDomain        = "FIREBASE_AUTH_DOMAIN"
	EnvProjectID         = "FIREBASE_PROJECT_ID"
	EnvStorageBucket     = "FIREBASE_STORAGE_BUCKET"
	EnvMessagingSenderID = "FIREBASE_MESSAGING_SENDER_ID"
	EnvAppID             = "FIREBASE_APP_ID"

	// legacyPrefix is accepted so an existing web .env can be sourced as is.
	legacyPrefix = "NEXT_PUBLIC_"
)

// ErrNoProjectID is returned when no project id is configured.
var ErrNoProjectID = errors.New("no project id configured (set " + EnvProjectID + ")")

// Firebase holds the six connection parameters of the remote store.
// There are no defaults.
type Firebase struct {
	APIKey            string
	AuthDomain        string
	ProjectID         string
	StorageBucket     string
	MessagingSenderID string
	AppID             string
}

// FirebaseFromEnv loads the connection parameters from environment variables.
// Each FIREBASE_* variable falls back to its NEXT_PUBLIC_FIREBASE_* form.
func FirebaseFromEnv() Firebase {
	return Firebase{
		APIKey:            getEnv(EnvAPIKey),
		AuthDomain:        getEnv(EnvAuthDomain),
		ProjectID:         getEnv(EnvProjectID),
		StorageBucket:     getEnv(EnvStorageBucket),
		MessagingSenderID: getEnv(EnvMessagingSenderID),
		AppID:             getEnv(EnvAppID),
	}
}

// Validate checks the parameters needed to address the database.
// The remaining parameters are passed through unchecked.
func (f Firebase) Validate() error {
	if f.ProjectID == "" {
		return ErrNoProjectID
	}
	return nil
}

// Pairs returns the parameters as (env name, value) pairs in a stable order.
// The API key is masked.
func (f Firebase) Pairs() [][2]string {
	return [][2]string{
		{EnvAPIKey, mask(f.APIKey)},
		{EnvAuthDomain, f.AuthDomain},
		{EnvProjectID, f.ProjectID},
		{EnvStorageBucket, f.StorageBucket},
		{EnvMessagingSenderID, f.MessagingSenderID},
		{EnvAppID, f.AppID},
	}
}

func getEnv(key string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return strings.TrimSpace(os.Getenv(legacyPrefix + key))
}

// mask keeps the last four characters of a secret.
func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
