package gcp

import (
	"os"
	"strings"

	"google.golang.org/api/option"
)

// ClientOptionsFromEnv builds the shared option set for GCP clients.
// GOOGLE_APPLICATION_CREDENTIALS is honored by the SDK automatically;
// GCP_CREDENTIALS_FILE overrides it explicitly.
func ClientOptionsFromEnv() []option.ClientOption {
	opts := []option.ClientOption{}
	if f := strings.TrimSpace(os.Getenv("GCP_CREDENTIALS_FILE")); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}
	return opts
}
