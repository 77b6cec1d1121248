package shared

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors
	ErrConfiguration = fmt.Errorf("configuration error")

	// Authentication errors
	ErrAuthentication = fmt.Errorf("authentication failed")
	ErrTimeout        = fmt.Errorf("operation timed out")

	// API errors
	ErrNotFound     = fmt.Errorf("resource not found")
	ErrTransientAPI = fmt.Errorf("API request failed")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
)

// IsFatal reports whether err must stop the process instead of returning to the menu.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrAuthentication)
}

// ExitCode maps an error returned from the command tree to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	return 1
}

// Remediation returns user-facing guidance for startup failures, or an empty string.
func Remediation(err error) string {
	switch {
	case errors.Is(err, ErrConfiguration):
		return "Spotify credentials could not be loaded.\n" +
			"Create a .env file (or config.toml) containing ALL of the following:\n" +
			"\tSPOTIFY_CLIENT_ID=your-id\n" +
			"\tSPOTIFY_CLIENT_SECRET=your-secret\n" +
			"\tSPOTIFY_REDIRECT_URI=your-url\n"
	case errors.Is(err, ErrAuthentication):
		return "Spotify authentication failed. Check the credentials in your .env file.\n" +
			"Hint: the redirect URI must match the app settings exactly.\n" +
			"      When using a tunnel (e.g. 'ngrok http 8888'), copy its HTTPS URL\n" +
			"      plus the callback path into SPOTIFY_REDIRECT_URI and the dashboard.\n"
	default:
		return ""
	}
}
