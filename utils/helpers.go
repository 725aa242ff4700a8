/*
Package utils provides helper functions for the RSS feed frontend.
*/
package utils

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
)

// GenerateRequestID generates a unique request ID
func GenerateRequestID() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()[:8]
}

// GenerateSessionID generates a new viewer session ID
func GenerateSessionID() string {
	return uuid.NewString()
}

// ValidSessionID reports whether id looks like an ID produced by GenerateSessionID
func ValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// LoadLocation resolves an IANA zone name. "" and "Local" select the process zone.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}
