package plugin

import (
	"fmt"
	"strings"
)

// Info contains plugin metadata
type Info struct {
	ID          string   // Reverse-DNS identifier (e.g., "com.example.myplugin")
	Name        string   // Display name
	Vendor      string   // Company/developer name
	URL         string   // Product page
	ManualURL   string   // User manual
	SupportURL  string   // Support page
	Version     string   // Free-form version (e.g., "1.0.0")
	Description string   // One-line description
	Features    []string // CLAP feature strings (clap.Feature*)
}

// Validate checks the fields hosts rely on. Optional strings may be empty.
func (i Info) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("plugin id must not be empty")
	}
	if strings.ContainsAny(i.ID, " \t\n") {
		return fmt.Errorf("plugin id %q must not contain whitespace", i.ID)
	}
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("plugin %s: name must not be empty", i.ID)
	}
	for n, f := range i.Features {
		if f == "" {
			return fmt.Errorf("plugin %s: feature %d is empty", i.ID, n)
		}
	}
	return nil
}

// HasFeature reports whether the descriptor lists feature.
func (i Info) HasFeature(feature string) bool {
	for _, f := range i.Features {
		if f == feature {
			return true
		}
	}
	return false
}
