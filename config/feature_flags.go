package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages feature toggles for optional behaviors. Flags are
// read once from the environment at startup; SetEnabled exists for tests.
type FeatureFlags struct {
	mu       sync.RWMutex
	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	// === Roster Features ===
	FeatureRosterStats = "roster.stats" // Per-status counts endpoint

	// === Notification Features ===
	FeatureNotifyFeed = "notify.feed" // In-memory notification feed endpoint
	FeatureNotifyLog  = "notify.log"  // Mirror notifications into the log

	// === Auth Features ===
	FeatureAuthOpenSignup = "auth.open_signup" // Allow self-service account creation
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	ff.features[FeatureRosterStats] = &Feature{
		Name:        FeatureRosterStats,
		Description: "Expose per-status roster counts",
		Enabled:     true,
	}

	ff.features[FeatureNotifyFeed] = &Feature{
		Name:        FeatureNotifyFeed,
		Description: "Keep recent mutation notifications for the UI",
		Enabled:     true,
	}

	ff.features[FeatureNotifyLog] = &Feature{
		Name:        FeatureNotifyLog,
		Description: "Write mutation notifications to the structured log",
		Enabled:     true,
	}

	ff.features[FeatureAuthOpenSignup] = &Feature{
		Name:        FeatureAuthOpenSignup,
		Description: "Allow anyone to create an account",
		Enabled:     true,
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false
// Example: FEATURE_NOTIFY_LOG=false
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "notify.feed" -> "FEATURE_NOTIFY_FEED"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled. Unknown names are disabled.
func (ff *FeatureFlags) IsEnabled(featureName string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}
	return feature.Enabled
}

// SetEnabled overrides a flag at runtime.
func (ff *FeatureFlags) SetEnabled(featureName string, enabled bool) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}
	feature.Enabled = enabled
	return nil
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Errors ---

// ErrFeatureNotFound is returned when toggling an unknown flag.
var ErrFeatureNotFound = &FeatureFlagError{Message: "feature not found"}

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
