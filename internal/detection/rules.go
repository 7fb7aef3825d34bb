// LocShield - Real-Time GPS Spoofing Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/locshield

package detection

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Rules is the configurable rule table the Classifier evaluates.
type Rules struct {
	// TargetApp is the navigation package whose location reads are correlated
	// with mock-location activity. TargetLabel is the source recorded for it.
	TargetApp   string
	TargetLabel string

	LocationKeywords []string
	MockKeywords     []string
	ContextKeywords  []string

	// ExitKeywords combined with a SpoofTools name are process-exit evidence.
	ExitKeywords []string
	SpoofTools   []string

	CorrelationWindow time.Duration

	AccessThreshold   int
	AccessWindow      time.Duration
	MaxTrackedSources int

	BridgeMarker      string
	HighRiskThreshold int

	PermissionKeywords []string
	TrustedPackages    []string
}

// DefaultRules returns the stock rule table.
func DefaultRules() Rules {
	return Rules{
		TargetApp:         "com.google.android.apps.maps",
		TargetLabel:       "Google Maps",
		LocationKeywords:  []string{"location", "gps"},
		MockKeywords:      []string{"fake", "mock", "lexa", "gpsjoystick", "flygps"},
		ContextKeywords:   []string{"start", "service", "provider", "enabled"},
		ExitKeywords:      []string{"has died", "died", "killing", "force stop", "force-stop", "process exited"},
		SpoofTools:        []string{"com.lexa.fakegps", "com.theappninjas.gpsjoystick", "com.incorporateapps.fakegps.fre"},
		CorrelationWindow: 10 * time.Second,
		AccessThreshold:   50,
		AccessWindow:      10 * time.Minute,
		MaxTrackedSources: 1024,
		BridgeMarker:      "LOCSHIELD_BRIDGE",
		HighRiskThreshold: 8,
		PermissionKeywords: []string{
			"ACCESS_FINE_LOCATION",
			"ACCESS_COARSE_LOCATION",
			"ACCESS_BACKGROUND_LOCATION",
			"android:fine_location",
			"android:coarse_location",
		},
		TrustedPackages: []string{"android", "com.android.systemui", "com.google.android.gms", "com.google.android.apps.maps"},
	}
}

// Validate checks the rule table for values the Classifier cannot work with.
func (r Rules) Validate() error {
	if strings.TrimSpace(r.TargetApp) == "" {
		return fmt.Errorf("target app must not be empty")
	}
	if r.CorrelationWindow <= 0 {
		return fmt.Errorf("correlation window must be positive, got %v", r.CorrelationWindow)
	}
	if r.AccessThreshold < 1 {
		return fmt.Errorf("access threshold must be at least 1, got %d", r.AccessThreshold)
	}
	if r.AccessWindow <= 0 {
		return fmt.Errorf("access window must be positive, got %v", r.AccessWindow)
	}
	if r.MaxTrackedSources < 1 {
		return fmt.Errorf("max tracked sources must be at least 1, got %d", r.MaxTrackedSources)
	}
	if strings.TrimSpace(r.BridgeMarker) == "" {
		return fmt.Errorf("bridge marker must not be empty")
	}
	if r.HighRiskThreshold < 0 || r.HighRiskThreshold > 10 {
		return fmt.Errorf("high risk threshold must be 0-10, got %d", r.HighRiskThreshold)
	}
	return nil
}

// compiledRules holds the matchers built from a Rules table.
type compiledRules struct {
	target     string // lowercased TargetApp
	label      string
	location   *keywordSet
	mock       *keywordSet
	context    *keywordSet
	exit       *keywordSet
	tools      *keywordSet
	permission *keywordSet
	trusted    map[string]bool
	marker     string
}

func (r Rules) compile() compiledRules {
	label := r.TargetLabel
	if label == "" {
		label = r.TargetApp
	}
	trusted := make(map[string]bool, len(r.TrustedPackages)+1)
	for _, p := range r.TrustedPackages {
		if p = strings.TrimSpace(p); p != "" {
			trusted[p] = true
		}
	}
	trusted[r.TargetApp] = true

	return compiledRules{
		target:     strings.ToLower(strings.TrimSpace(r.TargetApp)),
		label:      label,
		location:   newKeywordSet(r.LocationKeywords),
		mock:       newKeywordSet(r.MockKeywords),
		context:    newKeywordSet(r.ContextKeywords),
		exit:       newKeywordSet(r.ExitKeywords),
		tools:      newKeywordSet(r.SpoofTools),
		permission: newKeywordSet(r.PermissionKeywords),
		trusted:    trusted,
		marker:     strings.TrimSpace(r.BridgeMarker),
	}
}

// packageToken matches dotted Java package names such as com.example.app.
var packageToken = regexp.MustCompile(`\b[a-zA-Z][a-zA-Z0-9_]*(?:\.[a-zA-Z][a-zA-Z0-9_]*)+\b`)

// frameworkPrefixes are dotted names that are never the requesting package.
var frameworkPrefixes = []string{
	"android.permission.",
	"android.intent.",
	"android.content.",
	"android.os.",
	"java.",
	"javax.",
}

// requestingPackage returns the first package name in line that is not a
// framework identifier, or "".
func requestingPackage(line string) string {
	for _, tok := range packageToken.FindAllString(line, -1) {
		framework := false
		for _, prefix := range frameworkPrefixes {
			if strings.HasPrefix(tok, prefix) {
				framework = true
				break
			}
		}
		if !framework {
			return tok
		}
	}
	return ""
}
