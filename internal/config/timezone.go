package config

import "strings"

// timezoneAbbreviations maps common abbreviations to IANA identifiers.
var timezoneAbbreviations = map[string]string{
	"IST":  "Asia/Kolkata",
	"EST":  "America/New_York",
	"CST":  "America/Chicago",
	"MST":  "America/Denver",
	"PST":  "America/Los_Angeles",
	"GMT":  "Europe/London",
	"BST":  "Europe/London",
	"CET":  "Europe/Berlin",
	"EET":  "Europe/Athens",
	"JST":  "Asia/Tokyo",
	"AEST": "Australia/Sydney",
	"MSK":  "Europe/Moscow",
	"EAT":  "Africa/Nairobi",
	"WAT":  "Africa/Lagos",
}

// ResolveTimezone converts a known abbreviation to its IANA name. Anything
// else is returned trimmed and otherwise unchanged.
func ResolveTimezone(tz string) string {
	tz = strings.TrimSpace(tz)
	if iana, ok := timezoneAbbreviations[strings.ToUpper(tz)]; ok {
		return iana
	}
	return tz
}
