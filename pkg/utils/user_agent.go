package utils

import (
	"fmt"
	"strings"

	"github.com/avct/uasurfer"
)

type UserAgentInfo struct {
	Device  string
	OS      string
	Browser string
	Locale  string
	Bot     bool
}

// IsBot flags crawlers by the literal "bot" marker or by uasurfer's classification.
func IsBot(uaString string) bool {
	if uaString == "" {
		return false
	}
	if strings.Contains(strings.ToLower(uaString), "bot") {
		return true
	}
	return uasurfer.Parse(uaString).IsBot()
}

// ParseUserAgent classifies a User-Agent and takes the first Accept-Language tag as locale.
func ParseUserAgent(uaString string, acceptLanguage string) *UserAgentInfo {
	ua := uasurfer.Parse(uaString)

	device := "Unknown"
	switch ua.DeviceType {
	case uasurfer.DeviceComputer:
		device = "Computer"
	case uasurfer.DeviceTablet:
		device = "Tablet"
	case uasurfer.DevicePhone:
		device = "Phone"
	case uasurfer.DeviceConsole:
		device = "Console"
	case uasurfer.DeviceWearable:
		device = "Wearable"
	case uasurfer.DeviceTV:
		device = "TV"
	}

	locale, _, _ := strings.Cut(acceptLanguage, ",")

	return &UserAgentInfo{
		Device:  device,
		OS:      fmt.Sprintf("%s %d.%d", ua.OS.Name.String(), ua.OS.Version.Major, ua.OS.Version.Minor),
		Browser: fmt.Sprintf("%s %d.%d", ua.Browser.Name.String(), ua.Browser.Version.Major, ua.Browser.Version.Minor),
		Locale:  strings.TrimSpace(locale),
		Bot:     IsBot(uaString),
	}
}
