package version

import (
	"fmt"
	"runtime"
)

// Overridden at build time with -ldflags "-X".
var (
	Version   = "0.1.0"
	AppName   = "storefront"
	BuildDate = "unknown"
)

type Info struct {
	AppName   string `json:"appName"`
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

func GetInfo() Info {
	return Info{
		AppName:   AppName,
		Version:   Version,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
