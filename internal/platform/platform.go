// Package platform detects the operating system and graphical session type.
package platform

import (
	"os"
	"runtime"
	"strings"
)

// OS is a supported operating system family.
type OS string

const (
	Linux   OS = "linux"
	Mac     OS = "darwin"
	Windows OS = "windows"
	Unknown OS = "unknown"
)

// Session is the display server of a Unix desktop session.
type Session string

const (
	SessionNone    Session = ""
	SessionX11     Session = "x11"
	SessionWayland Session = "wayland"
)

// Info describes the environment the process runs in.
type Info struct {
	OS      OS
	Session Session
}

// Detect inspects the running process.
func Detect() Info {
	return DetectFrom(runtime.GOOS, os.Getenv)
}

// DetectFrom classifies goos and the session variables read through getenv.
// XDG_SESSION_TYPE wins; otherwise WAYLAND_DISPLAY and DISPLAY are consulted.
func DetectFrom(goos string, getenv func(string) string) Info {
	info := Info{OS: Unknown}
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
		info.OS = Linux
	case "darwin":
		info.OS = Mac
	case "windows":
		info.OS = Windows
	}
	if info.OS != Linux {
		return info
	}

	switch strings.ToLower(getenv("XDG_SESSION_TYPE")) {
	case "wayland":
		info.Session = SessionWayland
	case "x11":
		info.Session = SessionX11
	default:
		switch {
		case getenv("WAYLAND_DISPLAY") != "":
			info.Session = SessionWayland
		case getenv("DISPLAY") != "":
			info.Session = SessionX11
		}
	}
	return info
}
