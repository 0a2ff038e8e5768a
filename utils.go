package main

import (
	"os"
	"path/filepath"
	"runtime"
)

func systemInformation() (OperatingSystem, Architecture) {
	var sys OperatingSystem
	var arch Architecture

	switch runtime.GOOS {
	case "windows":
		sys = Windows
	case "darwin":
		sys = Mac
	default:
		sys = Linux
	}

	switch runtime.GOARCH {
	case "arm64":
		arch = Arm64
	default:
		arch = x86
	}

	return sys, arch
}

// localAppData returns the per-user directory applications install into.
//
// Windows - %LocalAppData%, or C:\Users\<USERNAME>\AppData\Local when unset
// Mac - $HOME/Library/Application Support
// Linux - $XDG_DATA_HOME, or $HOME/.local/share
func localAppData(sys OperatingSystem, getenv func(string) string) string {
	switch sys {
	case Windows:
		if dir := getenv("LOCALAPPDATA"); dir != "" {
			return dir
		}
		user := getenv("USERNAME")
		if user == "" {
			user = "User"
		}
		return filepath.Join(`C:\Users`, user, "AppData", "Local")
	case Mac:
		return filepath.Join(getenv("HOME"), "Library", "Application Support")
	default:
		if dir := getenv("XDG_DATA_HOME"); dir != "" {
			return dir
		}
		return filepath.Join(getenv("HOME"), ".local", "share")
	}
}

// installedAppPath is where the installer puts the application executable.
// - Example: installedAppPath(Windows, "Zayit", "Zayit.exe")
func installedAppPath(sys OperatingSystem, appName, exe string) string {
	return filepath.Join(localAppData(sys, os.Getenv), appName, exe)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
