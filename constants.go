package main

import "time"

type (
	OperatingSystem string
	Architecture    string
)

const (
	Windows OperatingSystem = "windows"
	Linux   OperatingSystem = "linux"
	Mac     OperatingSystem = "macos"
)

const (
	x86   Architecture = "x86"
	Arm64 Architecture = "arm"
)

const (
	AppName       string = "Zayit"
	AppExecutable string = "Zayit.exe"
	WindowTitle   string = "Zayit Installer"
	ErrorTitle    string = "Erreur"
	LogFileName   string = "Zayit-installer.log"
)

const (
	frameInterval = 33 * time.Millisecond
	loopSleep     = 5 * time.Millisecond
	joinTimeout   = 10 * time.Second
	linger        = 3 * time.Second

	launchDelay    = 500 * time.Millisecond
	launchInterval = 500 * time.Millisecond
	launchAttempts = 5
)
