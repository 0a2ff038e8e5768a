//go:build embedded

package main

import (
	"embed"
	"io/fs"
	"strings"

	"github.com/seforimapp/zayit-installer/install"
)

// Bundled installer, populated at build time.
// To build with an embedded MSI:
//  1. Place Zayit.msi (or Zayit.msi.xz, Zayit.msi.gz, ...) in assets/payload/
//  2. Run: go build -tags embedded
//
//go:embed assets/payload
var payloadFS embed.FS

func bundledPayload() install.Payload {
	entries, err := fs.ReadDir(payloadFS, "assets/payload")
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if e.IsDir() || !strings.Contains(strings.ToLower(e.Name()), ".msi") {
			continue
		}
		data, err := payloadFS.ReadFile("assets/payload/" + e.Name())
		if err != nil || len(data) == 0 {
			return nil
		}
		return install.EmbeddedPayload{Name: e.Name(), Data: data}
	}
	return nil
}
