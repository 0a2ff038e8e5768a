//go:build !embedded

package main

import "github.com/seforimapp/zayit-installer/install"

// bundledPayload returns nil in standard builds; pass -payload-url instead.
func bundledPayload() install.Payload {
	return nil
}
