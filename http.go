package main

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/cavaliergopher/grab/v3"
)

var httpClient = &http.Client{
	Transport: &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     false,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
	},
}

// newDownloadClient returns the grab client used for remote payloads.
func newDownloadClient(sys OperatingSystem, arch Architecture) *grab.Client {
	return &grab.Client{
		HTTPClient: httpClient,
		UserAgent:  userAgent(sys, arch),
		BufferSize: 32 * 1024,
	}
}

func userAgent(sys OperatingSystem, arch Architecture) string {
	v := version
	if v == "" {
		v = "dev"
	}
	return fmt.Sprintf("ZayitInstaller/%s (%s; %s)", v, sys, arch)
}
