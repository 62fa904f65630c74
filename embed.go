package sitekit

import "embed"

// EmbeddedAssets contains static assets shipped with sitekit (the analytics beacon and site.js).
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
