package web

import "embed"

// StaticFS holds the embedded dashboard assets (page, stylesheet, chart JS).
//
//go:embed static/*
var StaticFS embed.FS
