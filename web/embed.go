package web

import "embed"

// StaticFS embeds the browser client served at the site root.
//
//go:embed static/*
var StaticFS embed.FS
