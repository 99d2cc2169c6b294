package web

import "embed"

// StaticFS embeds the browser client: its entry page and static assets.
//
//go:embed static/*
var StaticFS embed.FS
