// Package assets embeds the static files the service hands to browsers.
package assets

import _ "embed"

// ServiceWorker is the script the browser installs to render push
// notifications while no page is open. Served at /sw.js.
//
//go:embed sw.js
var ServiceWorker []byte
