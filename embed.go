package folio

import "embed"

// stylesheetName is the default stylesheet the shared head links to.
const stylesheetName = "global.css"

// EmbeddedAssets contains files shipped with the engine: the default
// global.css used when the public dir has none.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
