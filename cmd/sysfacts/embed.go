package main

import _ "embed"

// embeddedConfig holds the default configuration compiled into the binary.
// Any external config file, environment variable or flag overrides it.
//
//go:embed config.yaml
var embeddedConfig []byte
