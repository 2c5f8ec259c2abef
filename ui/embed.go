package ui

import "embed"

// FS contains the shell page assets embedded into the gangway binary.
//
// Keeping the embed directive in the same folder as the assets avoids needing
// ".." paths (which go:embed disallows) and ensures the UI works regardless of
// the process working directory.
//
//go:embed index.html assets/*
var FS embed.FS
