// Package project is the file layer around the task graph engine: it tracks
// the open project file and its dirty state, reads and writes .tgproj files,
// keeps the recent-files list and implements the New/Open/Save/Save As
// commands with their confirmation flow.
//
// The engine knows nothing about files. CurrentFile learns about edits by
// subscribing to the engine's tasks.changed events; Workspace drives the
// engine through Load, Marshal and Clear.
//
// Prompts are delegated to a [Dialogs] implementation so the same commands
// serve the TUI and the CLI.
package project
