// Package plugin discovers and runs Lua scripts against the editor.
//
// Every *.lua file in the search paths is a plugin named after its file.
// Each plugin gets its own sandboxed state with the api modules installed,
// is executed once on load, and may define a global setup() that runs
// right after. Plugins react to the editor through events.on.
package plugin
