// Package api exposes the editor to Lua scripts.
//
// Install registers three global modules on a script's state:
//
//	selection  get, near, at_start, at_end, is_valid, set_text, set_node, move
//	events     on, off
//	log        debug, info, warn, error
//
// Positions cross the boundary as tables of the form
// {path = {0, 2}, offset = 1}; path entries are zero-based child indices.
// Selections are tables with a type field ("text" or "node") and from, to,
// anchor and head positions.
package api
