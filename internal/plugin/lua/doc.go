// Package lua runs editor scripts on a sandboxed gopher-lua state.
//
// Only the base, table, string and math libraries are opened. dofile,
// loadfile, load and loadstring are removed, and require resolves only
// modules registered through PreloadModule.
//
//	state, err := lua.NewState(lua.WithExecutionTimeout(time.Second))
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	state.RegisterModule("selection", funcs)
//	err = state.DoString(ctx, `selection.move(1)`)
//
// A State is not safe for concurrent use by Lua code; the mutex only
// serializes calls coming from Go.
package lua
