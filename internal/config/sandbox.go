package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM removes everything that could reach outside the VM:
// os and io, module and chunk loading, and the debug library. The string,
// table, and math libraries and the basic functions remain.
func sandboxLuaVM(L *lua.LState) {
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)

	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)
	L.SetGlobal("module", lua.LNil)
	L.SetGlobal("package", lua.LNil)

	// Could be used to bypass the read-only platform table
	L.SetGlobal("debug", lua.LNil)
	L.SetGlobal("rawset", lua.LNil)
	L.SetGlobal("setmetatable", lua.LNil)
	L.SetGlobal("getmetatable", lua.LNil)
	L.SetGlobal("collectgarbage", lua.LNil)
}

// newSandboxedVM creates a Lua state with a bounded call stack and the
// sandbox applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize:       256,
		RegistrySize:        1024 * 8,
		SkipOpenLibs:        false,
		IncludeGoStackTrace: false,
	})
	sandboxLuaVM(L)
	return L
}
