package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectPlatformTable exposes info to configuration files as a read-only
// "platform" global. Call it before loading any user code.
func InjectPlatformTable(L *lua.LState, info *Info) error {
	t := L.NewTable()

	L.SetField(t, "os", lua.LString(info.OS))
	L.SetField(t, "arch", lua.LString(info.Arch))
	L.SetField(t, "go_arch", lua.LString(info.GoArch))
	L.SetField(t, "kernel_arch", lua.LString(info.KernelArch))

	for name, is := range map[string]bool{
		"is_linux":   info.OS == "linux",
		"is_macos":   info.OS == "darwin",
		"is_windows": info.OS == "windows",
		"is_amd64":   info.Arch == "amd64",
		"is_arm64":   info.Arch == "arm64",
		"is_actions": info.Runner != nil,
	} {
		L.SetField(t, name, lua.LBool(is))
	}

	if r := info.Runner; r != nil {
		rt := L.NewTable()
		L.SetField(rt, "name", lua.LString(r.Name))
		L.SetField(rt, "os", lua.LString(r.OS))
		L.SetField(rt, "arch", lua.LString(r.Arch))
		L.SetField(t, "runner", makeReadOnly(L, rt))
	}

	if d := info.Distro; d != nil {
		dt := L.NewTable()
		L.SetField(dt, "id", lua.LString(d.ID))
		L.SetField(dt, "family", lua.LString(d.Family))
		L.SetField(dt, "version", lua.LString(d.Version))
		L.SetField(t, "distro", makeReadOnly(L, dt))
	}

	// when(cond, value) is value if cond holds, nil otherwise
	L.SetField(t, "when", L.NewFunction(func(L *lua.LState) int {
		if L.CheckBool(1) {
			L.Push(L.Get(2))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	}))

	L.SetGlobal("platform", makeReadOnly(L, t))
	return nil
}

func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()
	L.SetField(mt, "__index", table)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)
	return proxy
}
