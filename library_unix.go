//go:build darwin || linux

package aio

import (
	"fmt"
	"runtime"

	"github.com/ebitengine/purego"
)

// defaultLibraryName returns the vendor library file name for this OS.
func defaultLibraryName() string {
	if runtime.GOOS == "darwin" {
		return "libEchoAIOInterface.dylib"
	}

	return "libEchoAIOInterface.so"
}

// loadBinding dlopens the vendor library and resolves every export up front.
func loadBinding(path string) (binding, error) {
	name := libraryPath(path)

	handle, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	procs := make(map[string]uintptr, len(exportNames))
	for _, export := range exportNames {
		addr, err := purego.Dlsym(handle, export)
		if err != nil {
			_ = purego.Dlclose(handle)

			return nil, fmt.Errorf("export %s not found in %s: %w", export, name, err)
		}

		procs[export] = addr
	}

	return &library{
		rawCall: func(name string, args ...uintptr) error {
			rc, _, _ := purego.SyscallN(procs[name], args...)

			return statusErr(int32(rc))
		},
		rawClose: func() error {
			return purego.Dlclose(handle)
		},
	}, nil
}
