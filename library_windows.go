package aio

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// defaultLibraryName returns the vendor library file name on Windows.
func defaultLibraryName() string {
	return "EchoAIOInterface.dll"
}

// loadBinding loads the vendor DLL and resolves every export up front.
func loadBinding(path string) (binding, error) {
	name := libraryPath(path)

	dll, err := windows.LoadDLL(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", name, err)
	}

	procs := make(map[string]*windows.Proc, len(exportNames))
	for _, export := range exportNames {
		proc, err := dll.FindProc(export)
		if err != nil {
			_ = dll.Release()

			return nil, fmt.Errorf("export %s not found in %s: %w", export, name, err)
		}

		procs[export] = proc
	}

	return &library{
		rawCall: func(name string, args ...uintptr) error {
			// Proc.Call always returns a non-nil error carrying GetLastError;
			// only the return code is meaningful for these exports.
			rc, _, _ := procs[name].Call(args...)

			return statusErr(int32(rc))
		},
		rawClose: dll.Release,
	}, nil
}
