//go:build !linux

package main

import (
	"errors"

	"memscan/process"
)

var errUnsupported = errors.New("live processes are only supported on linux, use --dump")

func openProcess(pid process.ProcessID) (process.Process, error) {
	return nil, errUnsupported
}

func openSource(pid process.ProcessID) (process.RegionSource, error) {
	return nil, errUnsupported
}

func processFinder() (process.ProcessFinder, error) {
	return nil, errUnsupported
}

func pidByName(name string) (process.ProcessID, error) {
	return 0, errUnsupported
}
