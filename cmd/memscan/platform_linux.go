//go:build linux

package main

import (
	"memscan/process"
	"memscan/process_linux"
)

func openProcess(pid process.ProcessID) (process.Process, error) {
	return process_linux.NewWithPID(pid)
}

func openSource(pid process.ProcessID) (process.RegionSource, error) {
	return process_linux.OpenSource(pid)
}

func processFinder() (process.ProcessFinder, error) {
	return process_linux.NewProcessFinder(), nil
}

func pidByName(name string) (process.ProcessID, error) {
	p, err := process_linux.OneByName(name)
	if err != nil {
		return 0, err
	}
	return process.ProcessID(p.PID), nil
}
