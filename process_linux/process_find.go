//go:build linux

package process_linux

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"memscan/process"
)

// LinuxProcessFinder implements the process.ProcessFinder interface over /proc
type LinuxProcessFinder struct{}

// NewProcessFinder creates a new LinuxProcessFinder
func NewProcessFinder() process.ProcessFinder {
	return &LinuxProcessFinder{}
}

// FindProcessByNamePattern finds processes by their name (pattern match)
func (f *LinuxProcessFinder) FindProcessByNamePattern(pattern string) ([]process.ProcessInfo, error) {
	return findProcessesByNamePattern(pattern)
}

// FindAllProcesses returns information about all running processes except
// the calling one, ordered by PID
func (f *LinuxProcessFinder) FindAllProcesses() ([]process.ProcessInfo, error) {
	return findProcessesByNamePattern("")
}

func findProcessesByNamePattern(pattern string) ([]process.ProcessInfo, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern: %w", err)
	}

	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, fmt.Errorf("failed to read /proc: %w", err)
	}

	self := os.Getpid()
	var results []process.ProcessInfo

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pid, err := strconv.Atoi(entry.Name())
		if err != nil || pid == self {
			continue
		}

		info, err := getProcessInfo(process.ProcessID(pid))
		if err != nil {
			// exited while we were reading
			continue
		}

		if re.MatchString(info.Name) {
			results = append(results, *info)
		}
	}

	sort.Slice(results, func(i, j int) bool { return results[i].PID < results[j].PID })
	return results, nil
}

func getProcessInfo(pid process.ProcessID) (*process.ProcessInfo, error) {
	procPath := filepath.Join("/proc", strconv.Itoa(int(pid)))

	comm, err := os.ReadFile(filepath.Join(procPath, "comm"))
	if err != nil {
		return nil, fmt.Errorf("failed to read process name: %w", err)
	}

	info := &process.ProcessInfo{
		PID:  pid,
		Name: string(bytesTrimNL(comm)),
	}

	// kernel threads and other users' processes have no readable exe
	info.Exe, _ = os.Readlink(filepath.Join(procPath, "exe"))

	if cmdline, err := os.ReadFile(filepath.Join(procPath, "cmdline")); err == nil {
		info.Cmdline = splitCmdline(cmdline)
	}

	if status, err := os.Open(filepath.Join(procPath, "status")); err == nil {
		parseStatus(status, info)
		status.Close()
	}

	return info, nil
}

// splitCmdline splits the NUL separated /proc/<pid>/cmdline contents
func splitCmdline(b []byte) []string {
	b = bytes.TrimSuffix(b, []byte{0})
	if len(b) == 0 {
		return nil
	}
	var args []string
	for _, arg := range bytes.Split(b, []byte{0}) {
		args = append(args, string(arg))
	}
	return args
}

// parseStatus fills PPID, State, UID, Threads and Memory from the
// "Key:\tvalue" lines of /proc/<pid>/status
func parseStatus(r io.Reader, info *process.ProcessInfo) {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, val, ok := strings.Cut(sc.Text(), ":")
		if !ok {
			continue
		}
		fields := strings.Fields(val)
		if len(fields) == 0 {
			continue
		}

		switch key {
		case "PPid":
			if n, err := strconv.Atoi(fields[0]); err == nil {
				info.PPID = process.ProcessID(n)
			}
		case "State":
			info.State = process.ProcessState(fields[0][:1])
		case "Uid":
			// real, effective, saved, filesystem
			info.UID = fields[0]
		case "Threads":
			if n, err := strconv.Atoi(fields[0]); err == nil {
				info.Threads = n
			}
		case "VmRSS":
			if n, err := strconv.ParseUint(fields[0], 10, 64); err == nil {
				if len(fields) > 1 && fields[1] == "kB" {
					n *= 1024
				}
				info.Memory = n
			}
		}
	}
}

// procState reads the state letter from /proc/<pid>/status, or "" when it
// cannot be read
func procState(pid process.ProcessID) process.ProcessState {
	f, err := os.Open(filepath.Join("/proc", strconv.Itoa(int(pid)), "status"))
	if err != nil {
		return ""
	}
	defer f.Close()

	var info process.ProcessInfo
	parseStatus(f, &info)
	return info.State
}
