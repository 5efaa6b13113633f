//go:build linux

package process_linux

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
	"unsafe"

	"memscan/process"

	"github.com/google/go-cmp/cmp"
)

func TestParseStatus(t *testing.T) {
	status := "Name:\tgame\nState:\tS (sleeping)\nPPid:\t1\nUid:\t1000\t1000\t1000\t1000\nVmRSS:\t  2048 kB\nThreads:\t4\n"

	var got process.ProcessInfo
	parseStatus(strings.NewReader(status), &got)

	want := process.ProcessInfo{PPID: 1, State: process.ProcessSleeping, UID: "1000", Threads: 4, Memory: 2048 * 1024}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseStatus mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitCmdline(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"/bin/game\x00", []string{"/bin/game"}},
		{"/bin/game\x00-v\x00\x00", []string{"/bin/game", "-v", ""}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, splitCmdline([]byte(tt.in))); diff != "" {
			t.Errorf("splitCmdline(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

var selfTarget = [8]byte{0xde, 0xad, 0xbe, 0xef, 1, 2, 3, 4}

func TestReadWriteSelf(t *testing.T) {
	p, err := NewWithPID(process.ProcessID(os.Getpid()))
	if err != nil {
		t.Fatalf("NewWithPID: %v", err)
	}
	defer p.Close()

	regions, err := p.Regions()
	if err != nil {
		t.Fatal(err)
	}
	if len(regions) == 0 {
		t.Fatal("no regions for own process")
	}

	addr := process.ProcessMemoryAddress(uintptr(unsafe.Pointer(&selfTarget[0])))
	got, err := p.ReadMemory(addr, 8)
	if errors.Is(err, process.ErrPermissionDenied) {
		t.Skip("process_vm_readv not permitted:", err)
	}
	if err != nil {
		t.Fatalf("ReadMemory: %v", err)
	}
	if diff := cmp.Diff(selfTarget[:], got); diff != "" {
		t.Errorf("ReadMemory mismatch (-want +got):\n%s", diff)
	}

	if err := p.WriteMemory(addr+4, []byte{9, 9}); err != nil {
		t.Fatalf("WriteMemory: %v", err)
	}
	if selfTarget[4] != 9 || selfTarget[5] != 9 {
		t.Errorf("write not visible: %v", selfTarget)
	}

	if _, err := p.ReadMemory(0x1000, 4); !errors.Is(err, process.ErrAddressNotMapped) {
		t.Errorf("read of page 1: err = %v, want ErrAddressNotMapped", err)
	}
}

func TestOpenMissingProcess(t *testing.T) {
	if _, err := NewWithPID(-1); !errors.Is(err, process.ErrNoSuchProcess) {
		t.Errorf("NewWithPID(-1): err = %v, want ErrNoSuchProcess", err)
	}
}

func TestOpenZombie(t *testing.T) {
	cmd := exec.Command("true")
	if err := cmd.Start(); err != nil {
		t.Skip("cannot start child:", err)
	}
	defer cmd.Wait()

	pid := process.ProcessID(cmd.Process.Pid)
	deadline := time.Now().Add(5 * time.Second)
	for procState(pid) != process.ProcessZombie {
		if time.Now().After(deadline) {
			t.Fatalf("child state = %q, never became a zombie", procState(pid))
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := NewWithPID(pid); !errors.Is(err, process.ErrNoSuchProcess) {
		t.Errorf("NewWithPID(zombie): err = %v, want ErrNoSuchProcess", err)
	}
}
