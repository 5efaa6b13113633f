package process

// ProcessID represents a unique identifier for a process
type ProcessID int

// ProcessState represents the state of a process
type ProcessState string

const (
	ProcessRunning  ProcessState = "R" // Running
	ProcessSleeping ProcessState = "S" // Sleeping in an interruptible wait
	ProcessWaiting  ProcessState = "D" // Waiting in uninterruptible disk sleep
	ProcessZombie   ProcessState = "Z" // Zombie
	ProcessStopped  ProcessState = "T" // Stopped (on a signal)
	ProcessTracing  ProcessState = "t" // Tracing stop
	ProcessDead     ProcessState = "X" // Dead
)

// Attachable reports whether memory of a process in this state can be read.
// Zombies and dead processes have no address space left.
func (s ProcessState) Attachable() bool {
	return s != ProcessZombie && s != ProcessDead
}

// ProcessInfo contains basic information about a process
type ProcessInfo struct {
	PID     ProcessID    // Process ID
	PPID    ProcessID    // Parent Process ID
	Name    string       // Process name from /proc/[pid]/comm
	Exe     string       // Path to the executable
	Cmdline []string     // Command line arguments
	State   ProcessState // Process state (R, S, D, Z, etc.)
	UID     string       // Real UID of the owner
	Threads int          // Number of threads
	Memory  uint64       // Resident Set Size (memory usage in bytes)
}
