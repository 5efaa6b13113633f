package process

// ProcessFinder looks up candidate targets for attaching
type ProcessFinder interface {
	// FindProcessByNamePattern finds processes by their name (pattern match)
	FindProcessByNamePattern(pattern string) ([]ProcessInfo, error)

	// FindAllProcesses returns information about all running processes
	FindAllProcesses() ([]ProcessInfo, error)
}
