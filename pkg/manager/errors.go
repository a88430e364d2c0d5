package manager

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPackageNotFound is matched by errors returned when a query names
	// a package that is not in the graph
	ErrPackageNotFound = errors.New("package not found")

	// ErrCycleDetected is matched by errors returned when a traversal
	// reaches a package that is still being resolved
	ErrCycleDetected = errors.New("circular dependency detected")
)

// PackageNotFoundError reports the unknown package name
type PackageNotFoundError struct {
	Name string
}

func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf("package %s not found", e.Name)
}

func (e *PackageNotFoundError) Is(target error) bool {
	return target == ErrPackageNotFound
}

// CycleError reports the package whose resolution failed and the
// dependency chain that closes the cycle, e.g. [b a b].
type CycleError struct {
	Package string
	Path    []string
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("circular dependency detected: %s", e.Package)
	}
	return fmt.Sprintf("circular dependency detected: %s", strings.Join(e.Path, " -> "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCycleDetected
}
