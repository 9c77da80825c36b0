package project

import "fmt"

// PackageManager is one of the install tools a project can be set up with
type PackageManager struct {
	Name string
	// Lockfile is the lockfile this manager produces, removed from the
	// template when another manager is chosen.
	Lockfile string
	// Primary managers are always offered; the others only when detected.
	Primary bool
	// InstallHint tells the user how to get the manager when it is missing.
	InstallHint string
}

var (
	// NPM is the primary package manager
	NPM = PackageManager{
		Name:     "npm",
		Lockfile: "package-lock.json",
		Primary:  true,
	}

	// Yarn is the secondary package manager
	Yarn = PackageManager{
		Name:        "yarn",
		Lockfile:    "yarn.lock",
		InstallHint: "npm install --location=global yarn",
	}
)

// Managers returns the supported package managers, primary first
func Managers() []PackageManager {
	return []PackageManager{NPM, Yarn}
}

// LookupManager finds a package manager by name
func LookupManager(name string) (PackageManager, error) {
	for _, m := range Managers() {
		if m.Name == name {
			return m, nil
		}
	}
	return PackageManager{}, fmt.Errorf("unknown package manager %q", name)
}

// InstallArgs returns the arguments of the dependency install command
func (m PackageManager) InstallArgs() []string {
	return []string{"install"}
}

// SyncCommand returns the command that syncs the prisma schema and generates
// the client in a scaffolded project
func (m PackageManager) SyncCommand() string {
	return m.Name + " sync"
}
