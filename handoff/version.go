package handoff

// Version information for handoff.
const (
	// Version is the current version of handoff.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info describes the build.
type Info struct {
	// Version is the handoff version string.
	Version string

	// Wait is the default wait mode.
	Wait WaitMode

	// Audit is the ordering check used when Options.Audit is set.
	Audit string
}

// GetInfo returns information about handoff.
//
// Example:
//
//	info := handoff.GetInfo()
//	fmt.Printf("handoff %s (wait=%s)\n", info.Version, info.Wait)
func GetInfo() Info {
	return Info{
		Version: Version,
		Wait:    WaitSignal,
		Audit:   "happens-before (vector clocks)",
	}
}
