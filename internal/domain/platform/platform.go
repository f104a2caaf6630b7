// Package platform detects the operating system and distribution.
//
// Detection is an explicit collaborator rather than an assumption baked
// into steps: callers ask the platform whether they are on Ubuntu before
// reaching for apt or snap.
package platform

import (
	"os"
	"runtime"
	"strings"
	"sync"
)

// OS represents the operating system type.
type OS string

const (
	// OSLinux is Linux.
	OSLinux OS = "linux"
	// OSDarwin is macOS.
	OSDarwin OS = "darwin"
	// OSUnknown is an unsupported OS.
	OSUnknown OS = "unknown"
)

// osReleasePath is where Linux distributions identify themselves.
const osReleasePath = "/etc/os-release"

// Platform contains detected platform information.
type Platform struct {
	os      OS
	arch    string
	distID  string // ID field of os-release, e.g. "ubuntu"
	distVer string // VERSION_ID field, e.g. "24.04"
}

var (
	detected     *Platform
	detectOnce   sync.Once
	testPlatform *Platform // test hook
)

// Detect returns the current platform information.
// Results are cached after the first call.
func Detect() *Platform {
	if testPlatform != nil {
		return testPlatform
	}

	detectOnce.Do(func() {
		data, _ := os.ReadFile(osReleasePath)
		detected = DetectFrom(runtime.GOOS, runtime.GOARCH, data)
	})
	return detected
}

// SetTestPlatform sets a mock platform for testing.
// Pass nil to reset to actual detection.
func SetTestPlatform(p *Platform) {
	testPlatform = p
}

// NewTestPlatform builds a Platform for tests.
func NewTestPlatform(osType OS, arch, distID, distVer string) *Platform {
	return &Platform{os: osType, arch: arch, distID: distID, distVer: distVer}
}

// DetectFrom builds a Platform from raw inputs. Split out of Detect so the
// os-release parsing is testable without touching the real system.
func DetectFrom(goos, goarch string, osRelease []byte) *Platform {
	p := &Platform{arch: goarch}

	switch goos {
	case "linux":
		p.os = OSLinux
	case "darwin":
		p.os = OSDarwin
	default:
		p.os = OSUnknown
	}

	if p.os == OSLinux && len(osRelease) > 0 {
		fields := parseOSRelease(string(osRelease))
		p.distID = fields["ID"]
		p.distVer = fields["VERSION_ID"]
	}

	return p
}

// OS returns the operating system type.
func (p *Platform) OS() OS {
	return p.os
}

// Arch returns the CPU architecture.
func (p *Platform) Arch() string {
	return p.arch
}

// DistID returns the distribution ID (e.g. "ubuntu"), or "" off Linux.
func (p *Platform) DistID() string {
	return p.distID
}

// DistVersion returns the distribution version (e.g. "24.04"), or "".
func (p *Platform) DistVersion() string {
	return p.distVer
}

// IsLinux returns true on Linux.
func (p *Platform) IsLinux() bool {
	return p.os == OSLinux
}

// IsUbuntu returns true when the distribution identifies as Ubuntu.
func (p *Platform) IsUbuntu() bool {
	return p.os == OSLinux && p.distID == "ubuntu"
}

// String returns a human-readable platform description.
func (p *Platform) String() string {
	parts := []string{string(p.os), p.arch}
	if p.distID != "" {
		dist := p.distID
		if p.distVer != "" {
			dist += " " + p.distVer
		}
		parts = append(parts, dist)
	}
	return strings.Join(parts, "/")
}

// parseOSRelease parses the KEY=value lines of an os-release file.
func parseOSRelease(content string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		fields[key] = strings.Trim(value, `"`)
	}
	return fields
}
