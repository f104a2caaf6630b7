package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const ubuntuOSRelease = `PRETTY_NAME="Ubuntu 24.04.1 LTS"
NAME="Ubuntu"
VERSION_ID="24.04"
VERSION="24.04.1 LTS (Noble Numbat)"
ID=ubuntu
ID_LIKE=debian
`

func TestDetectFrom_Ubuntu(t *testing.T) {
	t.Parallel()

	p := DetectFrom("linux", "amd64", []byte(ubuntuOSRelease))

	assert.Equal(t, OSLinux, p.OS())
	assert.Equal(t, "amd64", p.Arch())
	assert.Equal(t, "ubuntu", p.DistID())
	assert.Equal(t, "24.04", p.DistVersion())
	assert.True(t, p.IsLinux())
	assert.True(t, p.IsUbuntu())
	assert.Equal(t, "linux/amd64/ubuntu 24.04", p.String())
}

func TestDetectFrom_Debian(t *testing.T) {
	t.Parallel()

	p := DetectFrom("linux", "arm64", []byte("ID=debian\nVERSION_ID=\"12\"\n"))

	assert.True(t, p.IsLinux())
	assert.False(t, p.IsUbuntu())
	assert.Equal(t, "debian", p.DistID())
}

func TestDetectFrom_Darwin(t *testing.T) {
	t.Parallel()

	p := DetectFrom("darwin", "arm64", nil)

	assert.Equal(t, OSDarwin, p.OS())
	assert.False(t, p.IsLinux())
	assert.False(t, p.IsUbuntu())
	assert.Empty(t, p.DistID())
}

func TestDetectFrom_UnknownOS(t *testing.T) {
	t.Parallel()

	p := DetectFrom("windows", "amd64", nil)
	assert.Equal(t, OSUnknown, p.OS())
}

func TestParseOSRelease_IgnoresCommentsAndBlanks(t *testing.T) {
	t.Parallel()

	fields := parseOSRelease("# comment\n\nID=ubuntu\nbroken line\nVERSION_ID=\"22.04\"\n")

	assert.Equal(t, "ubuntu", fields["ID"])
	assert.Equal(t, "22.04", fields["VERSION_ID"])
	assert.NotContains(t, fields, "broken line")
}

func TestSetTestPlatform(t *testing.T) {
	mock := NewTestPlatform(OSLinux, "amd64", "ubuntu", "24.04")
	SetTestPlatform(mock)
	defer SetTestPlatform(nil)

	assert.Same(t, mock, Detect())
}
