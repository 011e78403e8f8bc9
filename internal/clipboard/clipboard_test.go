package clipboard

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidates(t *testing.T) {
	assert.Equal(t, []tool{{"pbcopy"}}, candidates("darwin", false))
	assert.Equal(t, []tool{{"cmd", "/c", "clip"}}, candidates("windows", true))

	linux := candidates("linux", false)
	assert.Equal(t, "xclip", linux[0][0])
	assert.Equal(t, "xsel", linux[1][0])

	wayland := candidates("linux", true)
	assert.Equal(t, "wl-copy", wayland[0][0])
	assert.Len(t, wayland, 3)
}

func TestAvailableWithoutTools(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(string) (string, error) { return "", errors.New("not found") }

	assert.False(t, Available())
	assert.ErrorIs(t, Write("x"), ErrUnavailable)
}

func TestFindPrefersFirstInstalled(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux tool order")
	}
	orig := lookPath
	defer func() { lookPath = orig }()
	lookPath = func(name string) (string, error) {
		if name == "xsel" {
			return "/usr/bin/xsel", nil
		}
		return "", errors.New("not found")
	}

	got, err := find()
	assert.NoError(t, err)
	assert.Equal(t, tool{"xsel", "--clipboard", "--input"}, got)
}
