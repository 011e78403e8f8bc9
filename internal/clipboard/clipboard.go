// Package clipboard copies text to the system clipboard through the platform's
// command line tools.
package clipboard

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no clipboard tool is installed.
var ErrUnavailable = errors.New("no clipboard tool found")

// tool is a clipboard command and its arguments.
type tool []string

// candidates lists the tools to try on goos, in order of preference.
func candidates(goos string, wayland bool) []tool {
	switch goos {
	case "darwin":
		return []tool{{"pbcopy"}}
	case "windows":
		return []tool{{"cmd", "/c", "clip"}}
	}

	x11 := []tool{
		{"xclip", "-selection", "clipboard"},
		{"xsel", "--clipboard", "--input"},
	}
	if wayland {
		return append([]tool{{"wl-copy"}}, x11...)
	}
	return x11
}

var lookPath = exec.LookPath

func find() (tool, error) {
	for _, t := range candidates(runtime.GOOS, os.Getenv("WAYLAND_DISPLAY") != "") {
		if _, err := lookPath(t[0]); err == nil {
			return t, nil
		}
	}
	return nil, ErrUnavailable
}

// Write copies text to the system clipboard.
func Write(text string) error {
	t, err := find()
	if err != nil {
		return err
	}
	cmd := exec.Command(t[0], t[1:]...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

// Available checks if clipboard functionality is available.
func Available() bool {
	_, err := find()
	return err == nil
}
