// Package viewer opens exported images in the user's image viewer.
//
// A configured viewer command is tried first, resolved the same way as a
// plugin binary: next to the lossplot executable, then in
// ~/.lossplot/bin, then anywhere in PATH. Otherwise the platform opener is
// used (open on macOS, start on Windows, xdg-open and friends on Linux).
package viewer

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNoViewer is returned when no candidate viewer could be started.
var ErrNoViewer = errors.New("no image viewer found")

// linuxFallbacks are tried in order after xdg-open.
var linuxFallbacks = []string{"gio", "gnome-open", "kde-open", "eog", "feh", "display"}

// Candidate is one way of launching a viewer.
type Candidate struct {
	Name string
	Args []string
}

// Candidates returns the platform openers for path on goos.
func Candidates(goos, path string) ([]Candidate, error) {
	switch goos {
	case "darwin":
		return []Candidate{{Name: "open", Args: []string{path}}}, nil
	case "windows":
		return []Candidate{{Name: "cmd", Args: []string{"/c", "start", "", path}}}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		out := []Candidate{{Name: "xdg-open", Args: []string{path}}}
		for _, name := range linuxFallbacks {
			args := []string{path}
			if name == "gio" {
				args = []string{"open", path}
			}
			out = append(out, Candidate{Name: name, Args: args})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", goos)
	}
}

// Opener launches an image viewer without waiting for it to exit.
type Opener struct {
	// Command overrides the platform opener. The first field is the
	// program; remaining fields are passed before the image path.
	Command string

	goos     string
	lookPath func(name string) (string, error)
	start    func(name string, args ...string) error
}

// New creates an Opener for the running platform. command may be empty.
func New(command string) *Opener {
	return &Opener{
		Command:  command,
		goos:     runtime.GOOS,
		lookPath: lookPath,
		start:    start,
	}
}

// Open launches a viewer for path. The first candidate that can be found and
// started wins.
func (o *Opener) Open(path string) error {
	candidates, err := o.candidates(path)
	if err != nil {
		return err
	}

	var lastErr error
	for _, c := range candidates {
		bin, err := o.lookPath(c.Name)
		if err != nil {
			continue
		}
		if err := o.start(bin, c.Args...); err != nil {
			lastErr = fmt.Errorf("starting %s: %w", c.Name, err)
			continue
		}
		return nil
	}

	if lastErr != nil {
		return lastErr
	}
	return ErrNoViewer
}

func (o *Opener) candidates(path string) ([]Candidate, error) {
	if fields := strings.Fields(o.Command); len(fields) > 0 {
		args := append(fields[1:len(fields):len(fields)], path)
		return []Candidate{{Name: fields[0], Args: args}}, nil
	}
	return Candidates(o.goos, path)
}

// lookPath resolves name next to the running executable, then in
// ~/.lossplot/bin, then in PATH. Names containing a separator are used as is.
func lookPath(name string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if isExecutable(name) {
			return name, nil
		}
		return "", fmt.Errorf("%s: not executable", name)
	}

	if execPath, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(homeDir, ".lossplot", "bin", name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return exec.LookPath(name)
}

func start(name string, args ...string) error {
	cmd := exec.Command(name, args...) // #nosec G204 -- viewer is chosen by the user
	if err := cmd.Start(); err != nil {
		return err
	}
	// Reap the child in the background so it does not linger as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

// isExecutable checks if a file exists and is executable.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode()&0111 != 0
}
