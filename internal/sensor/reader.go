package sensor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/afero"
)

const (
	// Readings are in milli-degrees Celsius.
	milliPerDegree = 1000
	maxMilli       = 150000

	// Plausible readings lie in the open interval (-plausibleLimit, plausibleLimit).
	plausibleLimit = 150.0

	maxNameLen = 31
)

// ReadTemp reads the first line of path as milli-degrees and returns
// degrees Celsius. On any failure the 0.0 sentinel is returned along
// with the error.
func ReadTemp(fs afero.Fs, path string) (float64, error) {
	line, err := readLine(fs, path)
	if err != nil {
		return 0, err
	}

	milli, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	if milli < -maxMilli || milli > maxMilli {
		return 0, fmt.Errorf("%w: %s: %d", ErrOutOfRange, path, milli)
	}

	return float64(milli) / milliPerDegree, nil
}

// Plausible rejects exactly zero and anything outside (-150, 150).
func Plausible(v float64) bool {
	return v != 0 && v > -plausibleLimit && v < plausibleLimit
}

func checkPlausible(fs afero.Fs, path string) (float64, error) {
	v, err := ReadTemp(fs, path)
	if err != nil || !Plausible(v) {
		return 0, fmt.Errorf("%w: %s", ErrImprobable, path)
	}

	return v, nil
}

func readLine(fs afero.Fs, path string) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}

	return strings.TrimRight(line, "\r\n"), nil
}

func readName(fs afero.Fs, path string) (string, error) {
	name, err := readLine(fs, path)
	if err != nil {
		return "", err
	}

	return truncate(name, maxNameLen), nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}
