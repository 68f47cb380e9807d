package trashtalk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
)

var ErrCookieFileMissing = errors.New("cookie file not found")

const httpOnlyPrefix = "#HttpOnly_"

// LoadCookies reads a Netscape cookie file as exported by browser extensions.
// Expiry is ignored; the site decides whether the session is still valid.
func LoadCookies(path string) ([]*http.Cookie, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCookieFileMissing, path)
		}
		return nil, fmt.Errorf("opening cookie file: %w", err)
	}
	defer f.Close()

	cookies, err := ParseCookies(f)
	if err != nil {
		return nil, fmt.Errorf("reading cookie file %s: %w", path, err)
	}
	return cookies, nil
}

// ParseCookies skips comments, blank lines and lines without the seven
// tab-separated fields.
func ParseCookies(r io.Reader) ([]*http.Cookie, error) {
	var cookies []*http.Cookie
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		httpOnly := strings.HasPrefix(line, httpOnlyPrefix)
		if httpOnly {
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 7 || fields[5] == "" {
			continue
		}
		cookies = append(cookies, &http.Cookie{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Name:     fields[5],
			Value:    fields[6],
			HttpOnly: httpOnly,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cookies, nil
}
