// Package hostspec classifies rsync endpoint arguments the way rsync(1) does:
// local paths, [USER@]HOST:PATH (remote shell), [USER@]HOST::MODULE/PATH and
// rsync://[USER@]HOST[:PORT]/MODULE/PATH (daemon).
package hostspec

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Kind describes how rsync reaches an endpoint.
type Kind int

const (
	Local  Kind = iota
	Shell       // [USER@]HOST:PATH
	Daemon      // [USER@]HOST::MODULE/PATH
	URL         // rsync://[USER@]HOST[:PORT]/MODULE/PATH
)

func (k Kind) String() string {
	switch k {
	case Local:
		return "local"
	case Shell:
		return "shell"
	case Daemon:
		return "daemon"
	case URL:
		return "url"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

const urlPrefix = "rsync://"

// Endpoint is a parsed rsync source or destination argument.
type Endpoint struct {
	Raw  string
	Kind Kind
	User string // empty unless the endpoint names one
	Host string
	Path string
	Port int // only for URL endpoints, 0 if unspecified
}

// Remote reports whether rsync needs a remote shell or a daemon connection to
// reach the endpoint.
func (e Endpoint) Remote() bool { return e.Kind != Local }

// WithUser returns the endpoint argument with user injected in front of the
// host. Local endpoints and endpoints that already name a user are returned
// unchanged.
func (e Endpoint) WithUser(user string) string {
	if user == "" || !e.Remote() || e.namesUser() {
		return e.Raw
	}
	if e.Kind == URL {
		return urlPrefix + user + "@" + strings.TrimPrefix(e.Raw, urlPrefix)
	}
	return user + "@" + e.Raw
}

// Parse classifies src. Anything that does not parse as a host
// specification is a local path.
//
// rsync/options.c:check_for_hostspec
func Parse(src string) Endpoint {
	ep := Endpoint{Raw: src, Kind: Local, Path: src}
	if strings.HasPrefix(src, urlPrefix) {
		if host, path, port, err := parse(strings.TrimPrefix(src, urlPrefix), true); err == nil {
			ep.Kind = URL
			ep.Host, ep.Path, ep.Port = host, path, port
			ep.splitUser()
			return ep
		}
	}
	host, path, _, err := parse(src, false)
	if err != nil || host == "" {
		return ep
	}
	ep.Kind = Shell
	ep.Host, ep.Path = host, path
	if strings.HasPrefix(path, ":") {
		ep.Kind = Daemon
		ep.Path = strings.TrimPrefix(path, ":")
	}
	ep.splitUser()
	return ep
}

// namesUser reports whether the host part of the endpoint contains a user,
// even an empty one as in "@host:path".
func (e Endpoint) namesUser() bool {
	if e.User != "" {
		return true
	}
	spec := strings.TrimPrefix(e.Raw, urlPrefix)
	seps := ":["
	if e.Kind == URL {
		seps = ":/["
	}
	at := strings.IndexByte(spec, '@')
	if at == -1 {
		return false
	}
	sep := strings.IndexAny(spec, seps)
	return sep == -1 || at < sep
}

func (e *Endpoint) splitUser() {
	if idx := strings.IndexByte(e.Host, '@'); idx > -1 {
		e.User = e.Host[:idx]
		e.Host = e.Host[idx+1:]
	}
}

// parse returns the [USER@]HOST part of src, the remaining path and, when
// parsing a URL, the port.
//
// rsync/options.c:parse_hostspec
func parse(src string, parsingURL bool) (host, path string, port int, _ error) {
	var userlen int
	var hostlen int
	var hoststart int
	i := 0
	for ; i <= len(src); i++ {
		if i == len(src) {
			if !parsingURL {
				return "", "", 0, fmt.Errorf("no host in %q", src)
			}
			if hostlen == 0 {
				hostlen = len(src[hoststart:])
			}
			break
		}

		s := src[i]
		if s == ':' || s == '/' {
			if hostlen == 0 {
				hostlen = len(src[hoststart:i])
			}
			i++
			if s == '/' {
				if !parsingURL {
					return "", "", 0, fmt.Errorf("/ before host separator in %q", src)
				}
			} else if s == ':' && parsingURL {
				rest := src[i:]
				digits := ""
				for _, r := range rest {
					if !unicode.IsDigit(r) {
						break
					}
					digits += string(r)
				}
				if digits != "" {
					p, err := strconv.ParseInt(digits, 10, 64)
					if err != nil {
						return "", "", 0, err
					}
					port = int(p)
					i += len(digits)
				}
				if i < len(src) && src[i] != '/' {
					return "", "", 0, fmt.Errorf("expected / or end, got %q", src[i:])
				}
				if i < len(src) {
					i++
				}
			}
			break
		}
		if s == '@' {
			userlen = i + 1
			hoststart = i + 1
		} else if s == '[' {
			if i != hoststart {
				return "", "", 0, fmt.Errorf("brackets not at host position in %q", src)
			}
			hoststart++
			for i < len(src) && src[i] != ']' && src[i] != '/' {
				i++
			}
			if i == len(src) || src[i] != ']' {
				return "", "", 0, fmt.Errorf("malformed bracketed host in %q", src)
			}
			hostlen = len(src[hoststart : i+1])
			if (i < len(src)-1 && src[i+1] != '/' && src[i+1] != ':') ||
				hostlen == 0 {
				return "", "", 0, fmt.Errorf("malformed bracketed host in %q", src)
			}
		}
	}
	if userlen > 0 {
		host = src[:userlen]
		hostlen += userlen
	}
	host += src[hoststart:hostlen]

	// A local disk path like C:\rsync parses as host="C", path="\\rsync".
	isDriveLetter := len(host) == 1 &&
		((host[0] >= 'A' && host[0] <= 'Z') ||
			(host[0] >= 'a' && host[0] <= 'z'))
	if isDriveLetter && i < len(src) && src[i] == '\\' {
		return "", "", 0, fmt.Errorf("local disk path detected")
	}

	return host, src[i:], port, nil
}
