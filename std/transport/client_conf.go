package transport

import (
	"bufio"
	"net/url"
	"os"
	"runtime"
	"strings"
)

// ClientConfig holds the resolved transport URI for a default Face,
// following the same client.conf search path as the rest of the NDN
// client tooling.
type ClientConfig struct {
	TransportUri string
}

// GetClientConfig resolves the default transport URI in order of
// increasing priority: the platform default socket path, any
// client.conf found along the search path, then the
// NDN_CLIENT_TRANSPORT environment variable.
func GetClientConfig() ClientConfig {
	transportUri := "unix:///run/nfd/nfd.sock"
	if runtime.GOOS == "darwin" {
		transportUri = "unix:///var/run/nfd/nfd.sock"
	}
	config := ClientConfig{TransportUri: transportUri}

	configDirs := []string{
		"/etc/ndn",
		"/usr/local/etc/ndn",
		os.Getenv("HOME") + "/.ndn",
	}
	for _, dir := range configDirs {
		file, err := os.OpenFile(dir+"/client.conf", os.O_RDONLY, 0)
		if err != nil {
			continue
		}

		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if strings.HasPrefix(line, ";") {
				continue
			}
			if transport := strings.TrimPrefix(line, "transport="); transport != line {
				config.TransportUri = transport
			}
		}
		file.Close()
	}

	if env := os.Getenv("NDN_CLIENT_TRANSPORT"); env != "" {
		config.TransportUri = env
	}

	return config
}

// Resolve picks a Transport per the Face's selection precedence:
// explicit > environment > client config file > platform default.
// explicit may be nil; uri is only consulted when explicit is nil.
func Resolve(explicit Transport) (Transport, error) {
	if explicit != nil {
		return explicit, nil
	}
	return FromURI(GetClientConfig().TransportUri)
}

// FromURI parses a transport URI ("unix://<path>" or
// "tcp://<host>:<port>") and constructs the matching Transport.
func FromURI(rawURI string) (Transport, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return nil, ConfigError{Reason: "cannot parse transport URI " + rawURI + ": " + err.Error()}
	}

	switch u.Scheme {
	case "unix":
		return NewUnixTransport(u.Path), nil
	case "tcp", "tcp4", "tcp6":
		return NewTCPTransport(u.Scheme, u.Host), nil
	case "ws", "wss":
		return NewWebSocketTransport(rawURI), nil
	default:
		return nil, ConfigError{Reason: "unsupported transport scheme: " + u.Scheme}
	}
}
