package sources

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
)

// NewHTTPClient returns a client with the given timeout, dialing through a SOCKS5 proxy
// when proxyURL uses the socks5 scheme. Other schemes are ignored.
func NewHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	client := &http.Client{Timeout: timeout}

	if proxyURL == "" {
		return client, nil
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse proxy url")
	}

	if parsedURL.Scheme != "socks5" {
		slog.Warn("unsupported proxy scheme, connecting directly", "scheme", parsedURL.Scheme)
		return client, nil
	}

	var auth *proxy.Auth
	if parsedURL.User != nil {
		password, _ := parsedURL.User.Password()
		auth = &proxy.Auth{
			User:     parsedURL.User.Username(),
			Password: password,
		}
	}

	dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
	if err != nil {
		return nil, errors.Wrap(err, "create socks5 dialer")
	}

	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}
	slog.Info("using SOCKS5 proxy", "proxy", parsedURL.Host)

	return client, nil
}
