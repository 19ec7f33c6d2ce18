package reference

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
)

type mockHTTPClient struct {
	data  []byte
	err   error
	calls []string
}

func (m *mockHTTPClient) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	m.calls = append(m.calls, url)
	return m.data, m.err
}

// staticResolver は常に同じアドレスを返します。
func staticResolver(ips ...string) Resolver {
	return func(string) ([]net.IP, error) {
		out := make([]net.IP, 0, len(ips))
		for _, ip := range ips {
			out = append(out, net.ParseIP(ip))
		}
		return out, nil
	}
}

// mockReader は remoteio.InputReader のテスト用実装です。
type mockReader struct {
	data   map[string][]byte
	err    error
	opened []string
}

func (m *mockReader) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	m.opened = append(m.opened, uri)
	if m.err != nil {
		return nil, m.err
	}
	data, ok := m.data[uri]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *mockReader) List(ctx context.Context, uri string, fn func(string) error) error {
	for path := range m.data {
		if err := fn(path); err != nil {
			return err
		}
	}
	return nil
}
