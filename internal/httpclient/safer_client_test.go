package httpclient

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	client := NewSaferClient(5 * time.Second)

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"public https", "https://example.com/photo.jpg", false},
		{"public http", "http://example.com/photo.jpg", false},
		{"file scheme", "file:///etc/passwd", true},
		{"ftp scheme", "ftp://example.com/photo.jpg", true},
		{"localhost", "http://localhost/photo.jpg", true},
		{"localhost subdomain", "http://foo.localhost/photo.jpg", true},
		{"loopback ip", "http://127.0.0.1/photo.jpg", true},
		{"private ip", "http://192.168.1.5/photo.jpg", true},
		{"link local", "http://169.254.169.254/latest/meta-data", true},
		{"credential confusion", "http://evil.com@localhost/photo.jpg", true},
		{"missing hostname", "http:///photo.jpg", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.ValidateURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestIsPrivateIP(t *testing.T) {
	private := []string{"10.1.2.3", "172.16.0.1", "192.168.0.1", "127.0.0.1", "169.254.1.1", "::1", "fc00::1", "fe80::1"}
	for _, s := range private {
		assert.True(t, isPrivateIP(net.ParseIP(s)), s)
	}

	public := []string{"8.8.8.8", "142.250.72.14", "2607:f8b0::1"}
	for _, s := range public {
		assert.False(t, isPrivateIP(net.ParseIP(s)), s)
	}
}

func TestWrapClientAllowsLocalhost(t *testing.T) {
	client := WrapClient(nil)
	_, err := client.ValidateURL("http://127.0.0.1:8080/photo.jpg")
	require.NoError(t, err)
}
