package pkg

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPIsLocal(t *testing.T) {
	cases := []struct {
		addr            string
		expectedIsLocal bool
	}{
		{addr: "83.12.53.65", expectedIsLocal: false},
		{addr: "127.23.0.1", expectedIsLocal: false},
		{addr: "127.0.0.1", expectedIsLocal: true},
		{addr: "::1", expectedIsLocal: true},
		{addr: "172.20.0.1", expectedIsLocal: true},
		{addr: "172.200.0.1", expectedIsLocal: true},
		{addr: "172.19.0.1", expectedIsLocal: true},
		{addr: "172.19.0.12", expectedIsLocal: false},
		{addr: "111.12.56.65", expectedIsLocal: false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expectedIsLocal, IPIsLocal(tc.addr), tc.addr)
	}
}

func TestReadUserIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/volume/export", nil)
	req.RemoteAddr = "83.12.53.65:2145"
	ip, err := ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "83.12.53.65", ip)

	req.Header.Set("X-Forwarded-For", "111.12.56.65, 10.0.0.1")
	ip, err = ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "111.12.56.65", ip)

	req.Header.Set("X-Real-Ip", "172.19.0.1")
	ip, err = ReadUserIP(req)
	require.NoError(t, err)
	assert.Equal(t, "localhost", ip)

	req = httptest.NewRequest("GET", "/volume/export", nil)
	req.RemoteAddr = "not-an-ip"
	_, err = ReadUserIP(req)
	assert.Error(t, err)
}
