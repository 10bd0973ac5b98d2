// File: internal/netutil/netutil_test.go (complete file)

package netutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("returns the body of a 2xx response", func(t *testing.T) {
		t.Parallel()

		gotUA := make(chan string, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA <- r.Header.Get("User-Agent")
			_, _ = w.Write([]byte("203.0.113.5\n"))
		}))
		defer srv.Close()

		body, err := Fetch(context.Background(), srv.Client(), srv.URL, "ipinsight/test")
		require.NoError(t, err)
		assert.Equal(t, "203.0.113.5\n", string(body))
		assert.Equal(t, "ipinsight/test", <-gotUA)
	})

	t.Run("non-2xx is ErrHTTPStatus", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, err := Fetch(context.Background(), srv.Client(), srv.URL, "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrHTTPStatus))
		assert.Contains(t, err.Error(), "429")
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Fetch(ctx, srv.Client(), srv.URL, "")
		assert.Error(t, err)
	})
}

func TestReach(t *testing.T) {
	t.Parallel()

	method := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method <- r.Method
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	// Any completed response counts, whatever the status.
	require.NoError(t, Reach(context.Background(), srv.Client(), srv.URL))
	assert.Equal(t, http.MethodHead, <-method)
}

func TestParseFamily(t *testing.T) {
	t.Parallel()

	assert.Equal(t, FamilyIPv4, ParseFamily("IPv4"))
	assert.Equal(t, FamilyIPv6, ParseFamily("tcp6"))
	assert.Equal(t, FamilyAny, ParseFamily(""))
	assert.Equal(t, FamilyAny, ParseFamily("whatever"))
}

func TestIsGlobalIPv6(t *testing.T) {
	t.Parallel()

	cases := map[string]bool{
		"2001:db8::1":      true,
		"2a00:1450::1":     true,
		"fe80::1":          false,
		"fd00::1":          false,
		"ff02::1":          false,
		"::1":              false,
		"::":               false,
		"::ffff:192.0.2.1": false,
		"192.0.2.1":        false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsGlobalIPv6(netip.MustParseAddr(in)), in)
	}
}
