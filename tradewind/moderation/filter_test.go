package moderation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFilterCatchesDisguisedVariants(t *testing.T) {
	f := NewFilter([]string{"badword", "scum"})

	cases := []struct {
		name string
		text string
		safe bool
	}{
		{"plain term", "you badword", false},
		{"leetspeak", "b4dw0rd", false},
		{"separator padded", "b-a-d-w-o-r-d", false},
		{"spaced out", "B A D W O R D", false},
		{"mixed leet and separators", "b.4.d.w.0.r.d", false},
		{"zero width joined", "bad​word", false},
		{"embedded in sentence", "trading with this b4dw0rd again", false},
		{"short term exact", "total scum", false},
		{"clean text", "hello world", true},
		{"clean trade notes", "looking for neon frost dragon, offering megas", true},
		{"short term inside word", "scumbled eggs", true},
		{"empty", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := f.Check(tc.text)
			require.Equal(t, tc.safe, result.Safe, "text: %q", tc.text)
			if !tc.safe {
				require.Equal(t, blockedReason, result.Reason)
				require.NotContains(t, result.Reason, "badword")
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "bad word", normalize("B4D...w0rd!!"))
	require.Equal(t, "hello world", normalize("  Hello,   World  "))
	require.Equal(t, "abc", normalize("a​b\uFEFFc"))
	require.Equal(t, "", normalize("2... 6 9!"))
}

func TestEscalatorFailsOpen(t *testing.T) {
	t.Run("unreachable endpoint", func(t *testing.T) {
		e := NewEscalator("http://127.0.0.1:1", 100*time.Millisecond)
		result := e.Check(context.Background(), "anything")
		require.True(t, result.Safe)
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		e := NewEscalator(srv.URL, time.Second)
		result := e.Check(context.Background(), "anything")
		require.True(t, result.Safe)
	})

	t.Run("slow endpoint times out safe", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer srv.Close()

		e := NewEscalator(srv.URL, 50*time.Millisecond)
		result := e.Check(context.Background(), "anything")
		require.True(t, result.Safe)
	})
}

func TestEscalatorHonorsVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"safe": false, "reason": "external"}`))
	}))
	defer srv.Close()

	e := NewEscalator(srv.URL, time.Second)
	result := e.Check(context.Background(), "anything")
	require.False(t, result.Safe)
	require.Equal(t, blockedReason, result.Reason)
}

func TestServiceChainsLocalThenExternal(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.Write([]byte(`{"safe": true}`))
	}))
	defer srv.Close()

	svc := NewService(NewFilter([]string{"badword"}), NewEscalator(srv.URL, time.Second))

	result := svc.Moderate(context.Background(), "b4dw0rd")
	require.False(t, result.Safe, "local filter verdict must short-circuit")
	require.False(t, called)

	result = svc.Moderate(context.Background(), "hello world")
	require.True(t, result.Safe)
	require.True(t, called)
}

func TestServiceWithoutEscalator(t *testing.T) {
	svc := NewService(NewFilter([]string{"badword"}), NewEscalator("", time.Second))
	require.True(t, svc.Moderate(context.Background(), "hello world").Safe)
}
