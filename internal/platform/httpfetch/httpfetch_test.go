package httpfetch_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/meme-api/internal/generation"
	"github.com/phrazzld/meme-api/internal/platform/httpfetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		code      int
		wantErr   bool
		transient bool
	}{
		{http.StatusOK, false, false},
		{http.StatusCreated, false, false},
		{http.StatusBadRequest, true, false},
		{http.StatusUnauthorized, true, false},
		{http.StatusNotFound, true, false},
		{http.StatusRequestTimeout, true, true},
		{http.StatusTooManyRequests, true, true},
		{http.StatusInternalServerError, true, true},
		{http.StatusServiceUnavailable, true, true},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := httpfetch.ClassifyStatus("test", tt.code, []byte("body"))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.transient, generation.IsTransient(err))

			var statusErr *httpfetch.StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, tt.code, statusErr.StatusCode)
		})
	}
}

func TestClassifyStatusTruncatesBody(t *testing.T) {
	err := httpfetch.ClassifyStatus("test", 500, []byte(strings.Repeat("x", 1000)))

	var statusErr *httpfetch.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Len(t, statusErr.Body, 256)
}

func TestClassifyTransportError(t *testing.T) {
	assert.NoError(t, httpfetch.ClassifyTransportError("test", nil))
	assert.False(t, generation.IsTransient(httpfetch.ClassifyTransportError("test", context.Canceled)))
	assert.True(t, generation.IsTransient(httpfetch.ClassifyTransportError("test", context.DeadlineExceeded)))
	assert.True(t, generation.IsTransient(httpfetch.ClassifyTransportError("test", errors.New("connection reset by peer"))))
}

func TestFetcher_FetchBytes(t *testing.T) {
	image := []byte{0x89, 'P', 'N', 'G'}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(image)
		case "/busy":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := httpfetch.NewFetcher(server.Client())

	data, mimeType, err := f.FetchBytes(context.Background(), server.URL+"/ok.png")
	require.NoError(t, err)
	assert.Equal(t, image, data)
	assert.Equal(t, "image/png", mimeType)

	_, _, err = f.FetchBytes(context.Background(), server.URL+"/busy")
	require.Error(t, err)
	assert.True(t, generation.IsTransient(err))

	_, _, err = f.FetchBytes(context.Background(), server.URL+"/missing")
	require.Error(t, err)
	assert.False(t, generation.IsTransient(err))

	_, _, err = f.FetchBytes(context.Background(), "://not a url")
	require.Error(t, err)
	assert.False(t, generation.IsTransient(err))
}

func TestFetcher_BodySizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantErr bool
	}{
		{"at limit", httpfetch.MaxBodyBytes, false},
		{"over limit", httpfetch.MaxBodyBytes + 1024, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "image/png")
				_, _ = w.Write(make([]byte, tt.size))
			}))
			defer server.Close()

			data, _, err := httpfetch.NewFetcher(server.Client()).FetchBytes(context.Background(), server.URL+"/big.png")

			if !tt.wantErr {
				require.NoError(t, err)
				assert.Len(t, data, tt.size)
				return
			}
			require.Error(t, err)
			assert.Nil(t, data)
			assert.ErrorIs(t, err, generation.ErrInvalidResponse)
			assert.False(t, generation.IsTransient(err))
		})
	}
}
