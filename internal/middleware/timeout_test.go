// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeout(t *testing.T) {
	fast := func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-Product", "rau-muong")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}
	slow := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(5 * time.Second):
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
		}
	}
	noDeadline := func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Context().Deadline(); ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	}

	tests := []struct {
		name    string
		handler http.HandlerFunc
		path    string
		limit   time.Duration
		status  int
		body    string
		header  string
	}{
		{"completes in time", fast, "/api/products", 5 * time.Second, http.StatusCreated, "created", "rau-muong"},
		{"deadline exceeded", slow, "/api/products", 50 * time.Millisecond, http.StatusServiceUnavailable, `{"error":"Request timeout"}`, ""},
		{"upload path skipped", noDeadline, "/api/cloudinary/upload", 50 * time.Millisecond, http.StatusAccepted, "", ""},
		{"other path bounded", noDeadline, "/api/banners", time.Second, http.StatusTeapot, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Timeout(tt.limit, "/api/cloudinary/", "/api/upload/")(tt.handler)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, tt.path, nil))

			assert.Equal(t, tt.status, rr.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, strings.TrimSpace(rr.Body.String()))
			}
			if tt.header != "" {
				assert.Equal(t, tt.header, rr.Header().Get("X-Product"))
			}
		})
	}
}

func TestTimeout_PropagatesPanic(t *testing.T) {
	h := Timeout(time.Second)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	assert.PanicsWithValue(t, "boom", func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestTimeout_LateHeadersStayOffResponse(t *testing.T) {
	proceed := make(chan struct{})
	finished := make(chan struct{})
	h := Timeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(finished)
		<-r.Context().Done()
		for i := 0; i < 200; i++ {
			w.Header().Set("X-Late", strconv.Itoa(i))
			w.Header().Add("Vary", "Accept-Language")
		}
		<-proceed
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("late"))
		assert.ErrorIs(t, err, http.ErrHandlerTimeout)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/products", nil))
	close(proceed)
	<-finished

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, `{"error":"Request timeout"}`, strings.TrimSpace(rr.Body.String()))
	assert.Empty(t, rr.Header().Get("X-Late"))
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
}

func TestTimeoutWriter(t *testing.T) {
	t.Run("implicit 200 on first write", func(t *testing.T) {
		tw := newTimeoutWriter()

		n, err := tw.Write([]byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.True(t, tw.wroteHeader)

		rr := httptest.NewRecorder()
		tw.flushTo(rr)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "hello", rr.Body.String())
	})

	t.Run("second status ignored", func(t *testing.T) {
		tw := newTimeoutWriter()

		tw.Header().Set("X-Product", "bi-do")
		tw.WriteHeader(http.StatusCreated)
		tw.WriteHeader(http.StatusNotFound)
		_, _ = tw.Write([]byte("created"))

		rr := httptest.NewRecorder()
		tw.flushTo(rr)
		assert.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "created", rr.Body.String())
		assert.Equal(t, "bi-do", rr.Header().Get("X-Product"))
	})

	t.Run("no writes flush an empty 200", func(t *testing.T) {
		rr := httptest.NewRecorder()
		newTimeoutWriter().flushTo(rr)
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Zero(t, rr.Body.Len())
	})

	t.Run("writes after deadline dropped", func(t *testing.T) {
		tw := newTimeoutWriter()
		tw.timedOut = true

		tw.WriteHeader(http.StatusOK)
		_, err := tw.Write([]byte("late"))
		assert.ErrorIs(t, err, http.ErrHandlerTimeout)
		assert.Zero(t, tw.buf.Len())
		assert.False(t, tw.wroteHeader)
	})
}
