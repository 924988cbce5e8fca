package messenger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"ai-salesbot-be/internal/pkg/logger"
	"ai-salesbot-be/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRetryCfg(attempts int) retry.Config {
	return retry.Config{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		CallTimeout:     time.Second,
	}
}

func TestSendReplyRetriesTransientFailure(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&requests, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token", "missing.json", testRetryCfg(3), logger.NewNopLogger())

	err := client.SendReply(context.Background(), "user-1", "สวัสดีค่ะ", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestSendReplyFailsAfterRetriesExhausted(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "token", "missing.json", testRetryCfg(2), logger.NewNopLogger())

	err := client.SendReply(context.Background(), "user-1", "สวัสดีค่ะ", nil)
	assert.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}

func TestSendReplySkipsUnresolvedImages(t *testing.T) {
	var requests int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	mappingFile := filepath.Join(t.TempDir(), "attachments.json")
	require.NoError(t, os.WriteFile(mappingFile, []byte(`{"IMG_PROD_001": "999"}`), 0o644))

	client := NewClient(server.URL, "token", mappingFile, testRetryCfg(1), logger.NewNopLogger())

	err := client.SendReply(context.Background(), "user-1", "มีรูปค่ะ", []string{"IMG_PROD_001", "IMG_PROD_404"})
	require.NoError(t, err)

	// Text plus the one resolvable image; the unknown id is skipped.
	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
}
