package httpdriver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestRunAllPreservesOrderRegardlessOfCompletionOrder pins Testable
// Property #5: requests that finish out of completion order must still
// land at their original queue index in the result slice.
func TestRunAllPreservesOrderRegardlessOfCompletionOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		delay := r.URL.Query().Get("delay")
		var d time.Duration
		fmt.Sscanf(delay, "%d", &d)
		time.Sleep(d * time.Millisecond)
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(r.URL.Query().Get("id")))
	}))
	defer srv.Close()

	conn := New(4)
	// requests are queued 0..3 but delay decreases, so index 3 finishes
	// first and index 0 finishes last.
	delays := []int{30, 20, 10, 0}
	for i, d := range delays {
		req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/?delay=%d&id=%d", srv.URL, d, i), nil)
		if err != nil {
			t.Fatalf("build request %d: %v", i, err)
		}
		conn.Add(req)
	}

	results, err := RunAll(conn, func(index int, resp *http.Response) (string, error) {
		buf := make([]byte, 8)
		n, _ := resp.Body.Read(buf)
		return string(buf[:n]), nil
	})
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}

	want := []string{"0", "1", "2", "3"}
	for i, w := range want {
		if results[i] != w {
			t.Errorf("results[%d] = %q, want %q (got %v)", i, results[i], w, results)
		}
	}
}

func TestRunAllEmptyQueue(t *testing.T) {
	conn := New(2)
	results, err := RunAll(conn, func(index int, resp *http.Response) (int, error) {
		return index, nil
	})
	if err != nil {
		t.Fatalf("RunAll() error = %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("RunAll() on empty queue = %v, want empty slice", results)
	}
}

func TestRunAllFirstErrorAbortsBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	conn := New(2)
	good, _ := http.NewRequest(http.MethodGet, srv.URL, nil)
	bad, _ := http.NewRequest(http.MethodGet, "http://127.0.0.1:0/unreachable", nil)
	conn.AddAll([]*http.Request{good, bad})

	_, err := RunAll(conn, func(index int, resp *http.Response) (struct{}, error) {
		return struct{}{}, nil
	})
	if err == nil {
		t.Fatal("RunAll() should fail the whole batch on a transport-level error")
	}
}

func TestConnectorQueueOps(t *testing.T) {
	conn := New(0) // non-positive falls back to DefaultPoolSize
	req1, _ := http.NewRequest(http.MethodGet, "http://example.com/a", nil)
	req2, _ := http.NewRequest(http.MethodGet, "http://example.com/b", nil)

	conn.AddAll([]*http.Request{req1, req2})
	if conn.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", conn.Count())
	}

	urls := conn.RequestURLs()
	want := []string{"http://example.com/a", "http://example.com/b"}
	for i, w := range want {
		if urls[i] != w {
			t.Errorf("RequestURLs()[%d] = %q, want %q", i, urls[i], w)
		}
	}

	conn.Clear()
	if conn.Count() != 0 {
		t.Fatalf("Count() after Clear() = %d, want 0", conn.Count())
	}
}
