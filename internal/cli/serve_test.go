package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/lshigami/examapp/internal/testutil"
)

// serveOn runs server on a loopback listener and returns its base URL.
func serveOn(t *testing.T, server *http.Server) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() { _ = server.Serve(ln) }()
	return "http://" + ln.Addr().String()
}

func TestServerHookStopHonoursStopContext(t *testing.T) {
	db := testutil.NewDB(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	server := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	})}
	base := serveOn(t, server)

	go func() {
		resp, err := http.Get(base + "/slow")
		if err == nil {
			resp.Body.Close()
		}
	}()
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}

	hook := serverHook(server, db)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := hook.OnStop(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("OnStop = %v, want context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("OnStop took %s, ignoring the stop context", elapsed)
	}

	close(release)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	if err := sqlDB.Ping(); err != nil {
		t.Fatalf("database closed although shutdown did not finish: %v", err)
	}
}

func TestServerHookStopClosesDatabase(t *testing.T) {
	db := testutil.NewDB(t)
	server := &http.Server{Handler: http.NotFoundHandler()}
	serveOn(t, server)

	if err := serverHook(server, db).OnStop(context.Background()); err != nil {
		t.Fatalf("OnStop: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	if err := sqlDB.Ping(); err == nil {
		t.Fatal("expected the database pool to be closed after stop")
	}
}
