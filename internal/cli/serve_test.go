package cli

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/go-logr/logr"

	"github.com/saucedemo/swaglabs-e2e/internal/config"
	"github.com/saucedemo/swaglabs-e2e/internal/handlers"
)

// createServerDeps serves the real store replica on the given port
func createServerDeps(t *testing.T, port string) ServerDependencies {
	t.Helper()
	store, err := handlers.NewStore(handlers.DefaultStoreOptions("/about"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	return ServerDependencies{
		ServerConfig: config.ServerConfig{Port: port},
		Store:        store,
		Logger:       logr.Discard(),
	}
}

func startTestServer(t *testing.T, deps ServerDependencies) (net.Listener, *http.Server, int) {
	t.Helper()
	listener, server, err := StartServer(deps)
	if err != nil {
		t.Fatalf("Failed to start server: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	return listener, server, port
}

func httpGet(t *testing.T, url string) (string, int) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("Failed to make request to %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return string(body), resp.StatusCode
}

func TestStartServer_ServesStore(t *testing.T) {
	// GIVEN
	deps := createServerDeps(t, "0")

	// WHEN
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer server.Close()

	// THEN
	body, status := httpGet(t, fmt.Sprintf("http://localhost:%d/", port))
	if status != http.StatusOK {
		t.Errorf("Expected status 200, got %d", status)
	}
	if !strings.Contains(body, "<title>Swag Labs</title>") {
		t.Errorf("Expected the login page, got %q", body)
	}

	_, status = httpGet(t, fmt.Sprintf("http://localhost:%d/about", port))
	if status != http.StatusOK {
		t.Errorf("Expected /about to be served, got %d", status)
	}
}

func TestStartServer_InvalidPort(t *testing.T) {
	deps := createServerDeps(t, "99999")

	listener, server, err := StartServer(deps)

	if err == nil {
		listener.Close()
		server.Close()
		t.Fatal("Expected error for invalid port")
	}
}

func TestStartServer_PortAlreadyInUse(t *testing.T) {
	first, server, port := startTestServer(t, createServerDeps(t, "0"))
	defer first.Close()
	defer server.Close()

	_, _, err := StartServer(createServerDeps(t, fmt.Sprintf("%d", port)))
	if err == nil {
		t.Fatal("Expected error when port is already in use")
	}
}

func TestWaitForShutdown_Signals(t *testing.T) {
	for _, sig := range []os.Signal{syscall.SIGTERM, syscall.SIGINT} {
		t.Run(sig.String(), func(t *testing.T) {
			// GIVEN
			listener, server, port := startTestServer(t, createServerDeps(t, "0"))
			defer listener.Close()
			shutdown := make(chan os.Signal, 1)

			// WHEN
			errCh := make(chan error, 1)
			go func() {
				errCh <- WaitForShutdown(server, shutdown, logr.Discard())
			}()
			shutdown <- sig

			// THEN
			select {
			case err := <-errCh:
				if err != nil {
					t.Errorf("Expected nil error, got: %v", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("WaitForShutdown did not complete")
			}

			if _, err := http.Get(fmt.Sprintf("http://localhost:%d/", port)); err == nil {
				t.Error("server should not accept requests after shutdown")
			}
		})
	}
}

func TestWaitForShutdownWithTimeout_ForcesClose(t *testing.T) {
	// GIVEN a request that outlives the grace period
	release := make(chan struct{})
	deps := createServerDeps(t, "0")
	deps.Store = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	listener, server, port := startTestServer(t, deps)
	defer listener.Close()
	defer close(release)

	go http.Get(fmt.Sprintf("http://localhost:%d/", port))
	time.Sleep(50 * time.Millisecond)

	shutdown := make(chan os.Signal, 1)
	shutdown <- syscall.SIGTERM

	// WHEN
	start := time.Now()
	err := WaitForShutdownWithTimeout(server, shutdown, logr.Discard(), 50*time.Millisecond)

	// THEN
	if err != nil {
		t.Errorf("Expected forced close to succeed, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("shutdown took %s", elapsed)
	}
}
