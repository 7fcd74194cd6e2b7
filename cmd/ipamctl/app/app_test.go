package app

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/agentstation/ipamctl"
	"github.com/agentstation/ipamctl/internal/phpipamtest"
	"github.com/agentstation/ipamctl/pkg/schema"
)

func testConfig() *Config {
	return &Config{
		ServerURL:     "https://ipam.example.com",
		AppID:         phpipamtest.AppID,
		Username:      phpipamtest.Username,
		Password:      phpipamtest.Password,
		ValidateCerts: true,
	}
}

// TestApp_New verifies app initialization.
func TestApp_New(t *testing.T) {
	isolate(t)

	app, err := New("1.0.0", "abc123", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if app.Version() != "1.0.0" {
		t.Errorf("Version() = %s, want 1.0.0", app.Version())
	}
	if app.Commit() != "abc123" {
		t.Errorf("Commit() = %s, want abc123", app.Commit())
	}
	if app.Date() != "2024-01-01" {
		t.Errorf("Date() = %s, want 2024-01-01", app.Date())
	}
	if app.BuiltBy() != "test" {
		t.Errorf("BuiltBy() = %s, want test", app.BuiltBy())
	}
	if app.Logger() == nil {
		t.Error("Logger() returned nil")
	}
	if app.Config() == nil {
		t.Error("Config() returned nil")
	}
	if app.Out() == nil {
		t.Error("Out() returned nil")
	}
}

// TestApp_Client_NoServer verifies a missing server URL is reported.
func TestApp_Client_NoServer(t *testing.T) {
	isolate(t)

	app, err := New("1.0.0", "test", "2024-01-01", "test")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if _, err := app.Client(); err == nil {
		t.Error("Client() should fail without a server URL")
	}
}

// TestApp_Client_Singleton verifies concurrent Client() calls share one instance.
func TestApp_Client_Singleton(t *testing.T) {
	isolate(t)

	app, err := New("1.0.0", "test", "2024-01-01", "test", WithConfig(testConfig()))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	const goroutines = 50
	var wg sync.WaitGroup
	results := make([]ipamctl.Client, goroutines)
	errs := make([]error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = app.Client()
		}(i)
	}
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: Client() failed: %v", i, errs[i])
		}
		if results[i] != results[0] {
			t.Fatalf("goroutine %d got a different instance", i)
		}
	}

	custom, err := app.Client(ipamctl.WithPreflight(false))
	if err != nil {
		t.Fatalf("Client(opts) failed: %v", err)
	}
	if custom == results[0] {
		t.Error("Client(opts) should return a new instance")
	}
}

// TestApp_Execute runs ensure end to end against a test server.
func TestApp_Execute(t *testing.T) {
	isolate(t)
	srv := phpipamtest.NewServer(t, nil)
	srv.Store.Add("l2domains", schema.Entity{"id": "1", "name": "default"})

	var out bytes.Buffer
	app, err := New("1.0.0", "test", "2024-01-01", "test", WithOutput(&out))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	err = app.Execute(context.Background(), []string{
		"--server-url", srv.URL,
		"--app-id", phpipamtest.AppID,
		"--username", phpipamtest.Username,
		"--password", phpipamtest.Password,
		"-o", "json",
		"ensure", "vlan", "-p", "name=servers", "-p", "vlan_id=100",
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var results []map[string]any
	if err := json.Unmarshal(out.Bytes(), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if len(results) != 1 || results[0]["action"] != "create" {
		t.Errorf("unexpected results: %v", results)
	}
	if vlans := srv.Store.Records("vlans"); len(vlans) != 1 {
		t.Errorf("vlans = %d, want 1", len(vlans))
	}
}

// TestApp_Execute_Check verifies --check leaves the server untouched.
func TestApp_Execute_Check(t *testing.T) {
	isolate(t)
	srv := phpipamtest.NewServer(t, nil)

	var out bytes.Buffer
	app, err := New("1.0.0", "test", "2024-01-01", "test", WithOutput(&out))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	err = app.Execute(context.Background(), []string{
		"--server-url", srv.URL,
		"--app-id", phpipamtest.AppID,
		"--username", phpipamtest.Username,
		"--password", phpipamtest.Password,
		"--check",
		"ensure", "section", "-p", "name=Lab",
	})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !app.Config().Check {
		t.Error("--check not applied to config")
	}
	if len(srv.Store.Mutations()) != 0 {
		t.Errorf("check mode mutated the server: %v", srv.Store.Mutations())
	}
}

// TestApp_Execute_InvalidFormat verifies the format is validated up front.
func TestApp_Execute_InvalidFormat(t *testing.T) {
	isolate(t)

	app, err := New("1.0.0", "test", "2024-01-01", "test", WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	err = app.Execute(context.Background(), []string{"-o", "xml", "modules"})
	if err == nil || !strings.Contains(err.Error(), "xml") {
		t.Errorf("Execute() error = %v, want invalid format", err)
	}
}

// TestApp_Execute_Version verifies the version command output.
func TestApp_Execute_Version(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	app, err := New("1.0.0", "test", "2024-01-01", "test", WithOutput(&out))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := app.Execute(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if out.String() != "ipamctl 1.0.0\n" {
		t.Errorf("output = %q", out.String())
	}
}

// TestApp_Shutdown verifies shutdown drops the cached client.
func TestApp_Shutdown(t *testing.T) {
	isolate(t)

	app, err := New("1.0.0", "test", "2024-01-01", "test", WithConfig(testConfig()))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	first, err := app.Client()
	if err != nil {
		t.Fatalf("Client() failed: %v", err)
	}
	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() failed: %v", err)
	}
	second, err := app.Client()
	if err != nil {
		t.Fatalf("Client() failed: %v", err)
	}
	if first == second {
		t.Error("Client() after Shutdown() should return a new instance")
	}
}

// TestApp_Execute_Man verifies the man page is generated.
func TestApp_Execute_Man(t *testing.T) {
	isolate(t)

	var out bytes.Buffer
	app, err := New("1.0.0", "test", "2024-01-01", "test", WithOutput(&out))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	if err := app.Execute(context.Background(), []string{"man"}); err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}
	if !strings.Contains(out.String(), "IPAMCTL") {
		t.Errorf("man page missing title: %q", out.String())
	}
}
