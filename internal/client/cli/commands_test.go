package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ciclone-ptc/ciclone/internal/client/api"
	"github.com/ciclone-ptc/ciclone/internal/client/config"
)

// newTestApp builds an App wired to an httptest server, with input seams
// stubbed so commands never touch the terminal.
func newTestApp(t *testing.T, handler http.HandlerFunc, input string) *App {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.ServerEndpointAddr = srv.URL

	return &App{
		config: cfg,
		api:    api.New(srv.URL),
		reader: bufio.NewReader(strings.NewReader(input)),
	}
}

func muteOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(args ...any) (int, error) {
		for _, a := range args {
			if s, ok := a.(string); ok {
				lines = append(lines, s)
			}
		}
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestLogin_SetsUserAndMode(t *testing.T) {
	origPw := getPassword
	getPassword = func(io.Writer) ([]byte, error) {
		return []byte("senha"), nil
	}
	t.Cleanup(func() { getPassword = origPw })

	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":      true,
			"usuario":      map[string]any{"id": 1, "email": "admin@example.com"},
			"access_token": "t",
		})
	}, "admin@example.com\n")

	if err := app.Login(context.Background()); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if app.userName != "admin@example.com" || app.Mode != ModeOnline {
		t.Fatalf("unexpected state: user=%q mode=%q", app.userName, app.Mode)
	}
	if !app.isLoggedIn() {
		t.Fatal("expected logged-in state")
	}
}

func TestEstatisticas_PrintsCounters(t *testing.T) {
	lines := muteOutput(t)

	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"estatisticas": map[string]any{
				"total_usuarios": 5,
				"total_clicks":   100,
				"total_anuncios": 2,
				"top_saldo_nome": "Bob",
				"top_saldo":      "999.9999",
			},
		})
	}, "")

	if err := app.Estatisticas(context.Background()); err != nil {
		t.Fatalf("Estatisticas error: %v", err)
	}

	out := strings.Join(*lines, "\n")
	if !strings.Contains(out, "Usuarios: 5") || !strings.Contains(out, "Bob") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestAtivarCreditos(t *testing.T) {
	muteOutput(t)

	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ativar-creditos" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"usuario": map[string]any{"id": 2, "email": "x@example.com", "recebendo_creditos": true},
		})
	}, "x@example.com\n")

	if err := app.AtivarCreditos(context.Background()); err != nil {
		t.Fatalf("AtivarCreditos error: %v", err)
	}
}

func TestIniciarCreditos_ErrorPropagates(t *testing.T) {
	muteOutput(t)

	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"error":   "nenhuma conta apta a receber creditos",
		})
	}, "")

	if err := app.IniciarCreditos(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestRegistrarClick_PrintsRotation(t *testing.T) {
	lines := muteOutput(t)

	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":         true,
			"clicks":          map[string]any{"email": "x@example.com", "total_clicks": 1},
			"beneficiado_id":  3,
			"novo_saldo":      "1000",
			"limite_atingido": true,
		})
	}, "x@example.com\n")

	if err := app.RegistrarClick(context.Background()); err != nil {
		t.Fatalf("RegistrarClick error: %v", err)
	}

	out := strings.Join(*lines, "\n")
	if !strings.Contains(out, "Cap reached") {
		t.Fatalf("expected rotation notice, got: %s", out)
	}
}

func TestUploadAvatar(t *testing.T) {
	lines := muteOutput(t)

	origUpload := uploadToPresignedURL
	var uploadedTo string
	uploadToPresignedURL = func(url string, file []byte) error {
		uploadedTo = url
		if string(file) != "fake-image" {
			t.Fatalf("unexpected payload %q", file)
		}
		return nil
	}
	t.Cleanup(func() { uploadToPresignedURL = origUpload })

	dir := t.TempDir()
	path := filepath.Join(dir, "avatar.png")
	if err := os.WriteFile(path, []byte("fake-image"), 0o600); err != nil {
		t.Fatal(err)
	}

	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/avatar/upload-url" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"key":        "avatars/1/2/3/uuid",
			"upload_url": "https://s3.example/presigned",
		})
	}, path+"\n")

	if err := app.UploadAvatar(context.Background()); err != nil {
		t.Fatalf("UploadAvatar error: %v", err)
	}
	if uploadedTo != "https://s3.example/presigned" {
		t.Fatalf("uploaded to %q", uploadedTo)
	}
	if out := strings.Join(*lines, " "); !strings.Contains(out, "avatars/1/2/3/uuid") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestDashboard_InvalidID(t *testing.T) {
	muteOutput(t)

	app := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("server should not be called")
	}, "abc\n")

	if err := app.Dashboard(context.Background()); err == nil {
		t.Fatal("expected error for invalid id")
	}
}
