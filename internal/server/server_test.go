// Integration tests for the gamelist gRPC server
package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nainya/gamelist/internal/logger"
	"github.com/nainya/gamelist/internal/metrics"
	"github.com/nainya/gamelist/pkg/field"
	"github.com/nainya/gamelist/pkg/gamelist"
	"github.com/nainya/gamelist/pkg/library"
)

const bufSize = 1024 * 1024

const nesDoc = `<?xml version="1.0"?>
<gameList>
	<game>
		<path>./Zelda.nes</path>
		<name>The Legend of Zelda</name>
	</game>
	<game>
		<path>./Metroid.nes</path>
		<name>Metroid</name>
	</game>
</gameList>
`

// setupRoms creates root/nes (two listed games plus one unlisted file) and
// root/snes (empty catalog, no files)
func setupRoms(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"nes/gamelist.xml":  nesDoc,
		"nes/_info.txt":     `ROM files extensions accepted: ".nes .zip"`,
		"nes/Zelda.nes":     "rom",
		"nes/Contra.nes":    "rom",
		"snes/gamelist.xml": "<gameList></gameList>",
		"snes/_info.txt":    `ROM files extensions accepted: ".smc"`,
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return root
}

type testEnv struct {
	root    string
	metrics *metrics.Metrics
	client  GameListServiceClient
}

func setupTestServer(t *testing.T) (*testEnv, func()) {
	root := setupRoms(t)

	log := logger.NewLogger(logger.Config{Level: "error", Output: io.Discard})
	m := metrics.NewMetrics(prometheus.NewRegistry())
	lib, err := library.New(library.WithObserver(m))
	if err != nil {
		t.Fatalf("Failed to create library: %v", err)
	}
	srv := NewServer(lib, root, field.DefaultPolicy(), log)

	lis := bufconn.Listen(bufSize)
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(GrpcMetricsInterceptor(m, log)))
	RegisterGameListServiceServer(grpcServer, srv)

	go func() {
		// Server closed is expected during cleanup
		_ = grpcServer.Serve(lis)
	}()

	bufDialer := func(context.Context, string) (net.Conn, error) {
		return lis.Dial()
	}

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(bufDialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("Failed to dial bufnet: %v", err)
	}

	cleanup := func() {
		conn.Close()
		grpcServer.Stop()
		lis.Close()
	}

	env := &testEnv{
		root:    root,
		metrics: m,
		client:  NewGameListServiceClient(conn),
	}
	return env, cleanup
}

// savePayload rebuilds a SaveGameList request from a fetched payload
func savePayload(t *testing.T, p gamelist.Payload) *structpb.Struct {
	t.Helper()
	games := make([]map[string]any, 0, len(p.Games))
	for _, gp := range p.Games {
		games = append(games, map[string]any{"id": gp.ID, "fields": gp.Values})
	}
	req, err := ToStruct(map[string]any{
		"directory": p.Directory,
		"emulator":  p.Emulator,
		"games":     games,
	})
	if err != nil {
		t.Fatalf("ToStruct failed: %v", err)
	}
	return req
}

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	return s
}

func expectCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	if status.Code(err) != want {
		t.Errorf("Expected %s, got %v", want, err)
	}
}

func TestListEmulators(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	client := env.client

	resp, err := client.ListEmulators(context.Background(), request(t, nil))
	if err != nil {
		t.Fatalf("ListEmulators failed: %v", err)
	}

	var out struct {
		Emulators []struct {
			Name            string   `json:"name"`
			GameCount       int      `json:"game_count"`
			RomExtensions   []string `json:"rom_extensions"`
			CompletePercent float64  `json:"complete_percent"`
		} `json:"emulators"`
	}
	if err := FromStruct(resp, &out); err != nil {
		t.Fatalf("FromStruct failed: %v", err)
	}
	if len(out.Emulators) != 2 {
		t.Fatalf("Expected 2 emulators, got %d", len(out.Emulators))
	}
	nes := out.Emulators[0]
	if nes.Name != "nes" || nes.GameCount != 2 {
		t.Errorf("Unexpected nes entry: %+v", nes)
	}
	if len(nes.RomExtensions) != 2 {
		t.Errorf("Expected 2 extensions, got %v", nes.RomExtensions)
	}
	if out.Emulators[1].CompletePercent != 0 {
		t.Errorf("Expected 0%% for snes, got %f", out.Emulators[1].CompletePercent)
	}
}

func TestListEmulatorsOutsideRoot(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	client := env.client

	_, err := client.ListEmulators(context.Background(), request(t, map[string]any{"path": "/"}))
	expectCode(t, err, codes.PermissionDenied)
}

func TestSymlinkOutsideRoot(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()

	outside := setupRoms(t)
	if err := os.Symlink(filepath.Join(outside, "nes"), filepath.Join(env.root, "escape")); err != nil {
		t.Skipf("Symlinks unavailable: %v", err)
	}

	_, err := env.client.GetGameList(context.Background(), request(t, map[string]any{"directory": "escape"}))
	expectCode(t, err, codes.PermissionDenied)

	if err := os.Symlink(filepath.Join(env.root, "nes"), filepath.Join(env.root, "inside")); err != nil {
		t.Fatalf("Failed to create symlink: %v", err)
	}
	if _, err := env.client.GetGameList(context.Background(), request(t, map[string]any{"directory": "inside"})); err != nil {
		t.Errorf("Expected link inside the root to resolve, got %v", err)
	}
}

func TestGetGameList(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	client := env.client

	resp, err := client.GetGameList(context.Background(), request(t, map[string]any{"directory": "nes"}))
	if err != nil {
		t.Fatalf("GetGameList failed: %v", err)
	}

	var payload gamelist.Payload
	if err := FromStruct(resp, &payload); err != nil {
		t.Fatalf("FromStruct failed: %v", err)
	}
	if payload.Emulator != "nes" {
		t.Errorf("Expected emulator nes, got %s", payload.Emulator)
	}
	if len(payload.Games) != 3 {
		t.Fatalf("Expected 3 games, got %d", len(payload.Games))
	}
	last := payload.Games[2]
	if last.ID != 2 || len(last.Values) != 1 || last.Values[0].Value != "./Contra.nes" {
		t.Errorf("Expected discovered Contra.nes, got %+v", last)
	}
}

func TestGetGameListQuery(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	client := env.client

	resp, err := client.GetGameList(context.Background(), request(t, map[string]any{
		"directory": "nes",
		"query":     "zelda",
	}))
	if err != nil {
		t.Fatalf("GetGameList failed: %v", err)
	}
	var payload gamelist.Payload
	FromStruct(resp, &payload)
	if len(payload.Games) != 1 || payload.Games[0].ID != 0 {
		t.Errorf("Expected only game 0, got %+v", payload.Games)
	}
}

func TestGetGameListErrors(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	root, client := env.root, env.client
	ctx := context.Background()

	_, err := client.GetGameList(ctx, request(t, nil))
	expectCode(t, err, codes.InvalidArgument)

	_, err = client.GetGameList(ctx, request(t, map[string]any{"directory": "snes"}))
	expectCode(t, err, codes.NotFound)
	if !strings.Contains(status.Convert(err).Message(), "No games found") {
		t.Errorf("Expected no games message, got %v", err)
	}

	_, err = client.GetGameList(ctx, request(t, map[string]any{"directory": "gba"}))
	expectCode(t, err, codes.NotFound)

	os.Remove(filepath.Join(root, "nes", "_info.txt"))
	_, err = client.GetGameList(ctx, request(t, map[string]any{"directory": "nes"}))
	expectCode(t, err, codes.FailedPrecondition)
}

func TestGetGameListMalformed(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	root, client := env.root, env.client

	doc := "<gameList><game><name>a</name></game><game></gameList>"
	os.WriteFile(filepath.Join(root, "nes", "gamelist.xml"), []byte(doc), 0o644)

	_, err := client.GetGameList(context.Background(), request(t, map[string]any{"directory": "nes"}))
	expectCode(t, err, codes.DataLoss)

	if got := testutil.ToFloat64(env.metrics.MalformedDocumentsTotal); got != 1 {
		t.Errorf("Expected 1 malformed document, got %v", got)
	}
}

func TestSaveGameList(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	root, client := env.root, env.client
	ctx := context.Background()

	resp, err := client.GetGameList(ctx, request(t, map[string]any{"directory": "nes"}))
	if err != nil {
		t.Fatalf("GetGameList failed: %v", err)
	}
	var payload gamelist.Payload
	FromStruct(resp, &payload)

	payload.Games[2].Values = append(payload.Games[2].Values, gamelist.FieldValue{Name: "name", Value: "Contra"})

	saved, err := client.SaveGameList(ctx, savePayload(t, payload))
	if err != nil {
		t.Fatalf("SaveGameList failed: %v", err)
	}
	if msg := saved.GetFields()["message"].GetStringValue(); msg != SavedMessage {
		t.Errorf("Expected %q, got %q", SavedMessage, msg)
	}

	data, err := os.ReadFile(filepath.Join(root, "nes", "gamelist.xml"))
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), "\t\t<name>Contra</name>\n") {
		t.Errorf("Expected saved name in document:\n%s", data)
	}
}

func TestSaveGameListRejects(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	root, client := env.root, env.client
	ctx := context.Background()

	empty := request(t, map[string]any{"directory": filepath.Join(root, "nes"), "emulator": "nes", "games": []any{}})
	_, err := client.SaveGameList(ctx, empty)
	expectCode(t, err, codes.FailedPrecondition)

	outside := request(t, map[string]any{"directory": "/tmp", "games": []any{}})
	_, err = client.SaveGameList(ctx, outside)
	expectCode(t, err, codes.PermissionDenied)

	dup := request(t, map[string]any{
		"directory": "nes",
		"games": []any{
			map[string]any{"id": 1, "fields": []any{}},
			map[string]any{"id": 1, "fields": []any{}},
		},
	})
	_, err = client.SaveGameList(ctx, dup)
	expectCode(t, err, codes.InvalidArgument)

	_, err = client.SaveGameList(ctx, request(t, nil))
	expectCode(t, err, codes.InvalidArgument)
}

func TestHealth(t *testing.T) {
	env, cleanup := setupTestServer(t)
	defer cleanup()
	client := env.client

	resp, err := client.Health(context.Background(), request(t, nil))
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if !resp.GetFields()["healthy"].GetBoolValue() {
		t.Error("Expected healthy")
	}
	if resp.GetFields()["version"].GetStringValue() != Version {
		t.Errorf("Expected version %s", Version)
	}

	got := testutil.ToFloat64(env.metrics.GrpcRequestsTotal.WithLabelValues(GameListService_Health_FullMethodName, "success"))
	if got != 1 {
		t.Errorf("Expected 1 recorded Health request, got %v", got)
	}
}

func TestObservabilityEndpoints(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.NewMetrics(reg)
	o := NewObservabilityServer(0, reg, logger.NewLogger(logger.Config{Output: io.Discard}))
	srv := httptest.NewServer(o.Handler())
	defer srv.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s failed: %v", path, err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(body)
	}

	if code, _ := get("/health"); code != http.StatusOK {
		t.Errorf("Expected /health 200, got %d", code)
	}
	if code, _ := get("/ready"); code != http.StatusServiceUnavailable {
		t.Errorf("Expected /ready 503 before start, got %d", code)
	}
	o.SetReady(true)
	if code, _ := get("/ready"); code != http.StatusOK {
		t.Errorf("Expected /ready 200, got %d", code)
	}
	if code, body := get("/metrics"); code != http.StatusOK || !strings.Contains(body, "gamelist_server_uptime_seconds") {
		t.Errorf("Expected uptime metric, got %d", code)
	}
}

func TestCatalogLogObserver(t *testing.T) {
	var buf bytes.Buffer
	obs := NewCatalogLogObserver(logger.NewLogger(logger.Config{Level: "debug", Output: &buf}))

	gl := gamelist.New("/roms/nes", "nes")
	gl.AddGame().AddField("path", "./a.nes")
	obs.ObserveCatalog("save", gl, time.Millisecond, nil)
	obs.ObserveCatalog("open", nil, time.Millisecond, errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 log lines, got %d: %s", len(lines), buf.String())
	}
	for _, want := range []string{`"operation":"save"`, `"directory":"/roms/nes"`, `"games":1`} {
		if !strings.Contains(lines[0], want) {
			t.Errorf("Expected %s in %s", want, lines[0])
		}
	}
	if !strings.Contains(lines[1], `"level":"error"`) || !strings.Contains(lines[1], `"error":"boom"`) {
		t.Errorf("Expected failed open to log an error, got %s", lines[1])
	}
}
