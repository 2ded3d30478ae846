// Package server implements the gRPC gamelist service
package server

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/nainya/gamelist/internal/logger"
	"github.com/nainya/gamelist/pkg/emulator"
	"github.com/nainya/gamelist/pkg/field"
	"github.com/nainya/gamelist/pkg/gamedoc"
	"github.com/nainya/gamelist/pkg/gamelist"
	"github.com/nainya/gamelist/pkg/library"
)

// Version is reported by the Health RPC
const Version = "1.0.0"

// SavedMessage is returned after a successful save
const SavedMessage = "Game list saved"

var errOutsideRoot = errors.New("directory is outside the roms root")

// Server implements GameListServiceServer. It keeps no catalog between
// requests: every call opens a fresh catalog from disk.
type Server struct {
	lib       *library.Library
	policy    *field.Policy
	root      string
	log       *logger.Logger
	startTime time.Time
}

// NewServer creates a server rooted at romsRoot. An empty root lets callers
// name any directory.
func NewServer(lib *library.Library, romsRoot string, policy *field.Policy, log *logger.Logger) *Server {
	if romsRoot != "" {
		if abs, err := filepath.Abs(romsRoot); err == nil {
			romsRoot = abs
		}
	}
	return &Server{
		lib:       lib,
		policy:    policy,
		root:      romsRoot,
		log:       log,
		startTime: time.Now(),
	}
}

// ========== Catalog Operations ==========

func (s *Server) ListEmulators(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	dir := stringField(req, "path")
	if dir == "" {
		dir = s.root
	}
	root, err := s.resolve(dir)
	if err != nil {
		return nil, toStatus(err)
	}

	metas, err := s.lib.Emulators(root)
	if err != nil {
		return nil, toStatus(err)
	}
	if len(metas) == 0 {
		return nil, status.Errorf(codes.NotFound, "No emulators found in %s", root)
	}

	resp, err := ToStruct(map[string]any{"emulators": metas})
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

func (s *Server) GetGameList(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	raw := stringField(req, "directory")
	if raw == "" {
		return nil, status.Error(codes.InvalidArgument, "directory is required")
	}
	dir, err := s.resolve(raw)
	if err != nil {
		return nil, toStatus(err)
	}

	gl, err := s.lib.Open(dir)
	if err != nil {
		return nil, toStatus(err)
	}
	if gl.Len() == 0 {
		return nil, status.Error(codes.NotFound, "No games found")
	}

	payload := gl.Payload()
	if query := stringField(req, "query"); query != "" {
		payload.Games = filterPayload(payload.Games, gl.Filter(query))
	}

	resp, err := ToStruct(payload)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return resp, nil
}

func (s *Server) SaveGameList(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var payload gamelist.Payload
	if err := FromStruct(req, &payload); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid catalog: %v", err)
	}
	if payload.Directory == "" {
		return nil, status.Error(codes.InvalidArgument, "directory is required")
	}
	dir, err := s.resolve(payload.Directory)
	if err != nil {
		return nil, toStatus(err)
	}
	payload.Directory = dir

	gl, err := gamelist.Restore(payload, gamelist.WithPolicy(s.policy))
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.lib.Save(gl); err != nil {
		return nil, toStatus(err)
	}
	s.log.RPCLogger(GameListService_SaveGameList_FullMethodName).
		Info("Catalog saved").
		Str("directory", dir).
		Int("games", gl.Len()).
		Int("invalid_fields", gl.InvalidCount()).
		Send()

	return structpb.NewStruct(map[string]any{"message": SavedMessage})
}

// ========== Health & Status ==========

func (s *Server) Health(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"healthy":        true,
		"version":        Version,
		"uptime_seconds": int64(time.Since(s.startTime).Seconds()),
	})
}

// resolve turns a requested directory into an absolute path below the roms
// root. Relative paths are taken from the root. Symlinks are followed on
// both sides, so a link under the root cannot lead out of it.
func (s *Server) resolve(dir string) (string, error) {
	if s.root == "" {
		return filepath.Abs(dir)
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(s.root, dir)
	}
	dir = filepath.Clean(dir)
	if !within(s.root, dir) {
		return "", fmt.Errorf("%w: %s", errOutsideRoot, dir)
	}

	target, err := filepath.EvalSymlinks(dir)
	if err != nil {
		// missing directories are reported by the library
		return dir, nil
	}
	root := s.root
	if r, err := filepath.EvalSymlinks(root); err == nil {
		root = r
	}
	if !within(root, target) {
		return "", fmt.Errorf("%w: %s -> %s", errOutsideRoot, dir, target)
	}
	return dir, nil
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func stringField(req *structpb.Struct, name string) string {
	return strings.TrimSpace(req.GetFields()[name].GetStringValue())
}

func filterPayload(all []gamelist.GamePayload, keep []*gamelist.Game) []gamelist.GamePayload {
	ids := make(map[int]struct{}, len(keep))
	for _, g := range keep {
		ids[g.ID()] = struct{}{}
	}
	out := make([]gamelist.GamePayload, 0, len(keep))
	for _, gp := range all {
		if _, ok := ids[gp.ID]; ok {
			out = append(out, gp)
		}
	}
	return out
}

// toStatus maps domain errors onto gRPC status codes
func toStatus(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, errOutsideRoot):
		code = codes.PermissionDenied
	case errors.Is(err, gamelist.ErrInvalidPayload):
		code = codes.InvalidArgument
	case errors.Is(err, emulator.ErrInvalidDirectory):
		code = codes.NotFound
	case errors.Is(err, emulator.ErrMissingRequiredFiles),
		errors.Is(err, library.ErrEmptyCatalog):
		code = codes.FailedPrecondition
	case errors.Is(err, gamedoc.ErrMalformedDocument):
		code = codes.DataLoss
	}
	return status.Error(code, err.Error())
}
