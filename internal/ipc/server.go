package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"

	"capforge/internal/api"
	"capforge/internal/logging"
)

// serviceName is the RPC namespace clients call methods under.
const serviceName = "Capforge"

// Server exposes the api facade via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, svc *api.Service, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, errors.New("ipc server requires a service")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	handler := &handler{svc: svc, socket: path, logger: logging.NewComponentLogger(logger, "ipc"), ctx: ctx}
	if err := rpcServer.RegisterName(serviceName, handler); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("ipc server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type handler struct {
	svc    *api.Service
	socket string
	logger *slog.Logger
	ctx    context.Context
}

func (h *handler) Ping(_ PingRequest, resp *PingResponse) error {
	resp.Running = true
	resp.PID = os.Getpid()
	resp.Socket = h.socket
	return nil
}

func (h *handler) VideoList(_ VideoListRequest, resp *VideoListResponse) error {
	videos, err := h.svc.ListVideos(h.ctx)
	if err != nil {
		return err
	}
	resp.Videos = make([]VideoRecord, 0, len(videos))
	for _, video := range videos {
		resp.Videos = append(resp.Videos, fromVideo(video))
	}
	return nil
}

func (h *handler) VideoAdd(req VideoAddRequest, resp *VideoAddResponse) error {
	if strings.TrimSpace(req.Path) == "" {
		return errors.New("video add requires a path")
	}
	video, err := h.svc.AddVideo(h.ctx, req.Path)
	if err != nil {
		return err
	}
	resp.Video = fromVideo(video)
	return nil
}

func (h *handler) VideoDelete(req VideoDeleteRequest, resp *VideoDeleteResponse) error {
	if strings.TrimSpace(req.VideoID) == "" {
		return errors.New("video delete requires a video id")
	}
	if err := h.svc.DeleteVideo(h.ctx, req.VideoID); err != nil {
		return err
	}
	resp.Deleted = true
	return nil
}

func (h *handler) CaptionsGenerate(req CaptionsGenerateRequest, resp *CaptionsGenerateResponse) error {
	if strings.TrimSpace(req.VideoID) == "" {
		return errors.New("caption generation requires a video id")
	}
	h.logger.Info("caption generation requested", logging.String("video_id", req.VideoID))
	result, err := h.svc.GenerateCaptions(h.ctx, req.VideoID, req.Language)
	if err != nil {
		return err
	}
	resp.CaptionID = result.CaptionID
	resp.Captions = result.Captions
	resp.Language = result.Language
	resp.Duration = result.Duration
	return nil
}

func (h *handler) CaptionsSave(req CaptionsSaveRequest, resp *CaptionsSaveResponse) error {
	if strings.TrimSpace(req.VideoID) == "" {
		return errors.New("caption save requires a video id")
	}
	set, err := h.svc.SaveCaptions(h.ctx, req.VideoID, req.Captions, req.CaptionID)
	if err != nil {
		return err
	}
	resp.Captions = fromCaptionSet(set)
	return nil
}

func (h *handler) CaptionsShow(req CaptionsShowRequest, resp *CaptionsShowResponse) error {
	if strings.TrimSpace(req.VideoID) == "" {
		return errors.New("caption show requires a video id")
	}
	set, err := h.svc.LoadCaptions(h.ctx, req.VideoID)
	if err != nil {
		return err
	}
	resp.Captions = fromCaptionSet(set)
	return nil
}

func (h *handler) Render(req RenderRequest, resp *RenderResponse) error {
	if strings.TrimSpace(req.VideoID) == "" {
		return errors.New("render requires a video id")
	}
	h.logger.Info("render requested",
		logging.String("video_id", req.VideoID),
		logging.String("style", req.Style))
	export, err := h.svc.RenderExport(h.ctx, req.VideoID, req.Captions, req.Style, req.CaptionID)
	if err != nil {
		return err
	}
	resp.Export = fromExport(export)
	return nil
}

func (h *handler) ExportList(req ExportListRequest, resp *ExportListResponse) error {
	if strings.TrimSpace(req.VideoID) == "" {
		return errors.New("export list requires a video id")
	}
	exports, err := h.svc.ListExports(h.ctx, req.VideoID)
	if err != nil {
		return err
	}
	resp.Exports = make([]ExportRecord, 0, len(exports))
	for _, export := range exports {
		resp.Exports = append(resp.Exports, fromExport(export))
	}
	return nil
}
