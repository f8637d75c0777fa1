package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"

	"capforge/internal/segments"
)

// Client provides RPC access to a running serve process.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Ping checks that the server is alive.
func (c *Client) Ping() (*PingResponse, error) {
	var resp PingResponse
	if err := c.client.Call(serviceName+".Ping", PingRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VideoList returns the catalog, newest first.
func (c *Client) VideoList() (*VideoListResponse, error) {
	var resp VideoListResponse
	if err := c.client.Call(serviceName+".VideoList", VideoListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VideoAdd registers a local media file.
func (c *Client) VideoAdd(path string) (*VideoAddResponse, error) {
	var resp VideoAddResponse
	if err := c.client.Call(serviceName+".VideoAdd", VideoAddRequest{Path: path}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VideoDelete removes a video and its dependent records.
func (c *Client) VideoDelete(videoID string) (*VideoDeleteResponse, error) {
	var resp VideoDeleteResponse
	if err := c.client.Call(serviceName+".VideoDelete", VideoDeleteRequest{VideoID: videoID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CaptionsGenerate runs transcription for a video.
func (c *Client) CaptionsGenerate(videoID, language string) (*CaptionsGenerateResponse, error) {
	var resp CaptionsGenerateResponse
	req := CaptionsGenerateRequest{VideoID: videoID, Language: language}
	if err := c.client.Call(serviceName+".CaptionsGenerate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CaptionsSave upserts a caption set.
func (c *Client) CaptionsSave(videoID, captionID string, captions []segments.Caption) (*CaptionsSaveResponse, error) {
	var resp CaptionsSaveResponse
	req := CaptionsSaveRequest{VideoID: videoID, CaptionID: captionID, Captions: captions}
	if err := c.client.Call(serviceName+".CaptionsSave", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CaptionsShow returns a video's most recent caption set.
func (c *Client) CaptionsShow(videoID string) (*CaptionsShowResponse, error) {
	var resp CaptionsShowResponse
	if err := c.client.Call(serviceName+".CaptionsShow", CaptionsShowRequest{VideoID: videoID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Render burns captions into a video export.
func (c *Client) Render(req RenderRequest) (*RenderResponse, error) {
	var resp RenderResponse
	if err := c.client.Call(serviceName+".Render", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExportList returns a video's exports, newest first.
func (c *Client) ExportList(videoID string) (*ExportListResponse, error) {
	var resp ExportListResponse
	if err := c.client.Call(serviceName+".ExportList", ExportListRequest{VideoID: videoID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
