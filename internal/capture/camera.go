package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/lotverify/docscan/internal/imaging"
)

// Facing selects which camera stream to attach: the rear (environment)
// document camera or the front (user) camera.
type Facing string

const (
	FacingEnvironment Facing = "environment"
	FacingUser        Facing = "user"
)

// Opposite returns the other facing mode.
func (f Facing) Opposite() Facing {
	if f == FacingUser {
		return FacingEnvironment
	}
	return FacingUser
}

// CameraConfig describes the network frame grabber backing live capture.
// Streams maps each facing mode to its snapshot endpoint; a camera with a
// single lens configures only FacingEnvironment. IdealWidth/IdealHeight are
// resolution hints forwarded to the device, not guarantees — captures are
// taken at whatever resolution the device actually reports.
type CameraConfig struct {
	Streams     map[Facing]string
	Facing      Facing
	IdealWidth  int
	IdealHeight int
	Timeout     time.Duration
}

// Camera is the live-capture image source. A Camera must be started before
// frames can be captured, and stopped when live video is no longer needed.
type Camera struct {
	httpClient *http.Client
	streams    map[Facing]string
	idealW     int
	idealH     int

	mu       sync.Mutex
	facing   Facing
	attached string // active stream URL, empty when stopped
}

// NewCamera creates a camera over the given frame-grabber config.
func NewCamera(cfg CameraConfig) *Camera {
	facing := cfg.Facing
	if facing == "" {
		facing = FacingEnvironment
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Camera{
		httpClient: &http.Client{Timeout: timeout},
		streams:    cfg.Streams,
		idealW:     cfg.IdealWidth,
		idealH:     cfg.IdealHeight,
		facing:     facing,
	}
}

// Start attaches the stream for the current facing mode. Attachment probes
// the device so denial or unreachability surfaces immediately as a
// DeviceError, leaving no active stream.
func (c *Camera) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.startLocked(ctx)
}

func (c *Camera) startLocked(ctx context.Context) error {
	streamURL, err := c.streamURL(c.facing)
	if err != nil {
		return &DeviceError{Op: "start", Err: err}
	}

	if _, err := c.fetchFrame(ctx, streamURL); err != nil {
		c.attached = ""
		return &DeviceError{Op: "start", Err: err}
	}

	c.attached = streamURL
	return nil
}

// Stop releases the stream. Safe to call when already stopped.
func (c *Camera) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attached = ""
}

// Active reports whether a stream is currently attached.
func (c *Camera) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attached != ""
}

// Facing returns the current facing mode.
func (c *Camera) Facing() Facing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.facing
}

// ToggleFacing tears the stream down and re-attaches with the opposite facing
// mode. This is a full stop/start cycle: if the opposite camera is
// unavailable the Camera is left stopped and a DeviceError is returned.
func (c *Camera) ToggleFacing(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attached = ""
	c.facing = c.facing.Opposite()
	return c.startLocked(ctx)
}

// Capture freezes the current frame at its native resolution into a lossless
// PNG data URL. It fails with a DeviceError if no stream is attached.
func (c *Camera) Capture(ctx context.Context) (Image, error) {
	c.mu.Lock()
	streamURL := c.attached
	c.mu.Unlock()

	if streamURL == "" {
		return Image{}, &DeviceError{Op: "capture", Err: fmt.Errorf("no stream attached")}
	}

	frame, err := c.fetchFrame(ctx, streamURL)
	if err != nil {
		return Image{}, &DeviceError{Op: "capture", Err: err}
	}

	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return Image{}, &DeviceError{Op: "capture", Err: fmt.Errorf("failed to decode frame: %w", err)}
	}

	// Rasterize at the stream's reported size, never a fixed preview size.
	bounds := img.Bounds()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Image{}, &DeviceError{Op: "capture", Err: fmt.Errorf("failed to encode frame: %w", err)}
	}

	return Image{
		DataURL:  imaging.EncodeDataURI(buf.Bytes(), "image/png"),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Origin:   OriginCamera,
		FileName: fmt.Sprintf("webcam_%d.png", time.Now().Unix()),
	}, nil
}

func (c *Camera) streamURL(facing Facing) (string, error) {
	raw, ok := c.streams[facing]
	if !ok || raw == "" {
		return "", fmt.Errorf("no stream configured for facing mode %q", facing)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid stream URL: %w", err)
	}

	if c.idealW > 0 && c.idealH > 0 {
		q := u.Query()
		q.Set("width", strconv.Itoa(c.idealW))
		q.Set("height", strconv.Itoa(c.idealH))
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

func (c *Camera) fetchFrame(ctx context.Context, streamURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create frame request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach camera: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("camera returned status %d", resp.StatusCode)
	}

	frame, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}

	return frame, nil
}
