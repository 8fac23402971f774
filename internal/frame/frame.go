// Package frame extracts a still image from an in-memory video clip by piping
// it through ffmpeg. Nothing is written to disk; clips stay session-local.
package frame

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/pkg/errors"
)

const jpegMIMEType = "image/jpeg"

// Still is the captured frame, JPEG-encoded.
type Still struct {
	Data     []byte
	MIMEType string
}

// Capture decodes the first frame of the clip into a JPEG. ffmpeg reads the
// video from stdin and writes the single frame to stdout.
func Capture(ctx context.Context, video []byte) (Still, error) {
	if len(video) == 0 {
		return Still{}, errors.New("no video data to capture from")
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return Still{}, errors.New("ffmpeg not found in PATH; frame editing requires ffmpeg")
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(video)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return Still{}, errors.Wrapf(err, "ffmpeg frame extraction: %s", stderr.String())
	}
	if stdout.Len() == 0 {
		return Still{}, errors.New("ffmpeg produced no frame")
	}
	return Still{Data: stdout.Bytes(), MIMEType: jpegMIMEType}, nil
}
