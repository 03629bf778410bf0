package ffmpeg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

var ErrNotFound = errors.New("ffmpeg binaries not found")

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

// Locate fills in whichever of the configured paths is empty by searching
// PATH. Configured paths must point at an existing file.
func Locate(configured BinaryPaths) (BinaryPaths, error) {
	ffmpegPath, err := locate("ffmpeg", configured.FFmpeg)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobePath, err := locate("ffprobe", configured.FFprobe)
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}

func locate(name, configured string) (string, error) {
	if configured != "" {
		if !fileExists(configured) {
			return "", fmt.Errorf("%s not found at %s: %w", name, configured, ErrNotFound)
		}
		return configured, nil
	}
	found, err := exec.LookPath(name + executableSuffix())
	if err != nil {
		return "", fmt.Errorf("%s not in PATH (set %s.path in config): %w", name, name, ErrNotFound)
	}
	return found, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Size() > 0
}

func executableSuffix() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}
