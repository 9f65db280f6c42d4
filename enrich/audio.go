package enrich

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ExtractAudio downloads a video and converts it to mp3 for transcription.
// The downloaded video is removed on every path; the caller owns (and must
// remove) the returned mp3.
func ExtractAudio(ctx context.Context, videoURL string) (string, error) {
	videoPath := filepath.Join(os.TempDir(), "adscope-video-"+uuid.NewString()+".mp4")
	defer os.Remove(videoPath)

	if err := downloadFile(ctx, videoURL, videoPath); err != nil {
		return "", fmt.Errorf("download video: %w", err)
	}

	audioPath := filepath.Join(os.TempDir(), "adscope-audio-"+uuid.NewString()+".mp3")
	err := ffmpeg.Input(videoPath).
		Output(audioPath, ffmpeg.KwArgs{
			"vn":     "",
			"acodec": "libmp3lame",
		}).
		OverWriteOutput().
		Silent(true).
		Run()
	if err != nil {
		os.Remove(audioPath)
		return "", fmt.Errorf("extract audio: %w", err)
	}

	return audioPath, nil
}

func downloadFile(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d fetching %s", resp.StatusCode, url)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}
