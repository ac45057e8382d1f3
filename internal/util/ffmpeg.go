package util

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// AudioInfo is what the listening editor needs to know about an audio file.
type AudioInfo struct {
	Duration   float64 `json:"duration"` // seconds
	Codec      string  `json:"codec"`
	SampleRate int     `json:"sample_rate"`
	Format     string  `json:"format"`
	Size       int64   `json:"size"`
}

// GetAudioInfo probes an audio file with ffprobe.
func GetAudioInfo(path string) (*AudioInfo, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("audio file not found: %w", err)
	}

	jsonOutput, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("probe audio: %w", err)
	}
	return parseProbe(jsonOutput, fileInfo.Size())
}

func parseProbe(jsonOutput string, fileSize int64) (*AudioInfo, error) {
	var result struct {
		Streams []struct {
			CodecType  string `json:"codec_type"`
			CodecName  string `json:"codec_name"`
			SampleRate string `json:"sample_rate"`
			Duration   string `json:"duration"`
		} `json:"streams"`
		Format struct {
			Duration string `json:"duration"`
			Size     string `json:"size"`
			Format   string `json:"format_name"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		return nil, fmt.Errorf("parse probe output: %w", err)
	}

	info := &AudioInfo{Format: "unknown", Size: fileSize}
	hasAudio := false
	for _, stream := range result.Streams {
		if stream.CodecType != "audio" {
			continue
		}
		hasAudio = true
		info.Codec = stream.CodecName
		info.SampleRate, _ = strconv.Atoi(stream.SampleRate)
		if d, err := strconv.ParseFloat(stream.Duration, 64); err == nil {
			info.Duration = d
		}
		break
	}
	if !hasAudio {
		return nil, fmt.Errorf("no audio stream")
	}

	if d, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil && d > 0 {
		info.Duration = d
	}
	if size, err := strconv.ParseInt(result.Format.Size, 10, 64); err == nil {
		info.Size = size
	}
	if parts := strings.Split(result.Format.Format, ","); len(parts) > 0 && parts[0] != "" {
		info.Format = parts[0]
	}
	return info, nil
}
