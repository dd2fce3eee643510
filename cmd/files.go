package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gifkit/animation"
	"gifkit/gifio"
)

// encodeFunc is the size oracle handed to the compression pipeline.
var encodeFunc = gifio.EncodeBytes

func loadAnimation(path string) (*animation.Animation, os.FileInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open '%s': %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat '%s': %w", path, err)
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("'%s' is a directory", path)
	}

	anim, err := gifio.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, nil, fmt.Errorf("decode '%s': %w", path, err)
	}
	return anim, info, nil
}

func writeAnimation(path string, anim *animation.Animation) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create '%s': %w", path, err)
	}
	defer out.Close()

	writer := bufio.NewWriter(out)
	if err := gifio.Encode(writer, anim); err != nil {
		return fmt.Errorf("save '%s': %w", path, err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("save '%s': %w", path, err)
	}
	log.Info().Str("output", path).Msg("saved")
	return nil
}

// derivedOutputPath names the output next to the input when no
// explicit --output is given.
func derivedOutputPath(input string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+"_min"+ext)
}

func percentString(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
