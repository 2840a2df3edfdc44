package main

import (
	"context"
	"flag"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"tryon-studio/internal/application/usecases"
	"tryon-studio/internal/infrastructure/config"
)

// dataurl converts every image in a directory into a .txt file holding its
// data URL, using the same validation as the upload endpoints.
func main() {
	inDir := flag.String("in", "images", "directory with source images")
	outDir := flag.String("out", "encoded", "directory for the .txt data URLs")
	flag.Parse()

	log.Logger = config.NewLogger("development")

	files, err := os.ReadDir(*inDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", *inDir).Msg("failed to read input directory")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", *outDir).Msg("failed to create output directory")
	}

	validExtensions := []string{".jpg", ".jpeg", ".png", ".webp"}
	ingest := usecases.NewIngestUseCase()

	var failed int
	for _, file := range files {
		ext := strings.ToLower(filepath.Ext(file.Name()))
		if file.IsDir() || !slices.Contains(validExtensions, ext) {
			continue
		}
		if err := convert(ingest, filepath.Join(*inDir, file.Name()), *outDir); err != nil {
			failed++
			log.Error().Err(err).Str("file", file.Name()).Msg("skipped")
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func convert(ingest *usecases.IngestUseCase, path, outDir string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	imageData, err := ingest.Execute(context.Background(), usecases.FileInput{
		Name:     filepath.Base(path),
		MimeType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Size:     info.Size(),
		Reader:   f,
	})
	if err != nil {
		return err
	}

	// 拡張子を除いたファイル名で保存
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(outDir, name+".txt")
	if err := os.WriteFile(out, []byte(imageData.Ref().String()), 0o644); err != nil {
		return err
	}
	log.Info().Str("file", out).Int("bytes", imageData.Size()).Msg("encoded")
	return nil
}
