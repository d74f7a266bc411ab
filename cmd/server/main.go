package main

import (
	"context"
	"html/template"
	"log"
	"net/http"
	"path/filepath"

	"housequest/internal/config"
	"housequest/internal/game"
	"housequest/internal/narrate"
	"housequest/internal/session"
	"housequest/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	scenes, err := game.LoadScenes(cfg.ScenesPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := scenes.Validate(); err != nil {
		log.Fatalf("scene data invalid: %v", err)
	}

	tmpl := template.Must(template.ParseFiles(
		filepath.Join(cfg.TemplatesDir, "layout.html"),
		filepath.Join(cfg.TemplatesDir, "start.html"),
		filepath.Join(cfg.TemplatesDir, "game.html"),
		filepath.Join(cfg.TemplatesDir, "followup.html"),
		filepath.Join(cfg.TemplatesDir, "result.html"),
	))

	var store session.Store[string]
	if cfg.DBPath != "" {
		sq, err := session.NewSQLiteStore[string](cfg.DBPath)
		if err != nil {
			log.Fatal(err)
		}
		defer sq.Close()
		store = sq
		log.Printf("saving games to %s", cfg.DBPath)
	} else {
		store = session.NewMemoryStore[string]()
	}

	var narrator narrate.Generator = narrate.Static{}
	if cfg.GeminiAPIKey != "" {
		g, err := narrate.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Printf("generated narration disabled: %v", err)
		} else {
			defer g.Close()
			narrator = g
			log.Printf("generated narration enabled (%s)", cfg.GeminiModel)
		}
	}

	srv := web.NewServer(scenes, store, tmpl, narrator)
	log.Printf("listening on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, srv.Routes()))
}
