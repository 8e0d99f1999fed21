package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/aietlabs/faceattend/config"
	"github.com/aietlabs/faceattend/database"
	"github.com/aietlabs/faceattend/routes"
	"github.com/aietlabs/faceattend/vision"
)

func main() {
	cfg := config.Load()

	// fail early if the database is unreachable
	database.Connect(cfg)

	detector, err := vision.NewDetector(cfg.CascadePath, cfg.ScaleFactor, cfg.MinNeighbors, cfg.MinFaceSize)
	if err != nil {
		log.Fatalf("face detector init failed: %v", err)
	}
	recognizer := vision.NewRecognizer(cfg.ModelPath)
	engine := vision.NewEngine(detector, recognizer, cfg.FaceDataDir)
	defer engine.Close()

	if recognizer.Trained() {
		log.Printf("loaded trained recognition model from %s", cfg.ModelPath)
	} else {
		log.Printf("no trained model at %s; recognition disabled until first enrollment", cfg.ModelPath)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, cfg, engine)

	addr := ":" + cfg.AppPort
	log.Printf("server listening at %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
