// Package main is the entry point for the shadow map baker.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/umbra/internal/bake"
	"github.com/Faultbox/umbra/internal/config"
	"github.com/Faultbox/umbra/internal/engine/gpu"
	"github.com/Faultbox/umbra/internal/engine/scene"
	"github.com/Faultbox/umbra/internal/engine/window"
	"github.com/Faultbox/umbra/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Umbra Shadow Baker ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Warn("failed to save config", zap.Error(err))
		} else {
			logger.Info("config saved", zap.String("dir", config.ConfigDir()))
		}
	}

	if err := run(cfg); err != nil {
		logger.Error("bake failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// Create window (this also creates OpenGL context)
	win, err := window.New(window.Config{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Hidden: cfg.Window.Hidden,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	dev, err := gpu.NewGL()
	if err != nil {
		return fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	b, err := bake.New(cfg, dev, scene.Demo())
	if err != nil {
		return err
	}
	defer b.Close()

	width, height := win.Size()
	res, err := b.Bake(width, height, win.Aspect())
	if err != nil {
		return err
	}

	artifacts, err := b.Write(res)
	if err != nil {
		return err
	}

	logger.Info("bake complete",
		zap.String("depth_png", artifacts.DepthPNG),
		zap.String("depth_tiff", artifacts.DepthTIFF),
		zap.String("kernel_yaml", artifacts.KernelYAML),
		zap.String("kernel_png", artifacts.KernelPNG),
	)
	return nil
}
