package main

import (
	"fmt"
	"path/filepath"
	"time"

	"qaboard/internal/backend"
	"qaboard/internal/config"
	"qaboard/internal/store"
)

// app bundles the loaded config with a backend client carrying the saved
// session cookie. Commands that only read the local cache use openStore
// instead and never touch the network.
type app struct {
	cfg    config.Config
	client *backend.Client
	jar    *backend.SessionJar
}

func sessionPath(dataDir string) string {
	return filepath.Join(dataDir, "session.json")
}

// newApp is a variable so tests can substitute a client wired to a test
// server.
var newApp = func() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	jar, err := backend.OpenSessionJar(sessionPath(cfg.Storage.DataDir), cfg.Backend.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	retry := backend.DefaultRetryPolicy()
	retry.MaxRetries = cfg.Backend.MaxRetries

	client := backend.New(cfg.Backend.BaseURL, backend.Options{
		Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
		Jar:     jar,
		Retry:   &retry,
		OnUnauthorized: func() {
			printWarning("session expired, run 'qaboard login'")
			if err := jar.Clear(); err != nil {
				printError("could not drop saved session: %v", err)
			}
		},
	})

	return &app{cfg: cfg, client: client, jar: jar}, nil
}

// openStore is a variable for the same reason newApp is.
var openStore = func() (*store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	s, err := store.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening local cache: %w", err)
	}
	return s, nil
}
