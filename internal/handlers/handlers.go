// Package handlers holds one handler per portal endpoint. Each handler is a
// single synchronous pass: validate, normalize, hit the store, shape the
// response envelope.
package handlers

import (
	"github.com/conectahn/wifi-portal-backend/internal/config"
	"github.com/conectahn/wifi-portal-backend/internal/store"
)

var (
	visitorStore store.Store
	cfg          *config.Config
)

// Init injects the record store and configuration. Called once from main
// before the router starts serving.
func Init(s store.Store, c *config.Config) {
	visitorStore = s
	cfg = c
}
