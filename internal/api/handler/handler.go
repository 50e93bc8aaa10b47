package handler

import (
	"pingdm/backend/internal/auth"
	"pingdm/backend/internal/chathub"
	"pingdm/backend/internal/storage"
)

// Handler wires the HTTP surface to the hub and the store.
type Handler struct {
	Hub     *chathub.Hub
	Storage storage.Storage
	Auth    auth.TokenService
}

func NewHandler(hub *chathub.Hub, s storage.Storage, a auth.TokenService) *Handler {
	return &Handler{Hub: hub, Storage: s, Auth: a}
}
