package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"babytrack/internal/models"
	"babytrack/internal/service"
)

// PermissionHandler exposes the per-member view permission endpoints
type PermissionHandler struct {
	permService *service.PermissionService
	logger      zerolog.Logger
}

// NewPermissionHandler creates a new permission handler
func NewPermissionHandler(permService *service.PermissionService, logger zerolog.Logger) *PermissionHandler {
	return &PermissionHandler{permService: permService, logger: logger}
}

// permissionEntry is one record type's view flag in the update payload.
// The structured array is the only accepted wire format; there is no
// flattened form encoding.
type permissionEntry struct {
	RecordType string `json:"record_type"`
	CanView    bool   `json:"can_view"`
}

type updatePermissionsRequest struct {
	UserID      int64             `json:"user_id"`
	Permissions []permissionEntry `json:"permissions"`
}

// GetMemberPermissions returns a member's effective view permissions for one
// baby, keyed by record type
func (h *PermissionHandler) GetMemberPermissions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	familyID, ok := pathID(w, r, "familyID")
	if !ok {
		return
	}
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}
	memberID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	// Members may inspect their own permissions; seeing another member's
	// requires the admin role.
	if memberID != user.ID {
		if err := h.permService.RequireAdmin(user.ID, familyID); err != nil {
			writeServiceError(w, h.logger, err)
			return
		}
	}

	perms, err := h.permService.GetUserPermissions(memberID, babyID, familyID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, perms)
}

// UpdateMemberPermissions upserts a member's grants for one baby from a
// structured JSON payload. Admin only.
func (h *PermissionHandler) UpdateMemberPermissions(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	familyID, ok := pathID(w, r, "familyID")
	if !ok {
		return
	}
	babyID, ok := pathID(w, r, "babyID")
	if !ok {
		return
	}

	var req updatePermissionsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID <= 0 {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	if len(req.Permissions) == 0 {
		writeError(w, http.StatusBadRequest, "permissions must not be empty")
		return
	}

	grants := make(map[models.RecordType]bool, len(req.Permissions))
	for _, entry := range req.Permissions {
		rt := models.RecordType(entry.RecordType)
		if !rt.Valid() {
			writeError(w, http.StatusBadRequest, "unknown record type: "+entry.RecordType)
			return
		}
		grants[rt] = entry.CanView
	}

	if err := h.permService.UpdatePermissions(user.ID, req.UserID, babyID, familyID, grants); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info().
		Int64("baby_id", babyID).
		Int64("target_user_id", req.UserID).
		Int64("actor_id", user.ID).
		Msg("permissions updated")
	w.WriteHeader(http.StatusNoContent)
}
