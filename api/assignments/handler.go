// Package assignments exposes the schedule board over HTTP.
package assignments

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kilianp07/fleetboard/core/board"
	"github.com/kilianp07/fleetboard/core/model"
	"github.com/kilianp07/fleetboard/infra/logger"
)

// AssignRequest binds a resource to the owner in the URL. An empty role
// defaults to driver for staff and asset for assets. Confirm answers
// the relocation question up front; a conflicting request without it gets
// 409 and may be resubmitted with confirm set.
type AssignRequest struct {
	ResourceType model.ResourceType `json:"resource_type" binding:"required,oneof=staff asset"`
	ResourceID   string             `json:"resource_id" binding:"required"`
	Role         model.Role         `json:"role"`
	Confirm      bool               `json:"confirm"`
}

// Handler serves the board API.
type Handler struct {
	eng *board.Engine
	log logger.Logger
}

// NewHandler returns a handler over eng.
func NewHandler(eng *board.Engine) *Handler {
	return &Handler{eng: eng, log: logger.New("http_api")}
}

// Register mounts every endpoint below r.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/routes", h.listRoutes)
	r.GET("/routes/:id", h.getRoute)
	r.POST("/routes/:id/assignments", h.assignRoute)
	r.DELETE("/routes/:id/assignments", h.clearRoute)
	r.GET("/field-trips", h.listTrips)
	r.GET("/field-trips/:id", h.getTrip)
	r.POST("/field-trips/:id/assignments", h.assignTrip)
	r.DELETE("/field-trips/:id/assignments", h.clearTrip)
	r.GET("/staff/:id", h.binding(model.ResourceStaff))
	r.DELETE("/staff/:id/assignment", h.release(model.ResourceStaff))
	r.GET("/assets/:id", h.binding(model.ResourceAsset))
	r.DELETE("/assets/:id/assignment", h.release(model.ResourceAsset))
	r.GET("/history", h.history)
	r.GET("/verify", h.verify)
}

// NewRouter builds a gin engine with recovery, request logging and the API
// under /api.
func NewRouter(eng *board.Engine) *gin.Engine {
	r := gin.New()
	h := NewHandler(eng)
	r.Use(gin.Recovery(), requestLogger(h.log))
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	h.Register(r.Group("/api"))
	return r
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugw("http request", map[string]any{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
	}
}

func (h *Handler) listRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, h.eng.RouteAssignments())
}

func (h *Handler) getRoute(c *gin.Context) {
	c.JSON(http.StatusOK, h.eng.RouteAssignment(c.Param("id")))
}

func (h *Handler) listTrips(c *gin.Context) {
	c.JSON(http.StatusOK, h.eng.FieldTripAssignments())
}

func (h *Handler) getTrip(c *gin.Context) {
	c.JSON(http.StatusOK, h.eng.FieldTripAssignment(c.Param("id")))
}

func (h *Handler) assignRoute(c *gin.Context) {
	req, ok := bindAssign(c)
	if !ok {
		return
	}
	eng := h.eng.Confirming(board.StaticConfirmer(req.Confirm))
	var res board.Result
	if req.ResourceType == model.ResourceStaff {
		res = eng.AssignStaffToRoute(c.Request.Context(), c.Param("id"), req.ResourceID, req.Role)
	} else {
		res = eng.AssignAssetToRoute(c.Request.Context(), c.Param("id"), req.ResourceID, req.Role)
	}
	respond(c, res)
}

func (h *Handler) assignTrip(c *gin.Context) {
	req, ok := bindAssign(c)
	if !ok {
		return
	}
	res := h.eng.Confirming(board.StaticConfirmer(req.Confirm)).AssignToFieldTrip(c.Request.Context(),
		c.Param("id"), model.ResourceRef{Type: req.ResourceType, ID: req.ResourceID}, req.Role)
	respond(c, res)
}

func (h *Handler) clearRoute(c *gin.Context) {
	respond(c, h.eng.ClearRouteAssignment(c.Request.Context(), c.Param("id"),
		model.Role(c.Query("role")), c.Query("resource_id")))
}

func (h *Handler) clearTrip(c *gin.Context) {
	respond(c, h.eng.ClearFieldTripAssignment(c.Request.Context(), c.Param("id"),
		model.Role(c.Query("role")), c.Query("resource_id")))
}

func (h *Handler) binding(t model.ResourceType) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := model.ResourceRef{Type: t, ID: c.Param("id")}
		b, ok := h.eng.ResourceBinding(ref)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": ref.String() + " is not assigned"})
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

func (h *Handler) release(t model.ResourceType) gin.HandlerFunc {
	return func(c *gin.Context) {
		respond(c, h.eng.ReleaseResource(c.Request.Context(), model.ResourceRef{Type: t, ID: c.Param("id")}))
	}
}

func (h *Handler) history(c *gin.Context) {
	limit := 50
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, h.eng.History(limit))
}

func (h *Handler) verify(c *gin.Context) {
	issues := h.eng.Verify()
	if issues == nil {
		issues = []board.Inconsistency{}
	}
	c.JSON(http.StatusOK, gin.H{"consistent": len(issues) == 0, "issues": issues})
}

func bindAssign(c *gin.Context) (AssignRequest, bool) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	if req.Role == "" {
		req.Role = model.DefaultRole(req.ResourceType)
	}
	return req, true
}

func respond(c *gin.Context, res board.Result) {
	c.JSON(StatusFor(res), res)
}

// StatusFor maps an engine result to an HTTP status.
func StatusFor(res board.Result) int {
	if res.OK {
		return http.StatusOK
	}
	switch res.Code {
	case board.CodeDeclined:
		return http.StatusConflict
	case board.CodeOwnerNotFound, board.CodeResourceNotFound, board.CodeNotAssigned:
		return http.StatusNotFound
	case board.CodeInternal:
		return http.StatusInternalServerError
	}
	return http.StatusUnprocessableEntity
}
