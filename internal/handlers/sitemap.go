package handlers

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

type RouteEntry struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

type SitemapResponse struct {
	Routes []RouteEntry `json:"routes"`
}

// SitemapHandler lists the routes registered on the router at request time.
type SitemapHandler struct {
	routes func() []*echo.Route
}

func NewSitemapHandler(routes func() []*echo.Route) *SitemapHandler {
	return &SitemapHandler{routes: routes}
}

func (h *SitemapHandler) List(c echo.Context) error {
	registered := h.routes()
	entries := make([]RouteEntry, 0, len(registered))
	for _, r := range registered {
		entries = append(entries, RouteEntry{Method: r.Method, Path: r.Path})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Path != entries[j].Path {
			return entries[i].Path < entries[j].Path
		}
		return entries[i].Method < entries[j].Method
	})

	return c.JSON(http.StatusOK, SitemapResponse{Routes: entries})
}
