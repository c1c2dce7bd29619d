package restapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"ledserver/internal/canvas"
	"ledserver/internal/controller"
	"ledserver/internal/socket"
)

type canvasDTO struct {
	ID       uint32       `json:"id"`
	Name     string       `json:"name"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	FPS      uint16       `json:"fps"`
	Features []featureDTO `json:"features"`
}

type featureDTO struct {
	ID           uint32 `json:"id"`
	Host         string `json:"host"`
	FriendlyName string `json:"friendlyName"`
	Port         uint16 `json:"port"`
	OffsetX      int    `json:"offsetX"`
	OffsetY      int    `json:"offsetY"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

type socketDTO struct {
	Host           string `json:"host"`
	FriendlyName   string `json:"friendlyName"`
	State          string `json:"state"`
	ReconnectCount uint32 `json:"reconnectCount"`
	QueueDepth     int    `json:"queueDepth"`
	BytesPerSecond uint32 `json:"bytesPerSecond"`
}

type createCanvasRequest struct {
	ID     uint32 `json:"id"`
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	FPS    uint16 `json:"fps"`
}

type createFeatureRequest struct {
	ID               uint32 `json:"id"`
	Type             string `json:"type"`
	Host             string `json:"host"`
	FriendlyName     string `json:"friendlyName"`
	Port             uint16 `json:"port"`
	OffsetX          int    `json:"offsetX"`
	OffsetY          int    `json:"offsetY"`
	Width            int    `json:"width"`
	Height           int    `json:"height"`
	Channel          uint8  `json:"channel"`
	Reversed         bool   `json:"reversed"`
	RedGreenSwap     bool   `json:"redGreenSwap"`
	ClientBufferCount int   `json:"clientBufferCount"`
}

func toCanvasDTO(c *canvas.Canvas) canvasDTO {
	dto := canvasDTO{ID: c.ID(), Name: c.Name(), Width: c.Width(), Height: c.Height(), FPS: c.FPS()}
	for _, f := range c.Features() {
		dto.Features = append(dto.Features, toFeatureDTO(f))
	}
	return dto
}

func toFeatureDTO(f *canvas.Feature) featureDTO {
	return featureDTO{
		ID:           f.ID(),
		Host:         f.Host(),
		FriendlyName: f.FriendlyName(),
		Port:         f.Port(),
		OffsetX:      f.OffsetX(),
		OffsetY:      f.OffsetY(),
		Width:        f.Width(),
		Height:       f.Height(),
	}
}

func toSocketDTO(ch *socket.Channel) socketDTO {
	return socketDTO{
		Host:           ch.Host(),
		FriendlyName:   ch.FriendlyName(),
		State:          ch.State().String(),
		ReconnectCount: ch.ReconnectCount(),
		QueueDepth:     ch.QueueDepth(),
		BytesPerSecond: ch.BytesPerSecond(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeControllerError maps a controller error kind to its HTTP status.
func writeControllerError(w http.ResponseWriter, err error) {
	var nf *controller.NotFound
	var ia *controller.InvalidArgument
	switch {
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &ia):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func parseID(r *http.Request, name string) (uint32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	return uint32(id), nil
}

func (s *Server) listCanvases(w http.ResponseWriter, r *http.Request) {
	canvases := s.ctl.Canvases()
	dtos := make([]canvasDTO, 0, len(canvases))
	for _, c := range canvases {
		dtos = append(dtos, toCanvasDTO(c))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) createCanvas(w http.ResponseWriter, r *http.Request) {
	var req createCanvasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	c, err := canvas.New(req.ID, req.Name, req.Width, req.Height, req.FPS)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ctl.AddCanvas(c); err != nil {
		writeControllerError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/canvases/%d", c.ID()))
	writeJSON(w, http.StatusCreated, toCanvasDTO(c))
}

func (s *Server) getCanvas(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.ctl.Canvas(id)
	if err != nil {
		writeControllerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCanvasDTO(c))
}

func (s *Server) updateCanvas(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.ctl.Canvas(id)
	if err != nil {
		writeControllerError(w, err)
		return
	}

	var req createCanvasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}
	if req.Name != "" {
		c.SetName(req.Name)
	}
	if req.FPS != 0 {
		c.SetFPS(req.FPS)
	}
	writeJSON(w, http.StatusOK, toCanvasDTO(c))
}

func (s *Server) deleteCanvas(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ctl.RemoveCanvas(id); err != nil {
		writeControllerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listFeatures(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	c, err := s.ctl.Canvas(id)
	if err != nil {
		writeControllerError(w, err)
		return
	}
	features := c.Features()
	dtos := make([]featureDTO, 0, len(features))
	for _, f := range features {
		dtos = append(dtos, toFeatureDTO(f))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) createFeature(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req createFeatureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}

	f := canvas.NewFeature(canvas.FeatureConfig{
		ID:               req.ID,
		Type:             req.Type,
		Host:             req.Host,
		FriendlyName:     req.FriendlyName,
		Port:             req.Port,
		OffsetX:          req.OffsetX,
		OffsetY:          req.OffsetY,
		Width:            req.Width,
		Height:           req.Height,
		Channel:          req.Channel,
		Reversed:         req.Reversed,
		RedGreenSwap:     req.RedGreenSwap,
		FramesPerBuffer:  req.ClientBufferCount,
	})
	if err := s.ctl.AddFeature(id, f); err != nil {
		writeControllerError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/canvases/%d/features/%d", id, f.ID()))
	writeJSON(w, http.StatusCreated, toFeatureDTO(f))
}

func (s *Server) deleteFeature(w http.ResponseWriter, r *http.Request) {
	canvasID, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	featureID, err := parseID(r, "featureId")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ctl.RemoveFeature(canvasID, featureID); err != nil {
		writeControllerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listSockets(w http.ResponseWriter, r *http.Request) {
	sockets := s.ctl.Sockets()
	dtos := make([]socketDTO, 0, len(sockets))
	for _, ch := range sockets {
		dtos = append(dtos, toSocketDTO(ch))
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (s *Server) getSocket(w http.ResponseWriter, r *http.Request) {
	host := mux.Vars(r)["host"]
	ch, ok := s.ctl.SocketByHost(host)
	if !ok {
		writeError(w, http.StatusNotFound, "socket "+host+" not found")
		return
	}
	writeJSON(w, http.StatusOK, toSocketDTO(ch))
}

func (s *Server) getController(w http.ResponseWriter, r *http.Request) {
	canvases := s.ctl.Canvases()
	dtos := make([]canvasDTO, 0, len(canvases))
	for _, c := range canvases {
		dtos = append(dtos, toCanvasDTO(c))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"canvases":    dtos,
		"socketCount": len(s.ctl.Sockets()),
	})
}
