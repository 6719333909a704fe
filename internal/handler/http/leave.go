package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/alturath/hr-audit/internal/domain/leave"
	"github.com/alturath/hr-audit/internal/handler/http/response"
	"github.com/alturath/hr-audit/internal/pkg/spreadsheet"
)

type LeaveHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Register(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

// List implements LeaveHandler.
func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	req := leave.ListLeaveRequest{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}

	records, err := h.leaveService.ListLeaves(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, records)
}

// Register implements LeaveHandler.
func (h *LeaveHandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	var req leave.RegisterLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("RegisterLeave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	record, err := h.leaveService.RegisterLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave record registered", record)
}

// Import implements LeaveHandler.
func (h *LeaveHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	f, fh, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "file is required", nil)
		return
	}
	defer f.Close()

	wb, err := spreadsheet.Read(f, fh.Filename)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.leaveService.ImportLeaves(r.Context(), wb)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave records imported", result)
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}
