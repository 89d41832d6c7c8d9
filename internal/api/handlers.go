// Package api exposes HTTP handlers for the gym membership backend.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Jospinra/gym-memberships-tracker/internal/domain"
)

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	memberships *domain.MembershipService
	attendance  *domain.AttendanceService
}

// NewHandler builds a Handler.
func NewHandler(memberships *domain.MembershipService, attendance *domain.AttendanceService) *Handler {
	return &Handler{memberships: memberships, attendance: attendance}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/members", h.members)
	mux.HandleFunc("/api/members/", h.memberByID)
	mux.HandleFunc("/api/plans", h.plans)
	mux.HandleFunc("/api/payments", h.payments)
	mux.HandleFunc("/api/attendance/", h.attendanceHistory)
	mux.HandleFunc("/api/attendance/checkin/", h.checkIn)
	mux.HandleFunc("/api/attendance/checkout/", h.checkOut)
	mux.HandleFunc("/api/reports/revenue", h.revenueReport)
	mux.HandleFunc("/api/reports/attendance/", h.attendanceReport)
	mux.HandleFunc("/health", health)
}

// health reports a simple OK status regardless of store availability.
func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) members(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listMembers(w, r)
	case http.MethodPost:
		h.registerMember(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) memberByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r.URL.Path, "/api/members/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getMember(w, r, id)
	case http.MethodPut:
		h.updateMember(w, r, id)
	case http.MethodDelete:
		h.deleteMember(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberships.ListMembers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, toMemberView(m))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) getMember(w http.ResponseWriter, r *http.Request, id int64) {
	member, err := h.memberships.GetMember(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMemberView(*member))
}

func (h *Handler) registerMember(w http.ResponseWriter, r *http.Request) {
	var req RegisterMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	member, err := h.memberships.RegisterMember(r.Context(), domain.RegisterMemberInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		PlanID: req.PlanID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      member.ID,
		"name":    member.Name,
		"email":   member.Email,
		"message": "Member registered successfully",
	})
}

func (h *Handler) updateMember(w http.ResponseWriter, r *http.Request, id int64) {
	var req UpdateMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	err := h.memberships.UpdateMember(r.Context(), id, domain.UpdateMemberInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Status: domain.MemberStatus(req.Status),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Member updated successfully"})
}

func (h *Handler) deleteMember(w http.ResponseWriter, r *http.Request, id int64) {
	if err := h.memberships.DeleteMember(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Member deleted successfully"})
}

func (h *Handler) plans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listPlans(w, r)
	case http.MethodPost:
		h.createPlan(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.memberships.ListPlans(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views := make([]PlanView, 0, len(plans))
	for _, p := range plans {
		views = append(views, toPlanView(p))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) createPlan(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	plan, err := h.memberships.CreatePlan(r.Context(), domain.CreatePlanInput{
		Name:           req.Name,
		DurationMonths: req.DurationMonths,
		Price:          req.Price,
		Description:    req.Description,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      plan.ID,
		"name":    plan.Name,
		"message": "Plan created successfully",
	})
}

func (h *Handler) payments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listPayments(w, r)
	case http.MethodPost:
		h.recordPayment(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
	}
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.memberships.ListPayments(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, toPaymentView(p))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "unable to parse body")
		return
	}

	payment, err := h.memberships.RecordPayment(r.Context(), domain.RecordPaymentInput{
		MemberID: req.MemberID,
		PlanID:   req.PlanID,
		Amount:   req.Amount,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        payment.ID,
		"member_id": payment.MemberID,
		"amount":    payment.Amount,
		"message":   "Payment recorded successfully",
	})
}

func (h *Handler) attendanceHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	memberID, ok := pathID(w, r.URL.Path, "/api/attendance/")
	if !ok {
		return
	}

	records, err := h.attendance.History(r.Context(), memberID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views := make([]AttendanceView, 0, len(records))
	for _, rec := range records {
		views = append(views, toAttendanceView(rec))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) checkIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	memberID, ok := pathID(w, r.URL.Path, "/api/attendance/checkin/")
	if !ok {
		return
	}

	record, err := h.attendance.CheckIn(r.Context(), memberID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      record.ID,
		"message": "Check-in recorded successfully",
	})
}

func (h *Handler) checkOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	attendanceID, ok := pathID(w, r.URL.Path, "/api/attendance/checkout/")
	if !ok {
		return
	}

	minutes, err := h.attendance.CheckOut(r.Context(), attendanceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":         "Check-out recorded successfully",
		"durationMinutes": minutes,
	})
}

func (h *Handler) revenueReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	var planID *int64
	if raw := r.URL.Query().Get("plan_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid plan_id")
			return
		}
		planID = &parsed
	}

	payments, err := h.memberships.ListPayments(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := RevenueReportResponse{
		TotalRevenue: domain.Revenue(payments, planID),
		ByPlan:       domain.RevenueByPlan(payments),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) attendanceReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "unsupported method")
		return
	}

	memberID, ok := pathID(w, r.URL.Path, "/api/reports/attendance/")
	if !ok {
		return
	}

	records, err := h.attendance.History(r.Context(), memberID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	peakHour, peakCount := domain.PeakCheckInHour(records)
	resp := AttendanceReportResponse{
		MemberID:        memberID,
		TotalVisits:     len(records),
		AverageDuration: domain.AverageDuration(records),
		TodayCheckIns:   domain.CheckInsOnDay(records, time.Now().UTC()),
		PeakHour:        peakHour,
		PeakHourVisits:  peakCount,
	}
	writeJSON(w, http.StatusOK, resp)
}

// pathID extracts a numeric id from the path suffix, writing a 400 on failure.
func pathID(w http.ResponseWriter, path, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(path, prefix)
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, http.StatusBadRequest, "missing id")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrIneligible):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"error": detail})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
